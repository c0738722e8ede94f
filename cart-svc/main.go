package main

import (
	"context"

	httpapi "delivery-platform/cart-svc/internal/api/http"
	"delivery-platform/cart-svc/internal/service"
	"delivery-platform/cart-svc/internal/storage"
	"delivery-platform/config"

	"go.uber.org/zap"
)

func main() {
	settings := config.MustLoad()
	logger := config.MustInitLogger("cart-svc", settings.Log)
	defer logger.Sync()

	db := config.MustInitPostgres(settings.Postgres, logger)
	defer db.Close()
	rdb := config.MustInitRedis(settings.Redis, logger)
	defer rdb.Close()
	writer := config.NewKafkaWriter(settings.Kafka)
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	pricing := service.Pricing{
		DeliveryFee: settings.Cart.DeliveryFee,
		TaxRate:     settings.Cart.TaxRate,
	}
	sessions := service.NewSessions(
		storage.NewRedisStateStore(rdb, settings.Cart.TTL),
		pricing,
		settings.Cart.KeyPrefix,
		logger,
	)
	checkout := service.NewCheckoutService(
		repo,
		service.DefaultQRGenerator{BaseURL: settings.Cart.QRBaseURL, Size: settings.Cart.QRSize},
		storage.NewKafkaPublisher(writer),
		logger,
	)
	catalog := service.NewCatalogService(repo)

	handler := httpapi.NewHandler(sessions, checkout, catalog, logger)
	httpapi.StartServer(settings.Cart.Addr, httpapi.NewRouter(handler), logger)
}
