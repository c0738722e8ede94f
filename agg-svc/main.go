package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "delivery-platform/agg-svc/internal/api/http"
	"delivery-platform/agg-svc/internal/service"
	"delivery-platform/agg-svc/internal/storage"
	"delivery-platform/config"

	"go.uber.org/zap"
)

func main() {
	settings := config.MustLoad()
	logger := config.MustInitLogger("agg-svc", settings.Log)
	defer logger.Sync()

	rdb := config.MustInitRedis(settings.Redis, logger)
	defer rdb.Close()
	reader := config.NewKafkaReader(settings.Kafka)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewStore(rdb)
	consumer := service.NewConsumer(reader, store, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Start(ctx)
	}()

	handler := httpapi.NewHandler(service.NewStatsService(store), logger)
	srv := httpapi.NewServer(settings.Gateway.AggAddr, httpapi.NewRouter(handler))
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := httpapi.StartServer(srv, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		stop()
	}
	<-done
}
