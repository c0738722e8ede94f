package main

import (
	"net/http"
	"time"

	"delivery-platform/api-gateway/internal/auth"
	"delivery-platform/api-gateway/internal/gateway"
	"delivery-platform/config"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	settings := config.MustLoad()
	logger := config.MustInitLogger("api-gateway", settings.Log)
	defer logger.Sync()

	gw := gateway.NewGateway(
		gateway.Config{
			CartSvcURL: settings.Gateway.CartSvcURL,
			AggSvcURL:  settings.Gateway.AggSvcURL,
		},
		&http.Client{Timeout: 10 * time.Second},
		auth.NewRegistry(settings.Gateway.SessionTTL),
		logger,
	)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(gw.SetupRoutes())

	logger.Info("api gateway starting", zap.String("addr", settings.Gateway.Addr))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(settings.Gateway.Addr, handler)))
}
