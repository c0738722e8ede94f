package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler, logger *zap.Logger) {
	logger.Info("cart service starting", zap.String("addr", addr))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(addr, handler)))
}
