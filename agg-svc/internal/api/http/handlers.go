package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"delivery-platform/agg-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Stats  service.StatsInterface
	Logger *zap.Logger
}

func NewHandler(stats service.StatsInterface, logger *zap.Logger) *Handler {
	return &Handler{Stats: stats, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/api/vendor/{vendorId}/stats", h.getVendorStats).Methods("GET")
	r.HandleFunc("/api/admin/top-vendors", h.getTopVendors).Methods("GET")
}

func (h *Handler) getVendorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.VendorStats(r.Context(), mux.Vars(r)["vendorId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getTopVendors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	top, err := h.Stats.TopVendors(r.Context(), query.Get("section"), query.Get("date"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSection), errors.Is(err, service.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrStatsNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.Logger.Error("stats request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
