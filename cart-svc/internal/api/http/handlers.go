package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"delivery-platform/cart-svc/internal/domain"
	"delivery-platform/cart-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Carts    service.CartSessions
	Checkout service.CheckoutServiceInterface
	Catalog  service.CatalogServiceInterface
	Logger   *zap.Logger
}

func NewHandler(carts service.CartSessions, checkout service.CheckoutServiceInterface, catalog service.CatalogServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{
		Carts:    carts,
		Checkout: checkout,
		Catalog:  catalog,
		Logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/sessions", h.createSession).Methods("POST")

	r.HandleFunc("/api/cart/{sessionId}", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/{sessionId}", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/{sessionId}/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/cart/{sessionId}/items/switch-vendor", h.switchVendor).Methods("POST")
	r.HandleFunc("/api/cart/{sessionId}/items/{itemId}", h.updateQuantity).Methods("PATCH")
	r.HandleFunc("/api/cart/{sessionId}/items/{itemId}", h.removeItem).Methods("DELETE")
	r.HandleFunc("/api/cart/{sessionId}/catalog-items", h.addCatalogItem).Methods("POST")

	r.HandleFunc("/api/checkout/{sessionId}", h.checkout).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/catalog/vendors/{vendorId}/items", h.getCatalogItems).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "cart-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": service.NewSessionID()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var view domain.CartView
	if err := h.Carts.With(r.Context(), sessionID, func(cart *service.CartStore) error {
		view = cart.View()
		return nil
	}); err != nil {
		h.writeError(w, err)
		return
	}

	view.SessionID = sessionID
	writeJSON(w, http.StatusOK, view)
}

type conflictResponse struct {
	Error          string            `json:"error"`
	CurrentVendor  domain.VendorRef  `json:"current_vendor"`
	IncomingVendor domain.VendorRef  `json:"incoming_vendor"`
	Cart           domain.CartView   `json:"cart"`
	Status         service.AddStatus `json:"status"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.add(w, r, item, false)
}

func (h *Handler) switchVendor(w http.ResponseWriter, r *http.Request) {
	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.add(w, r, item, true)
}

func (h *Handler) addCatalogItem(w http.ResponseWriter, r *http.Request) {
	var selection service.CatalogSelection
	if err := json.NewDecoder(r.Body).Decode(&selection); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Catalog.LineItem(r.Context(), selection)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.add(w, r, item, selection.SwitchVendor)
}

// add applies item to the session's cart. A vendor conflict answers 409 unless the
// caller already confirmed the switch.
func (h *Handler) add(w http.ResponseWriter, r *http.Request, item domain.LineItem, confirmed bool) {
	sessionID := mux.Vars(r)["sessionId"]

	var (
		result service.AddResult
		view   domain.CartView
	)
	err := h.Carts.With(r.Context(), sessionID, func(cart *service.CartStore) error {
		var err error
		if confirmed {
			result, err = cart.ConfirmVendorSwitch(r.Context(), item)
		} else {
			result, err = cart.AddItem(r.Context(), item)
		}
		view = cart.View()
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	view.SessionID = sessionID

	if result.Status == service.AddConflict {
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:          "cart holds items from another vendor",
			CurrentVendor:  result.Conflict.Current,
			IncomingVendor: result.Conflict.Incoming,
			Cart:           view,
			Status:         result.Status,
		})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var payload struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}

	var view domain.CartView
	if err := h.Carts.With(r.Context(), vars["sessionId"], func(cart *service.CartStore) error {
		if err := cart.UpdateQuantity(r.Context(), vars["itemId"], *payload.Quantity); err != nil {
			return err
		}
		view = cart.View()
		return nil
	}); err != nil {
		h.writeError(w, err)
		return
	}

	view.SessionID = vars["sessionId"]
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var view domain.CartView
	if err := h.Carts.With(r.Context(), vars["sessionId"], func(cart *service.CartStore) error {
		cart.RemoveItem(r.Context(), vars["itemId"])
		view = cart.View()
		return nil
	}); err != nil {
		h.writeError(w, err)
		return
	}

	view.SessionID = vars["sessionId"]
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.Carts.With(r.Context(), sessionID, func(cart *service.CartStore) error {
		cart.ClearCart(r.Context())
		return nil
	}); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var order *domain.Order
	err := h.Carts.With(r.Context(), sessionID, func(cart *service.CartStore) error {
		var err error
		order, err = h.Checkout.PlaceOrder(r.Context(), sessionID, cart)
		return err
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.Checkout.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	qr, err := h.Checkout.GetQRCode(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func (h *Handler) getCatalogItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListItems(r.Context(), mux.Vars(r)["vendorId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidItem), errors.Is(err, service.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCatalogItemNotFound), errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrStateUnavailable):
		if h.Logger != nil {
			h.Logger.Warn("cart state unavailable", zap.Error(err))
		}
		http.Error(w, "cart temporarily unavailable", http.StatusServiceUnavailable)
	default:
		if h.Logger != nil {
			h.Logger.Error("request failed", zap.Error(err))
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
