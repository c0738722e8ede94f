package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-platform/cart-svc/internal/domain"

	"go.uber.org/zap"
)

// Pricing is the fee policy applied to a non-empty cart.
type Pricing struct {
	DeliveryFee float64
	TaxRate     float64
}

var DefaultPricing = Pricing{DeliveryFee: 2.99, TaxRate: 0.08}

type AddStatus string

const (
	AddAdded    AddStatus = "added"
	AddMerged   AddStatus = "merged"
	AddConflict AddStatus = "vendor_conflict"
)

// VendorConflict describes an add that targets a vendor other than the cart's.
type VendorConflict struct {
	Current  domain.VendorRef `json:"current_vendor"`
	Incoming domain.VendorRef `json:"incoming_vendor"`
}

type AddResult struct {
	Status   AddStatus       `json:"status"`
	Conflict *VendorConflict `json:"conflict,omitempty"`
}

// CartStore owns one session's cart. It is not safe for concurrent use; Sessions
// serializes access per session.
type CartStore struct {
	key     string
	state   domain.CartState
	pricing Pricing
	states  StateStore
	logger  *zap.Logger
}

// NewCartStore restores the cart persisted under key. A missing blob yields an empty
// cart and an unreadable or inconsistent blob is discarded. A failed read returns
// ErrStateUnavailable so callers never mutate a cart they could not see.
func NewCartStore(ctx context.Context, key string, states StateStore, pricing Pricing, logger *zap.Logger) (*CartStore, error) {
	s := &CartStore{
		key:     key,
		state:   domain.EmptyCart(),
		pricing: pricing,
		states:  states,
		logger:  logger.With(zap.String("cart_key", key)),
	}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CartStore) restore(ctx context.Context) error {
	if s.states == nil {
		return nil
	}

	blob, err := s.states.Load(ctx, s.key)
	if errors.Is(err, ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}

	state, err := DecodeState(blob)
	if err != nil {
		s.logger.Warn("discarding corrupt cart state", zap.Error(err))
		if err := s.states.Delete(ctx, s.key); err != nil {
			s.logger.Warn("failed to delete corrupt cart state", zap.Error(err))
		}
		return nil
	}
	s.state = state
	return nil
}

func (s *CartStore) AddItem(ctx context.Context, item domain.LineItem) (AddResult, error) {
	if err := validateItem(item); err != nil {
		return AddResult{}, err
	}

	if s.state.CurrentVendor != nil && s.state.CurrentVendor.ID != item.VendorID {
		return AddResult{
			Status: AddConflict,
			Conflict: &VendorConflict{
				Current:  *s.state.CurrentVendor,
				Incoming: item.Vendor(),
			},
		}, nil
	}

	result, err := s.add(item)
	if err != nil {
		return AddResult{}, err
	}
	s.persist(ctx)
	return result, nil
}

// ConfirmVendorSwitch completes an add that AddItem reported as a conflict: the
// current cart is discarded and a new one is started with item.
func (s *CartStore) ConfirmVendorSwitch(ctx context.Context, item domain.LineItem) (AddResult, error) {
	if err := validateItem(item); err != nil {
		return AddResult{}, err
	}

	if s.state.CurrentVendor != nil && s.state.CurrentVendor.ID != item.VendorID {
		s.logger.Info("switching cart vendor",
			zap.String("from_vendor", s.state.CurrentVendor.ID),
			zap.String("to_vendor", item.VendorID),
			zap.Int("dropped_items", len(s.state.Items)))
		s.state = domain.EmptyCart()
	}

	result, err := s.add(item)
	if err != nil {
		return AddResult{}, err
	}
	s.persist(ctx)
	return result, nil
}

func (s *CartStore) add(item domain.LineItem) (AddResult, error) {
	if i := s.state.IndexOf(item.ID); i >= 0 {
		merged := s.state.Items[i].Quantity + item.Quantity
		if merged > domain.MaxLineQuantity {
			return AddResult{}, fmt.Errorf("%w: quantity of %q would exceed %d", ErrInvalidItem, item.ID, domain.MaxLineQuantity)
		}
		s.state.Items[i].Quantity = merged
		return AddResult{Status: AddMerged}, nil
	}

	if len(s.state.Items) == 0 {
		vendor := item.Vendor()
		s.state.CurrentVendor = &vendor
	}

	// vendor id is the lock; name and section follow the cart's vendor
	item.VendorName = s.state.CurrentVendor.Name
	item.Section = s.state.CurrentVendor.Section
	item.Options = append([]domain.Option(nil), item.Options...)
	s.state.Items = append(s.state.Items, item)
	return AddResult{Status: AddAdded}, nil
}

// RemoveItem drops the item with id; unknown ids are ignored.
func (s *CartStore) RemoveItem(ctx context.Context, id string) {
	if i := s.state.IndexOf(id); i >= 0 {
		s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
	}
	if len(s.state.Items) == 0 {
		s.state.CurrentVendor = nil
	}
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of id. Anything below 1 removes the item.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity > domain.MaxLineQuantity {
		return fmt.Errorf("%w: quantity must be at most %d", ErrInvalidItem, domain.MaxLineQuantity)
	}
	if quantity < 1 {
		s.RemoveItem(ctx, id)
		return nil
	}
	if i := s.state.IndexOf(id); i >= 0 {
		s.state.Items[i].Quantity = quantity
	}
	s.persist(ctx)
	return nil
}

func (s *CartStore) ClearCart(ctx context.Context) {
	s.state = domain.EmptyCart()
	s.persist(ctx)
}

func (s *CartStore) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(s.state.Items))
	for i, item := range s.state.Items {
		item.Options = append([]domain.Option(nil), item.Options...)
		items[i] = item
	}
	return items
}

func (s *CartStore) CurrentVendor() *domain.VendorRef {
	if s.state.CurrentVendor == nil {
		return nil
	}
	vendor := *s.state.CurrentVendor
	return &vendor
}

func (s *CartStore) Subtotal() float64 {
	return s.state.Subtotal()
}

func (s *CartStore) ItemCount() int {
	return s.state.ItemCount()
}

func (s *CartStore) DeliveryFee() float64 {
	if len(s.state.Items) == 0 {
		return 0
	}
	return s.pricing.DeliveryFee
}

func (s *CartStore) Tax() float64 {
	return domain.RoundCents(s.Subtotal() * s.pricing.TaxRate)
}

func (s *CartStore) Total() float64 {
	return domain.RoundCents(s.Subtotal() + s.DeliveryFee() + s.Tax())
}

func (s *CartStore) View() domain.CartView {
	return domain.CartView{
		Items:         s.Items(),
		CurrentVendor: s.CurrentVendor(),
		ItemCount:     s.ItemCount(),
		Subtotal:      s.Subtotal(),
		DeliveryFee:   s.DeliveryFee(),
		Tax:           s.Tax(),
		Total:         s.Total(),
	}
}

// persist writes the current state. Failures are logged; the in-memory state stays
// authoritative.
func (s *CartStore) persist(ctx context.Context) {
	if s.states == nil {
		return
	}
	blob, err := EncodeState(s.state)
	if err != nil {
		s.logger.Warn("failed to encode cart state", zap.Error(err))
		return
	}
	if err := s.states.Save(ctx, s.key, blob); err != nil {
		s.logger.Warn("failed to persist cart state", zap.Error(err))
	}
}

func validateItem(item domain.LineItem) error {
	switch {
	case item.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	case item.VendorID == "":
		return fmt.Errorf("%w: vendor_id is required", ErrInvalidItem)
	case item.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidItem)
	case item.Quantity > domain.MaxLineQuantity:
		return fmt.Errorf("%w: quantity must be at most %d", ErrInvalidItem, domain.MaxLineQuantity)
	case item.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	case !item.Section.Valid():
		return fmt.Errorf("%w: unknown section %q", ErrInvalidItem, item.Section)
	}
	for _, opt := range item.Options {
		if opt.Surcharge() < 0 {
			return fmt.Errorf("%w: option %q has a negative price", ErrInvalidItem, opt.Name)
		}
	}
	return nil
}

func EncodeState(state domain.CartState) ([]byte, error) {
	if state.Items == nil {
		state.Items = []domain.LineItem{}
	}
	return json.Marshal(state)
}

// DecodeState parses a persisted blob and rejects states that break cart invariants.
func DecodeState(blob []byte) (domain.CartState, error) {
	var state domain.CartState
	if err := json.Unmarshal(blob, &state); err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart state: %w", err)
	}
	if state.Items == nil {
		state.Items = []domain.LineItem{}
	}
	if err := state.Validate(); err != nil {
		return domain.CartState{}, err
	}
	return state, nil
}
