package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

type Section string

const (
	SectionRestaurant   Section = "restaurant"
	SectionGrocery      Section = "grocery"
	SectionPharmacy     Section = "pharmacy"
	SectionHealthBeauty Section = "health-beauty"
)

func (s Section) Valid() bool {
	switch s {
	case SectionRestaurant, SectionGrocery, SectionPharmacy, SectionHealthBeauty:
		return true
	}
	return false
}

// Option is a selected modifier. Price is a per-unit surcharge.
type Option struct {
	Name  string   `json:"name"`
	Value string   `json:"value"`
	Price *float64 `json:"price,omitempty"`
}

func (o Option) Surcharge() float64 {
	if o.Price == nil {
		return 0
	}
	return *o.Price
}

type LineItem struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Price               float64  `json:"price"`
	Quantity            int      `json:"quantity"`
	VendorID            string   `json:"vendor_id"`
	VendorName          string   `json:"vendor_name"`
	Section             Section  `json:"section"`
	Options             []Option `json:"options,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 999

// flexID accepts ids sent as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

func (i *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	aux := struct {
		*plain
		ID       flexID `json:"id"`
		VendorID flexID `json:"vendor_id"`
	}{plain: (*plain)(i), ID: flexID(i.ID), VendorID: flexID(i.VendorID)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ID = string(aux.ID)
	i.VendorID = string(aux.VendorID)
	return nil
}

// UnitPrice is the item price plus every option surcharge.
func (i LineItem) UnitPrice() float64 {
	unit := i.Price
	for _, opt := range i.Options {
		unit += opt.Surcharge()
	}
	return unit
}

func (i LineItem) Vendor() VendorRef {
	return VendorRef{ID: i.VendorID, Name: i.VendorName, Section: i.Section}
}

type VendorRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Section Section `json:"section"`
}

// CartState is the persisted shape of a cart.
type CartState struct {
	Items         []LineItem `json:"items"`
	CurrentVendor *VendorRef `json:"current_vendor"`
}

func EmptyCart() CartState {
	return CartState{Items: []LineItem{}}
}

func (s CartState) Subtotal() float64 {
	var subtotal float64
	for _, item := range s.Items {
		subtotal += item.UnitPrice() * float64(item.Quantity)
	}
	return RoundCents(subtotal)
}

func (s CartState) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

func (s CartState) IndexOf(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

var ErrInconsistentCart = errors.New("inconsistent cart state")

// Validate checks the single-vendor, quantity and id invariants.
func (s CartState) Validate() error {
	if len(s.Items) == 0 {
		if s.CurrentVendor != nil {
			return fmt.Errorf("%w: vendor %q set on empty cart", ErrInconsistentCart, s.CurrentVendor.ID)
		}
		return nil
	}
	if s.CurrentVendor == nil {
		return fmt.Errorf("%w: items without vendor", ErrInconsistentCart)
	}

	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if item.Vendor() != *s.CurrentVendor {
			return fmt.Errorf("%w: item %q belongs to vendor %q", ErrInconsistentCart, item.ID, item.VendorID)
		}
		if item.Quantity < 1 || item.Quantity > MaxLineQuantity {
			return fmt.Errorf("%w: item %q has quantity %d", ErrInconsistentCart, item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item %q", ErrInconsistentCart, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

type CartView struct {
	SessionID     string     `json:"session_id,omitempty"`
	Items         []LineItem `json:"items"`
	CurrentVendor *VendorRef `json:"current_vendor"`
	ItemCount     int        `json:"item_count"`
	Subtotal      float64    `json:"subtotal"`
	DeliveryFee   float64    `json:"delivery_fee"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
}

type Order struct {
	ID          int         `json:"id"`
	SessionID   string      `json:"session_id"`
	VendorID    string      `json:"vendor_id"`
	VendorName  string      `json:"vendor_name"`
	Section     Section     `json:"section"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Tax         float64     `json:"tax"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	QRCode      string      `json:"qr_code,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items"`
}

type OrderItem struct {
	ItemID              string   `json:"item_id"`
	Name                string   `json:"name"`
	Quantity            int      `json:"quantity"`
	UnitPrice           float64  `json:"unit_price"`
	Options             []Option `json:"options,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

const EventOrderPlaced = "order_placed"

type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   int       `json:"order_id"`
	VendorID  string    `json:"vendor_id"`
	Section   Section   `json:"section"`
	ItemCount int       `json:"item_count"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

type CatalogItem struct {
	ID         string  `json:"id"`
	VendorID   string  `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	Section    Section `json:"section"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
