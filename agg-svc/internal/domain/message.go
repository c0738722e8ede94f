package domain

import "time"

const EventOrderPlaced = "order_placed"

// OrderEvent is the message cart-svc publishes after a successful checkout.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   int       `json:"order_id"`
	VendorID  string    `json:"vendor_id"`
	Section   string    `json:"section"`
	ItemCount int       `json:"item_count"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

var Sections = []string{"restaurant", "grocery", "pharmacy", "health-beauty"}

func ValidSection(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

type VendorStats struct {
	VendorID    string    `json:"vendor_id"`
	Orders      int64     `json:"orders"`
	Items       int64     `json:"items"`
	Revenue     float64   `json:"revenue"`
	LastOrderAt time.Time `json:"last_order_at"`
}

type VendorScore struct {
	VendorID string  `json:"vendor_id"`
	Section  string  `json:"section"`
	Orders   float64 `json:"orders"`
}
