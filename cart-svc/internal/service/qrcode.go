package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"delivery-platform/cart-svc/internal/domain"

	"github.com/skip2/go-qrcode"
)

// PickupRef is what a courier or counter needs to match a scanned code to an order.
type PickupRef struct {
	OrderID   int
	VendorID  string
	ItemCount int
}

func pickupRefFor(order *domain.Order) PickupRef {
	ref := PickupRef{OrderID: order.ID, VendorID: order.VendorID}
	for _, item := range order.Items {
		ref.ItemCount += item.Quantity
	}
	return ref
}

// DefaultQRGenerator encodes the pickup link of an order as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

// PickupURL is BaseURL/<order id>?items=<n>&vendor=<vendor id>.
func (g DefaultQRGenerator) PickupURL(ref PickupRef) string {
	query := url.Values{}
	query.Set("vendor", ref.VendorID)
	query.Set("items", strconv.Itoa(ref.ItemCount))
	return fmt.Sprintf("%s/%d?%s", strings.TrimRight(g.BaseURL, "/"), ref.OrderID, query.Encode())
}

func (g DefaultQRGenerator) Generate(ref PickupRef) ([]byte, error) {
	if ref.OrderID <= 0 {
		return nil, fmt.Errorf("pickup code needs an order id, got %d", ref.OrderID)
	}
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.PickupURL(ref), qrcode.Medium, size)
}
