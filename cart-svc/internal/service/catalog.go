package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"delivery-platform/cart-svc/internal/domain"
)

// CatalogSelection is a menu pick: a catalog entry plus the customer's choices.
type CatalogSelection struct {
	VendorID            string          `json:"vendor_id"`
	ItemID              string          `json:"item_id"`
	Quantity            int             `json:"quantity"`
	Options             []domain.Option `json:"options,omitempty"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	SwitchVendor        bool            `json:"switch_vendor,omitempty"`
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	return s.repo.ListItems(ctx, vendorID)
}

// LineItem resolves a selection against the catalog so the cart receives the
// vendor's current name, section and price.
func (s *CatalogService) LineItem(ctx context.Context, req CatalogSelection) (domain.LineItem, error) {
	if req.VendorID == "" || req.ItemID == "" {
		return domain.LineItem{}, fmt.Errorf("%w: vendor_id and item_id are required", ErrInvalidItem)
	}

	entry, err := s.repo.ResolveItem(ctx, req.VendorID, req.ItemID)
	if err != nil {
		return domain.LineItem{}, err
	}

	return domain.LineItem{
		ID:                  lineItemID(entry.ID, req.Options),
		Name:                entry.Name,
		Price:               entry.Price,
		Quantity:            req.Quantity,
		VendorID:            entry.VendorID,
		VendorName:          entry.VendorName,
		Section:             entry.Section,
		Options:             req.Options,
		SpecialInstructions: req.SpecialInstructions,
	}, nil
}

// lineItemID keys a cart line by catalog item and chosen options, so the same dish
// with different modifiers stays on separate lines. Options are sorted and escaped,
// so their order never matters and their values cannot collide.
func lineItemID(itemID string, options []domain.Option) string {
	id := url.QueryEscape(itemID)
	if len(options) == 0 {
		return id
	}

	sorted := append([]domain.Option(nil), options...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Value < sorted[j].Value
	})

	values := url.Values{}
	for _, opt := range sorted {
		values.Add(opt.Name, opt.Value)
	}
	return id + "|" + values.Encode()
}
