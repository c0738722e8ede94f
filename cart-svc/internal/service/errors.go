package service

import "errors"

var (
	ErrInvalidItem         = errors.New("invalid cart item")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrStateNotFound       = errors.New("cart state not found")
	ErrStateUnavailable    = errors.New("cart state unavailable")
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	ErrOrderNotFound       = errors.New("order not found")
)
