package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleRider    Role = "rider"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleGuest, RoleCustomer, RoleRider, RoleVendor, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Route identifies a guarded area of the platform.
type Route string

const (
	RouteCatalog         Route = "catalog"
	RouteCart            Route = "cart"
	RouteCheckout        Route = "checkout"
	RouteOrders          Route = "orders"
	RouteRiderDashboard  Route = "rider-dashboard"
	RouteVendorDashboard Route = "vendor-dashboard"
	RouteAdmin           Route = "admin"
)

// CanAccess reports whether role may enter route. Unknown roles are denied everything.
func CanAccess(role Role, route Route) bool {
	switch role {
	case RoleGuest:
		return route == RouteCatalog || route == RouteCart
	case RoleCustomer:
		switch route {
		case RouteCatalog, RouteCart, RouteCheckout, RouteOrders:
			return true
		}
		return false
	case RoleRider:
		return route == RouteOrders || route == RouteRiderDashboard
	case RoleVendor:
		return route == RouteOrders || route == RouteVendorDashboard
	case RoleAdmin:
		return true
	default:
		return false
	}
}

// HomeRoute is where a role lands after signing in.
func HomeRoute(role Role) Route {
	switch role {
	case RoleRider:
		return RouteRiderDashboard
	case RoleVendor:
		return RouteVendorDashboard
	case RoleAdmin:
		return RouteAdmin
	default:
		return RouteCatalog
	}
}

var routePrefixes = []struct {
	prefix string
	route  Route
}{
	{"/api/catalog/", RouteCatalog},
	{"/api/sessions", RouteCart},
	{"/api/cart/", RouteCart},
	{"/api/checkout/", RouteCheckout},
	{"/api/orders/", RouteOrders},
	{"/api/rider/", RouteRiderDashboard},
	{"/api/vendor/", RouteVendorDashboard},
	{"/api/admin/", RouteAdmin},
}

// RouteForPath classifies a request path. Paths outside every guarded area report false.
func RouteForPath(path string) (Route, bool) {
	for _, p := range routePrefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.route, true
		}
	}
	return "", false
}
