package auth

import "strings"

// routeRoles maps route prefixes, optionally method-qualified, to the staff
// role they require. Routes not listed are public.
var routeRoles = map[string]StaffRole{
	"/api/orders":          RoleKitchen,
	"/ws/orders":           RoleKitchen,
	"/orders":              RoleKitchen,
	"/api/delivery-orders": RoleDelivery,
	"/ws/delivery-orders":  RoleDelivery,
	"/delivery-orders":     RoleDelivery,

	"POST /api/dishes":        RoleAdmin,
	"PUT /api/dishes":         RoleAdmin,
	"PATCH /api/dishes":       RoleAdmin,
	"DELETE /api/dishes":      RoleAdmin,
	"POST /api/ingredients":   RoleAdmin,
	"PUT /api/ingredients":    RoleAdmin,
	"PATCH /api/ingredients":  RoleAdmin,
	"DELETE /api/ingredients": RoleAdmin,
	"POST /api/menu/reload":   RoleAdmin,
}

// RequiredRole returns the role guarding path, picking the longest matching
// prefix and preferring method-specific entries on ties.
func RequiredRole(path string, method string) (StaffRole, bool) {
	method = strings.ToUpper(strings.TrimSpace(method))

	var (
		bestPath           string
		bestRole           StaffRole
		found              bool
		bestMethodSpecific bool
	)
	for key, role := range routeRoles {
		keyPath := key
		methodSpecific := false
		if keyMethod, rest, ok := strings.Cut(key, " "); ok {
			if method != keyMethod {
				continue
			}
			keyPath = rest
			methodSpecific = true
		}
		if !matchesPrefix(path, keyPath) {
			continue
		}
		if !found || len(keyPath) > len(bestPath) || (len(keyPath) == len(bestPath) && methodSpecific && !bestMethodSpecific) {
			bestPath = keyPath
			bestRole = role
			bestMethodSpecific = methodSpecific
			found = true
		}
	}
	return bestRole, found
}

// matchesPrefix only matches on segment boundaries so /orders does not
// guard /ordersomething.
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
