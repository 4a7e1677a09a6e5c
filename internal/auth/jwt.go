package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type StaffRole string

const (
	RoleKitchen  StaffRole = "kitchen"
	RoleDelivery StaffRole = "delivery"
	RoleAdmin    StaffRole = "admin"
)

func ParseRole(value string) (StaffRole, bool) {
	switch StaffRole(strings.ToLower(strings.TrimSpace(value))) {
	case RoleKitchen:
		return RoleKitchen, true
	case RoleDelivery:
		return RoleDelivery, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Allows reports whether a token with role r may use a route requiring need.
// Admin passes every check.
func (r StaffRole) Allows(need StaffRole) bool {
	return r == RoleAdmin || r == need
}

type Claims struct {
	Role StaffRole `json:"role"`
	Name string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func ParseBearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func IssueStaffToken(secret string, role StaffRole, name string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("staff auth is disabled")
	}
	now := time.Now()
	expires := now.Add(ttl)
	claims := Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func VerifyStaffToken(tokenString string, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if _, ok := ParseRole(string(claims.Role)); !ok {
		return nil, errors.New("unknown staff role")
	}
	return claims, nil
}
