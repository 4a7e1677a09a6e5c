package handlers

import (
	"net/http"
	"testing"

	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/delivery"
)

func TestPageTemplatesParsed(t *testing.T) {
	for _, name := range []string{"menu", "cart", "kitchen", "delivery"} {
		tmpl, ok := pageTemplates[name]
		if !ok || tmpl.Lookup("content") == nil || tmpl.Lookup("layout") == nil {
			t.Fatalf("page %s is missing layout or content", name)
		}
	}
}

func TestActionLabel(t *testing.T) {
	label := pageFuncs["actionLabel"].(func(string) string)
	cases := map[string]string{
		delivery.ActionInDelivery: "In delivery",
		delivery.ActionDelivered:  "Delivered",
		delivery.ActionDelayed:    "Delayed",
		"other":                   "other",
	}
	for in, want := range cases {
		if got := label(in); got != want {
			t.Fatalf("actionLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "checkout", err: &checkout.Error{Code: checkout.ErrCartEmpty, Message: "Your cart is empty."}, want: "Your cart is empty."},
		{name: "catalog", err: &catalog.Error{Code: catalog.ErrDishNotFound, Message: "Dish not found", StatusCode: http.StatusNotFound}, want: "Dish not found"},
		{name: "unknown", err: http.ErrHandlerTimeout, want: "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorMessage(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
