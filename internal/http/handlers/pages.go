package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/kitchen"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/internal/utils"
)

var pageFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"has": func(list []string, value string) bool {
		for _, v := range list {
			if v == value {
				return true
			}
		}
		return false
	},
	"actionLabel": func(action string) string {
		switch action {
		case delivery.ActionInDelivery:
			return "In delivery"
		case delivery.ActionDelivered:
			return "Delivered"
		case delivery.ActionDelayed:
			return "Delayed"
		default:
			return action
		}
	},
}

var pageTemplates = map[string]*template.Template{
	"menu":     mustPage(menuPageTemplate),
	"cart":     mustPage(cartPageTemplate),
	"kitchen":  mustPage(kitchenPageTemplate),
	"delivery": mustPage(deliveryPageTemplate),
}

func mustPage(content string) *template.Template {
	t := template.Must(template.New("page").Funcs(pageFuncs).Parse(layoutTemplate))
	return template.Must(t.Parse(content))
}

type pageData struct {
	Title      string
	Path       string
	ShowNavbar bool
	CartCount  int
	Alert      string
	Flash      string
	Data       any
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page pageData) {
	page.Path = r.URL.Path
	// the cart page is a focused checkout view
	page.ShowNavbar = page.Path != "/cart"
	page.CartCount = len(h.Cart.Items(r.Context(), middleware.GetCartSession(r.Context())))
	if page.Alert == "" {
		page.Alert = r.URL.Query().Get("error")
	}
	if page.Flash == "" {
		page.Flash = r.URL.Query().Get("notice")
	}

	var buf bytes.Buffer
	if err := pageTemplates[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		h.Logger.Error("page render failed", zapError(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func redirectBack(w http.ResponseWriter, r *http.Request, path string, key, msg string) {
	target := path
	if msg != "" {
		target += "?" + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func errorMessage(err error) string {
	if ce, ok := checkout.AsError(err); ok {
		return ce.Message
	}
	if ce, ok := catalog.AsError(err); ok {
		return ce.Message
	}
	if ke, ok := kitchen.AsError(err); ok {
		return ke.Message
	}
	if de, ok := delivery.AsError(err); ok {
		return de.Message
	}
	return "Something went wrong"
}

func (h *Handler) RootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/menu", http.StatusFound)
}

func (h *Handler) MenuPage(w http.ResponseWriter, r *http.Request) {
	flash := r.URL.Query().Get("placed")
	if added := r.URL.Query().Get("added"); added != "" {
		flash = added + " added to your cart."
	}
	h.renderPage(w, r, http.StatusOK, "menu", pageData{
		Title: "Menu",
		Flash: flash,
		Data:  map[string]any{"Dishes": h.Menu.Dishes()},
	})
}

func (h *Handler) MenuAddForm(w http.ResponseWriter, r *http.Request) {
	var id int64
	if _, err := fmt.Sscan(r.PostFormValue("dishId"), &id); err != nil || id <= 0 {
		redirectBack(w, r, "/menu", "error", "Unknown dish")
		return
	}
	item, err := h.addDish(r, id)
	if err != nil {
		redirectBack(w, r, "/menu", "error", errorMessage(err))
		return
	}
	redirectBack(w, r, "/menu", "added", item.Name)
}

type cartPage struct {
	Items          []cart.Item
	Total          string
	Form           checkout.Form
	PaymentMethods []checkout.PaymentMethod
}

func (h *Handler) cartPageData(ctx context.Context, session string, form checkout.Form) cartPage {
	items := h.Cart.Items(ctx, session)
	return cartPage{
		Items:          items,
		Total:          utils.FormatPLN(cart.Total(items)),
		Form:           form,
		PaymentMethods: checkout.PaymentMethods,
	}
}

func (h *Handler) CartPage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetCartSession(r.Context())
	h.renderPage(w, r, http.StatusOK, "cart", pageData{
		Title: "Cart",
		Data:  h.cartPageData(r.Context(), session, checkout.Form{}),
	})
}

func (h *Handler) CartRemoveForm(w http.ResponseWriter, r *http.Request) {
	uniqueID := strings.TrimSpace(r.PostFormValue("uniqueId"))
	if uniqueID != "" {
		if _, err := h.Cart.Remove(r.Context(), middleware.GetCartSession(r.Context()), uniqueID); err != nil {
			redirectBack(w, r, "/cart", "error", errorMessage(err))
			return
		}
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) CartCheckoutForm(w http.ResponseWriter, r *http.Request) {
	form := checkout.Form{
		DeliveryType:  r.PostFormValue("deliveryType"),
		PaymentMethod: r.PostFormValue("paymentMethod"),
		Address: checkout.Address{
			Street:          r.PostFormValue("street"),
			BuildingNumber:  r.PostFormValue("buildingNumber"),
			ApartmentNumber: r.PostFormValue("apartmentNumber"),
			City:            r.PostFormValue("city"),
			PostalCode:      r.PostFormValue("postalCode"),
			Floor:           r.PostFormValue("floor"),
			Staircase:       r.PostFormValue("staircase"),
			Notes:           r.PostFormValue("notes"),
		},
	}

	session := middleware.GetCartSession(r.Context())
	conf, err := h.Orders.Submit(r.Context(), session, form)
	if err != nil {
		h.renderPage(w, r, http.StatusBadRequest, "cart", pageData{
			Title: "Cart",
			Alert: errorMessage(err),
			Data:  h.cartPageData(r.Context(), session, form),
		})
		return
	}
	redirectBack(w, r, conf.Redirect, "placed", conf.Summary)
}

func (h *Handler) KitchenPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "kitchen", pageData{
		Title: "Kitchen",
		Data: map[string]any{
			"Orders":   h.Kitchen.List(),
			"Statuses": kitchen.Statuses,
		},
	})
}

func (h *Handler) KitchenStatusForm(w http.ResponseWriter, r *http.Request) {
	id, err := readPathInt64(r, "id")
	if err != nil {
		redirectBack(w, r, "/orders", "error", "Unknown order")
		return
	}
	if _, err := h.Kitchen.SetStatus(r.Context(), id, r.PostFormValue("status")); err != nil {
		redirectBack(w, r, "/orders", "error", errorMessage(err))
		return
	}
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *Handler) KitchenAcceptForm(w http.ResponseWriter, r *http.Request) {
	id, err := readPathInt64(r, "id")
	if err != nil {
		redirectBack(w, r, "/orders", "error", "Unknown order")
		return
	}
	if _, err := h.Kitchen.Accept(r.Context(), id); err != nil {
		redirectBack(w, r, "/orders", "error", errorMessage(err))
		return
	}
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

func (h *Handler) DeliveryPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "delivery", pageData{
		Title: "Delivery",
		Data:  map[string]any{"Orders": h.Delivery.List()},
	})
}

func (h *Handler) DeliveryActionForm(w http.ResponseWriter, r *http.Request) {
	id, err := readPathInt64(r, "id")
	if err != nil {
		redirectBack(w, r, "/delivery-orders", "error", "Unknown order")
		return
	}

	var action deliveryAction
	switch readPathString(r, "action") {
	case delivery.ActionInDelivery:
		action = h.Delivery.MarkInDelivery
	case delivery.ActionDelivered:
		action = h.Delivery.MarkDelivered
	case delivery.ActionDelayed:
		action = h.Delivery.MarkDelayed
	default:
		redirectBack(w, r, "/delivery-orders", "error", "Unknown action")
		return
	}
	order, err := action(r.Context(), id)
	if err != nil {
		redirectBack(w, r, "/delivery-orders", "error", errorMessage(err))
		return
	}
	notice := ""
	if readPathString(r, "action") == delivery.ActionDelayed {
		notice = fmt.Sprintf("Order #%d marked as delayed.", order.ID)
	}
	redirectBack(w, r, "/delivery-orders", "notice", notice)
}
