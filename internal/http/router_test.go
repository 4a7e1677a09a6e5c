package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"trattoria-order-service/internal/auth"
	"trattoria-order-service/internal/cart"
	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/checkout"
	"trattoria-order-service/internal/config"
	"trattoria-order-service/internal/delivery"
	"trattoria-order-service/internal/events"
	"trattoria-order-service/internal/events/eventstest"
	"trattoria-order-service/internal/http/handlers"
	"trattoria-order-service/internal/kitchen"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/internal/ws"

	"go.uber.org/zap"
)

type testApp struct {
	router   http.Handler
	recorder *eventstest.Recorder
	handler  *handlers.Handler
}

func testConfig() config.Config {
	return config.Config{
		Env:               "development",
		CartSessionSecret: "test-cart-secret",
		StaffJWTExpiry:    time.Hour,
		Timezone:          "Europe/Warsaw",
		MaxFileSizeBytes:  1 << 20,
	}
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	store := catalog.NewMemoryStore()
	if err := catalog.Seed(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	menu := catalog.NewMenu(catalog.StoreSource{Store: store}, log)
	if err := menu.Load(ctx); err != nil {
		t.Fatalf("menu load: %v", err)
	}

	rec := &eventstest.Recorder{}
	wsServer := ws.New(log, time.Second)
	publishers := events.Multi{rec, wsServer}
	kitchenBoard := kitchen.NewBoard(kitchen.SampleOrders(), publishers, log)
	deliveryBoard := delivery.NewBoard(delivery.SampleOrders(), publishers, log)
	wsServer.Register(ws.TopicKitchen, func() any { return kitchenBoard.List() })
	wsServer.Register(ws.TopicDelivery, func() any { return deliveryBoard.List() })

	cartService := cart.NewService(cart.NewMemoryStorage(), log)
	h := &handlers.Handler{
		Logger:   log,
		Config:   cfg,
		Catalog:  catalog.NewService(store),
		Menu:     menu,
		Cart:     cartService,
		Orders:   checkout.NewService(cartService, publishers, cfg.Timezone, log),
		Kitchen:  kitchenBoard,
		Delivery: deliveryBoard,
	}
	return &testApp{router: NewRouter(log, cfg, h, wsServer), recorder: rec, handler: h}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details map[string]any  `json:"details"`
}

func (a *testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

// cartSession opens a cart session and returns the header set to reuse it.
func (a *testApp) cartSession(t *testing.T) map[string]string {
	t.Helper()
	rr := a.do(t, http.MethodGet, "/api/cart", nil, nil)
	token := rr.Header().Get(middleware.CartSessionHeader)
	if token == "" {
		t.Fatalf("expected a cart session token")
	}
	return map[string]string{middleware.CartSessionHeader: token}
}

type cartBody struct {
	Items []struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		UniqueID string  `json:"uniqueId"`
	} `json:"items"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, testConfig())
	rr := app.do(t, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCartFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	session := app.cartSession(t)

	for i := 0; i < 2; i++ {
		rr := app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 1}, session)
		if rr.Code != http.StatusCreated {
			t.Fatalf("add item: expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
	}
	rr := app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 2}, session)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d", rr.Code)
	}

	var body cartBody
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/cart", nil, session)), &body)
	if body.ItemCount != 3 || body.Total != "102.50" {
		t.Fatalf("unexpected cart %+v", body)
	}
	if body.Items[0].UniqueID == body.Items[1].UniqueID {
		t.Fatalf("duplicate dishes must get distinct unique ids")
	}

	rr = app.do(t, http.MethodDelete, "/api/cart/items/"+body.Items[0].UniqueID, nil, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove item: expected 200, got %d", rr.Code)
	}
	decodeData(t, decodeEnvelope(t, rr), &body)
	if body.ItemCount != 2 || body.Items[0].Name != "Pizza Margherita" || body.Total != "70.50" {
		t.Fatalf("unexpected cart after removal %+v", body)
	}

	other := app.cartSession(t)
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/cart", nil, other)), &body)
	if body.ItemCount != 0 {
		t.Fatalf("carts must be isolated per session, got %d items", body.ItemCount)
	}

	rr = app.do(t, http.MethodDelete, "/api/cart", nil, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("clear cart: expected 200, got %d", rr.Code)
	}
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/cart", nil, session)), &body)
	if body.ItemCount != 0 || body.Total != "0.00" {
		t.Fatalf("expected empty cart, got %+v", body)
	}
}

func TestAddUnknownDish(t *testing.T) {
	app := newTestApp(t, testConfig())
	session := app.cartSession(t)

	rr := app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 999}, session)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if env := decodeEnvelope(t, rr); env.Success || env.Error != "DISH_NOT_FOUND" {
		t.Fatalf("unexpected error envelope %+v", env)
	}

	rr = app.do(t, http.MethodPost, "/api/cart/items", map[string]any{}, session)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing dishId, got %d", rr.Code)
	}
}

func TestCheckoutValidation(t *testing.T) {
	app := newTestApp(t, testConfig())
	session := app.cartSession(t)

	rr := app.do(t, http.MethodPost, "/api/checkout", map[string]any{"paymentMethod": "Cash"}, session)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusBadRequest || env.Error != "CART_EMPTY" {
		t.Fatalf("expected CART_EMPTY, got %d %+v", rr.Code, env)
	}

	app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 3}, session)

	cases := []struct {
		name string
		form map[string]any
		code string
	}{
		{name: "missing payment", form: map[string]any{"deliveryType": "pickup"}, code: "PAYMENT_METHOD_REQUIRED"},
		{name: "unknown payment", form: map[string]any{"paymentMethod": "Bitcoin"}, code: "PAYMENT_METHOD_INVALID"},
		{name: "unknown delivery type", form: map[string]any{"paymentMethod": "Card", "deliveryType": "drone"}, code: "DELIVERY_TYPE_INVALID"},
		{
			name: "incomplete address",
			form: map[string]any{
				"paymentMethod": "Blik",
				"deliveryType":  "delivery",
				"address":       map[string]any{"street": "Długa", "city": "  "},
			},
			code: "ADDRESS_INCOMPLETE",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := app.do(t, http.MethodPost, "/api/checkout", tc.form, session)
			env := decodeEnvelope(t, rr)
			if rr.Code != http.StatusBadRequest || env.Error != tc.code {
				t.Fatalf("expected %s, got %d %+v", tc.code, rr.Code, env)
			}
		})
	}

	rr = app.do(t, http.MethodPost, "/api/checkout", cases[3].form, session)
	missing, _ := decodeEnvelope(t, rr).Details["missingFields"].([]any)
	if len(missing) != 3 {
		t.Fatalf("expected buildingNumber, city and postalCode missing, got %v", missing)
	}

	var body cartBody
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/cart", nil, session)), &body)
	if body.ItemCount != 1 {
		t.Fatalf("failed checkout must keep the cart, got %d items", body.ItemCount)
	}
	if len(app.recorder.OfType(events.TypeOrderPlaced)) != 0 {
		t.Fatalf("failed checkout must not publish")
	}
}

func TestCheckoutDelivery(t *testing.T) {
	app := newTestApp(t, testConfig())
	session := app.cartSession(t)
	app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 1}, session)
	app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": 7}, session)

	rr := app.do(t, http.MethodPost, "/api/checkout", map[string]any{
		"paymentMethod": "transfer",
		"deliveryType":  "delivery",
		"address": map[string]any{
			"street":          "Floriańska",
			"buildingNumber":  "12",
			"apartmentNumber": "4",
			"city":            "Kraków",
			"postalCode":      "31-019",
		},
	}, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var conf checkout.Confirmation
	decodeData(t, decodeEnvelope(t, rr), &conf)
	if conf.PaymentMethod != checkout.PaymentTransfer || conf.Total != "54.00" || conf.Redirect != "/menu" {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
	if !strings.Contains(conf.Summary, "Floriańska 12/4, Kraków 31-019") {
		t.Fatalf("summary should include the address, got %q", conf.Summary)
	}

	var body cartBody
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/cart", nil, session)), &body)
	if body.ItemCount != 0 {
		t.Fatalf("checkout must clear the cart")
	}
	if got := len(app.recorder.OfType(events.TypeOrderPlaced)); got != 1 {
		t.Fatalf("expected one order.placed event, got %d", got)
	}
}

func TestCheckoutOptions(t *testing.T) {
	app := newTestApp(t, testConfig())
	rr := app.do(t, http.MethodGet, "/api/checkout/options", nil, nil)
	var body struct {
		PaymentMethods []string `json:"paymentMethods"`
		DeliveryTypes  []string `json:"deliveryTypes"`
	}
	decodeData(t, decodeEnvelope(t, rr), &body)
	if len(body.PaymentMethods) != 4 || len(body.DeliveryTypes) != 2 {
		t.Fatalf("unexpected options %+v", body)
	}
}

func TestKitchenEndpoints(t *testing.T) {
	app := newTestApp(t, testConfig())

	var orders []kitchen.Order
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/orders", nil, nil)), &orders)
	if len(orders) != 4 {
		t.Fatalf("expected 4 sample orders, got %d", len(orders))
	}

	rr := app.do(t, http.MethodPatch, "/api/orders/2/status", map[string]any{"status": "ready"}, nil)
	var order kitchen.Order
	decodeData(t, decodeEnvelope(t, rr), &order)
	if rr.Code != http.StatusOK || order.Status != kitchen.StatusReady {
		t.Fatalf("expected ready, got %d %+v", rr.Code, order)
	}

	rr = app.do(t, http.MethodPatch, "/api/orders/2/status", map[string]any{"status": "burnt"}, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusBadRequest || env.Error != "INVALID_STATUS" {
		t.Fatalf("expected INVALID_STATUS, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/orders/2/accept", nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusConflict || env.Error != "ACTION_NOT_AVAILABLE" {
		t.Fatalf("expected ACTION_NOT_AVAILABLE, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/orders/1/accept", nil, nil)
	decodeData(t, decodeEnvelope(t, rr), &order)
	if order.Status != kitchen.StatusNew || len(order.Actions) != 0 {
		t.Fatalf("accept should move the order to new, got %+v", order)
	}

	rr = app.do(t, http.MethodGet, "/api/orders/42", nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusNotFound || env.Error != "ORDER_NOT_FOUND" {
		t.Fatalf("expected ORDER_NOT_FOUND, got %d %+v", rr.Code, env)
	}

	if got := len(app.recorder.OfType(events.TypeKitchenStatusUpdated)); got != 2 {
		t.Fatalf("expected 2 kitchen events, got %d", got)
	}

	rr = app.do(t, http.MethodGet, "/api/orders/1/ticket", nil, nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected a pdf ticket, got %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("ticket body is not a pdf")
	}
}

func TestDeliveryEndpoints(t *testing.T) {
	app := newTestApp(t, testConfig())

	rr := app.do(t, http.MethodPost, "/api/delivery-orders/1/delivered", nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusConflict || env.Error != "INVALID_TRANSITION" {
		t.Fatalf("expected INVALID_TRANSITION, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/delivery-orders/1/in-delivery", nil, nil)
	var order delivery.Order
	decodeData(t, decodeEnvelope(t, rr), &order)
	if order.Status != delivery.StatusInDelivery {
		t.Fatalf("expected in delivery, got %+v", order)
	}

	rr = app.do(t, http.MethodPost, "/api/delivery-orders/1/delayed", nil, nil)
	decodeData(t, decodeEnvelope(t, rr), &order)
	if !order.Delayed || order.DelayedAt == nil || order.Status != delivery.StatusInDelivery {
		t.Fatalf("delayed should only flag the order, got %+v", order)
	}

	rr = app.do(t, http.MethodPost, "/api/delivery-orders/1/delivered", nil, nil)
	decodeData(t, decodeEnvelope(t, rr), &order)
	if order.Status != delivery.StatusDelivered || len(order.Actions) != 0 {
		t.Fatalf("expected delivered with no actions, got %+v", order)
	}

	var call struct {
		Phone string `json:"phone"`
		Href  string `json:"href"`
	}
	decodeData(t, decodeEnvelope(t, app.do(t, http.MethodGet, "/api/delivery-orders/2/call", nil, nil)), &call)
	if call.Phone != "987-654-321" || call.Href != "tel:987-654-321" {
		t.Fatalf("unexpected call payload %+v", call)
	}

	rr = app.do(t, http.MethodGet, "/api/delivery-orders/9", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = app.do(t, http.MethodGet, "/api/delivery-orders/2/slip", nil, nil)
	if rr.Code != http.StatusOK || !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a pdf slip, got %d", rr.Code)
	}

	if got := len(app.recorder.OfType(events.TypeDeliveryDelayed)); got != 1 {
		t.Fatalf("expected one delayed event, got %d", got)
	}
	if got := len(app.recorder.OfType(events.TypeDeliveryStatusUpdated)); got != 2 {
		t.Fatalf("expected two status events, got %d", got)
	}
}

func TestCatalogCRUD(t *testing.T) {
	app := newTestApp(t, testConfig())

	rr := app.do(t, http.MethodPost, "/api/ingredients", map[string]any{"name": "Anchovies", "amount": 30, "metric": "grams"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create ingredient: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var ing catalog.Ingredient
	decodeData(t, decodeEnvelope(t, rr), &ing)

	rr = app.do(t, http.MethodPost, "/api/dishes", map[string]any{"name": "Pizza Napoli", "price": 41.5, "ingredient_ids": []int64{ing.ID}}, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusBadRequest || env.Error != "TOO_FEW_INGREDIENTS" {
		t.Fatalf("expected TOO_FEW_INGREDIENTS, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/dishes", map[string]any{"name": "Pizza Napoli", "price": 41.5, "ingredient_ids": []int64{ing.ID, 999}}, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusBadRequest || env.Error != "INVALID_INGREDIENT_IDS" {
		t.Fatalf("expected INVALID_INGREDIENT_IDS, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/dishes", map[string]any{"name": "Pizza Napoli", "price": 41.5, "ingredient_ids": []int64{2, ing.ID}}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create dish: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var dish catalog.Dish
	decodeData(t, decodeEnvelope(t, rr), &dish)
	if len(dish.Ingredients) != 2 {
		t.Fatalf("expected ingredients resolved, got %+v", dish)
	}

	// catalog writes refresh the menu, so the new dish is orderable
	session := app.cartSession(t)
	rr = app.do(t, http.MethodPost, "/api/cart/items", map[string]any{"dishId": dish.ID}, session)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected the new dish in the menu, got %d", rr.Code)
	}

	rr = app.do(t, http.MethodDelete, "/api/ingredients/"+jsonID(ing.ID), nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusConflict || env.Error != "INGREDIENT_IN_USE" {
		t.Fatalf("expected INGREDIENT_IN_USE, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPut, "/api/dishes/"+jsonID(dish.ID), map[string]any{"price": 43}, nil)
	decodeData(t, decodeEnvelope(t, rr), &dish)
	if dish.Price != 43 || dish.Name != "Pizza Napoli" {
		t.Fatalf("partial update should keep the name, got %+v", dish)
	}

	rr = app.do(t, http.MethodDelete, "/api/dishes/"+jsonID(dish.ID), nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete dish: expected 200, got %d", rr.Code)
	}
	rr = app.do(t, http.MethodGet, "/api/dishes/"+jsonID(dish.ID)+"/with-relations", nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusNotFound || env.Error != "DISH_NOT_FOUND" {
		t.Fatalf("expected DISH_NOT_FOUND, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodDelete, "/api/ingredients/"+jsonID(ing.ID), nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unused ingredient should delete, got %d", rr.Code)
	}
}

func TestUploadWithoutObjectStore(t *testing.T) {
	app := newTestApp(t, testConfig())
	rr := app.do(t, http.MethodPost, "/api/dishes/1/image", nil, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusServiceUnavailable || env.Error != "OBJECT_STORE_DISABLED" {
		t.Fatalf("expected OBJECT_STORE_DISABLED, got %d %+v", rr.Code, env)
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestStaffAuth(t *testing.T) {
	hash, err := auth.HashPassword("pizza")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := testConfig()
	cfg.StaffJWTSecret = "staff-secret"
	cfg.StaffPasswordHash = hash
	app := newTestApp(t, cfg)

	if rr := app.do(t, http.MethodGet, "/api/orders", nil, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rr.Code)
	}
	if rr := app.do(t, http.MethodGet, "/api/dishes", nil, nil); rr.Code != http.StatusOK {
		t.Fatalf("catalog reads stay public, got %d", rr.Code)
	}

	rr := app.do(t, http.MethodPost, "/api/staff/login", map[string]any{"role": "kitchen", "password": "wrong"}, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusUnauthorized || env.Error != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %d %+v", rr.Code, env)
	}

	rr = app.do(t, http.MethodPost, "/api/staff/login", map[string]any{"role": "kitchen", "password": "pizza", "name": "Marco"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var login struct {
		AccessToken string `json:"accessToken"`
		Role        string `json:"role"`
	}
	decodeData(t, decodeEnvelope(t, rr), &login)
	bearer := map[string]string{"Authorization": "Bearer " + login.AccessToken}

	if rr := app.do(t, http.MethodGet, "/api/orders", nil, bearer); rr.Code != http.StatusOK {
		t.Fatalf("kitchen token should read kitchen orders, got %d", rr.Code)
	}
	if rr := app.do(t, http.MethodGet, "/api/delivery-orders", nil, bearer); rr.Code != http.StatusForbidden {
		t.Fatalf("kitchen token must not read delivery orders, got %d", rr.Code)
	}
	if rr := app.do(t, http.MethodPost, "/api/ingredients", map[string]any{"name": "Salt", "amount": 1, "metric": "grams"}, bearer); rr.Code != http.StatusForbidden {
		t.Fatalf("catalog writes need admin, got %d", rr.Code)
	}
}

func TestStaffLoginDisabled(t *testing.T) {
	app := newTestApp(t, testConfig())
	rr := app.do(t, http.MethodPost, "/api/staff/login", map[string]any{"role": "admin", "password": "x"}, nil)
	if env := decodeEnvelope(t, rr); rr.Code != http.StatusNotFound || env.Error != "STAFF_AUTH_DISABLED" {
		t.Fatalf("expected STAFF_AUTH_DISABLED, got %d %+v", rr.Code, env)
	}
}

func TestDrainNotifications(t *testing.T) {
	app := newTestApp(t, testConfig())
	if rr := app.do(t, http.MethodPost, "/api/internal/notifications/drain", nil, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a cron secret, got %d", rr.Code)
	}

	cfg := testConfig()
	cfg.CronSecret = "cron-secret"
	app = newTestApp(t, cfg)
	if rr := app.do(t, http.MethodPost, "/api/internal/notifications/drain", nil, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without the bearer secret, got %d", rr.Code)
	}

	rr := app.do(t, http.MethodPost, "/api/internal/notifications/drain", nil, map[string]string{"Authorization": "Bearer cron-secret"})
	var body struct {
		Disabled  bool `json:"disabled"`
		Processed int  `json:"processed"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rr.Code != http.StatusOK || !body.Disabled {
		t.Fatalf("expected a disabled drain without rabbitmq, got %d %+v", rr.Code, body)
	}
}

type fakeDrainer struct {
	max int
}

func (f *fakeDrainer) DrainEvents(_ context.Context, max int) (int, []error) {
	f.max = max
	return 3, nil
}

func TestDrainNotificationsClampsMax(t *testing.T) {
	cfg := testConfig()
	cfg.CronSecret = "cron-secret"
	app := newTestApp(t, cfg)
	drainer := &fakeDrainer{}
	app.handler.Drainer = drainer

	rr := app.do(t, http.MethodPost, "/api/internal/notifications/drain?max=9000", nil, map[string]string{"Authorization": "Bearer cron-secret"})
	if rr.Code != http.StatusOK || drainer.max != 250 {
		t.Fatalf("expected max clamped to 250, got %d (status %d)", drainer.max, rr.Code)
	}
}

func TestPagesCheckoutFlow(t *testing.T) {
	app := newTestApp(t, testConfig())
	session := app.cartSession(t)

	rr := app.do(t, http.MethodGet, "/", nil, nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/menu" {
		t.Fatalf("expected redirect to /menu, got %d %s", rr.Code, rr.Header().Get("Location"))
	}

	rr = app.do(t, http.MethodGet, "/menu", nil, session)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Pizza Margherita") {
		t.Fatalf("menu page should list dishes, got %d", rr.Code)
	}

	rr = app.postForm(t, "/menu/add", url.Values{"dishId": {"1"}}, session)
	if rr.Code != http.StatusSeeOther || !strings.HasPrefix(rr.Header().Get("Location"), "/menu?added=") {
		t.Fatalf("expected 303 back to menu, got %d %s", rr.Code, rr.Header().Get("Location"))
	}

	rr = app.do(t, http.MethodGet, "/cart", nil, session)
	page := rr.Body.String()
	if !strings.Contains(page, "Pizza Margherita") || !strings.Contains(page, "32.00 PLN") {
		t.Fatalf("cart page should list the item")
	}
	if strings.Contains(page, "<nav>") {
		t.Fatalf("cart page hides the navbar")
	}

	rr = app.postForm(t, "/cart/checkout", url.Values{"deliveryType": {"delivery"}, "paymentMethod": {"Cash"}, "street": {"Długa"}}, session)
	page = rr.Body.String()
	if rr.Code != http.StatusBadRequest || !strings.Contains(page, `role="alert"`) || !strings.Contains(page, "required address fields") {
		t.Fatalf("expected the cart page with an alert, got %d", rr.Code)
	}
	if !strings.Contains(page, `value="Długa"`) {
		t.Fatalf("form values should be kept after a failed checkout")
	}

	rr = app.postForm(t, "/cart/checkout", url.Values{"deliveryType": {"pickup"}, "paymentMethod": {"Card"}}, session)
	location := rr.Header().Get("Location")
	if rr.Code != http.StatusSeeOther || !strings.HasPrefix(location, "/menu?placed=") {
		t.Fatalf("expected 303 to menu with a summary, got %d %s", rr.Code, location)
	}

	rr = app.do(t, http.MethodGet, location, nil, session)
	if !strings.Contains(rr.Body.String(), "Pickup at the restaurant.") {
		t.Fatalf("menu should show the placed order banner")
	}
}

func TestBoardPages(t *testing.T) {
	app := newTestApp(t, testConfig())

	rr := app.do(t, http.MethodGet, "/orders", nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `action="/orders/1/accept"`) {
		t.Fatalf("kitchen page should offer accept on placed orders")
	}

	rr = app.postForm(t, "/orders/1/accept", nil, nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/orders" {
		t.Fatalf("expected 303 to /orders, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
	if order, _ := app.handler.Kitchen.Get(1); order.Status != kitchen.StatusNew {
		t.Fatalf("expected order 1 accepted, got %s", order.Status)
	}

	rr = app.postForm(t, "/orders/3/status", url.Values{"status": {"placed"}}, nil)
	if order, _ := app.handler.Kitchen.Get(3); rr.Code != http.StatusSeeOther || order.Status != kitchen.StatusPlaced {
		t.Fatalf("status form should apply, got %d %s", rr.Code, order.Status)
	}

	rr = app.postForm(t, "/orders/2/accept", nil, nil)
	if !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("failed actions redirect with an error, got %s", rr.Header().Get("Location"))
	}

	rr = app.do(t, http.MethodGet, "/delivery-orders", nil, nil)
	page := rr.Body.String()
	if !strings.Contains(page, `href="tel:123-456-789"`) || !strings.Contains(page, `action="/delivery-orders/1/in-delivery"`) {
		t.Fatalf("delivery page should render call links and actions")
	}

	rr = app.postForm(t, "/delivery-orders/1/in-delivery", nil, nil)
	if order, _ := app.handler.Delivery.Get(1); rr.Code != http.StatusSeeOther || order.Status != delivery.StatusInDelivery {
		t.Fatalf("delivery action form should apply, got %d %s", rr.Code, order.Status)
	}

	rr = app.postForm(t, "/delivery-orders/1/delayed", nil, nil)
	location := rr.Header().Get("Location")
	if rr.Code != http.StatusSeeOther || !strings.Contains(location, "notice=") {
		t.Fatalf("delayed action should redirect with a notice, got %d %s", rr.Code, location)
	}
	rr = app.do(t, http.MethodGet, location, nil, nil)
	if !strings.Contains(rr.Body.String(), `<div class="flash">Order #1 marked as delayed.</div>`) {
		t.Fatalf("delivery page should show the delayed notice")
	}
	if order, _ := app.handler.Delivery.Get(1); order.Status != delivery.StatusInDelivery {
		t.Fatalf("delayed must not change status, got %s", order.Status)
	}

	rr = app.postForm(t, "/delivery-orders/1/teleport", nil, nil)
	if !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("unknown actions redirect with an error")
	}
}
