package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
	"github.com/chrisdamba/menuar/internal/orders"
	"github.com/chrisdamba/menuar/internal/repositories"
	"github.com/chrisdamba/menuar/internal/repositories/documents"
)

var testNow = time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

type brokenOrders struct{ repositories.OrderRepository }

func (brokenOrders) Create(context.Context, *models.Order) (string, error) {
	return "", errors.New("quota exceeded")
}

func seed(t *testing.T) *docstore.Memory {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemory()
	set := func(path string, data map[string]interface{}) {
		require.NoError(t, store.Set(ctx, path, data))
	}
	set("restaurants/tandoor", map[string]interface{}{
		"restaurantId": "tandoor",
		"name":         "Tandoor House",
		"currency":     "INR",
	})
	set("restaurants/tandoor/categories/mains", map[string]interface{}{"name": "Main Course", "displayOrder": 1})
	set("restaurants/tandoor/menuItems/a", map[string]interface{}{
		"name": "Butter Chicken", "description": "creamy tomato gravy", "price": "₹350", "category": "Main Course",
	})
	set("restaurants/tandoor/menuItems/b", map[string]interface{}{
		"name": "Gulab Jamun", "price": "₹120", "category": "Desserts",
	})
	set("restaurants/tandoor/menuItems/c", map[string]interface{}{
		"name": "Mutton Rogan Josh", "price": "₹650", "category": "Main Course", "isAvailable": false,
	})
	return store
}

func newTestHandler(t *testing.T, store *docstore.Memory) (*Handler, http.Handler) {
	t.Helper()
	log, _ := test.NewNullLogger()
	engine := catalog.NewEngine(
		documents.NewRestaurantRepository(store),
		documents.NewCategoryRepository(store),
		documents.NewMenuItemRepository(store, log),
		log,
	)
	svc := orders.NewService(documents.NewOrderRepository(store), nil, log, orders.WithClock(func() time.Time { return testNow }))
	h := NewHandler(engine, svc, "https://menu.example.com/r/", log)
	h.Now = func() time.Time { return testNow }
	return h, h.Router(nil)
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	_, router := newTestHandler(t, seed(t))
	rec := do(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMenu(t *testing.T) {
	_, router := newTestHandler(t, seed(t))

	tests := []struct {
		name  string
		path  string
		code  int
		names []string
	}{
		{"available only", "/api/restaurants/tandoor/menu", 200, []string{"Butter Chicken", "Gulab Jamun"}},
		{"include all", "/api/restaurants/tandoor/menu?all=true", 200, []string{"Butter Chicken", "Gulab Jamun", "Mutton Rogan Josh"}},
		{"text search", "/api/restaurants/tandoor/menu?q=TOMATO", 200, []string{"Butter Chicken"}},
		{"category", "/api/restaurants/tandoor/menu?category=Desserts", 200, []string{"Gulab Jamun"}},
		{"price bracket", "/api/restaurants/tandoor/menu?price=under-200", 200, []string{"Gulab Jamun"}},
		{"bad bracket", "/api/restaurants/tandoor/menu?price=cheap", 400, nil},
		{"unknown tenant", "/api/restaurants/nowhere/menu", 404, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, "GET", tt.path, nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != 200 {
				return
			}
			var resp menuResponse
			decodeBody(t, rec, &resp)
			var names []string
			for _, item := range resp.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.names, names)
			assert.Equal(t, len(tt.names), resp.Total)
		})
	}
}

func TestGetMenuGroupsInDisplayOrder(t *testing.T) {
	_, router := newTestHandler(t, seed(t))
	rec := do(t, router, "GET", "/api/restaurants/tandoor/menu", nil)
	require.Equal(t, 200, rec.Code)

	var resp menuResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "Main Course", resp.Groups[0].Name)
	assert.Equal(t, "Desserts", resp.Groups[1].Name)
}

func TestGetLegacyMenu(t *testing.T) {
	_, router := newTestHandler(t, seed(t))
	rec := do(t, router, "GET", "/api/restaurants/tandoor/menu/legacy", nil)
	require.Equal(t, 200, rec.Code)

	var legacy models.LegacyRestaurant
	decodeBody(t, rec, &legacy)
	assert.Equal(t, "Tandoor House", legacy.Name)
	require.Len(t, legacy.Items, 2)
	assert.Equal(t, "₹350", legacy.Items[0].Price)
}

func checkout() checkoutRequest {
	return checkoutRequest{
		Customer: models.Customer{Name: "Ravi", Phone: "9999999999", TableNumber: "12"},
		Items: []models.CartItem{
			{ID: "l1", MenuItemID: "a", Name: "Butter Chicken", Price: 35000, Quantity: 1},
			{ID: "l1", MenuItemID: "a", Name: "Butter Chicken", Price: 35000, Quantity: 1},
			{ID: "l2", MenuItemID: "b", Name: "Gulab Jamun", Price: 12000, Quantity: 3},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	store := seed(t)
	_, router := newTestHandler(t, store)

	rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", checkout())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var receipt orders.Receipt
	decodeBody(t, rec, &receipt)
	require.NotEmpty(t, receipt.OrderID)

	order, err := documents.NewOrderRepository(store).Get(context.Background(), "tandoor", receipt.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(106000), order.TotalAmount)
	assert.Equal(t, models.CurrencyINR, order.Currency)
	assert.Equal(t, models.DefaultOrderNotes, order.SpecialNotes)
}

func TestCreateOrderUsesCatalogPrices(t *testing.T) {
	store := seed(t)
	_, router := newTestHandler(t, store)

	req := checkoutRequest{
		Customer: models.Customer{Name: "Ravi", Phone: "9999999999", TableNumber: "12"},
		Items: []models.CartItem{{
			ID: "l1", MenuItemID: "a", Name: "Free Chicken", Price: 1, Currency: "USD", Quantity: 2,
			SpecialInstructions: "  extra spicy ",
		}},
	}
	rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt orders.Receipt
	decodeBody(t, rec, &receipt)

	order, err := documents.NewOrderRepository(store).Get(context.Background(), "tandoor", receipt.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	line := order.Items[0]
	assert.Equal(t, "l1", line.ID)
	assert.Equal(t, "Butter Chicken", line.Name)
	assert.Equal(t, int64(35000), line.Price)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "extra spicy", line.SpecialInstructions)
	assert.Equal(t, int64(70000), order.TotalAmount)
	assert.Equal(t, models.CurrencyINR, order.Currency)
}

func TestCreateOrderRejectsItemsOffTheMenu(t *testing.T) {
	tests := []struct {
		name       string
		menuItemID string
	}{
		{"unknown item", "zzz"},
		{"missing item id", ""},
		{"unavailable item", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed(t)
			_, router := newTestHandler(t, store)
			req := checkout()
			req.Items = append(req.Items, models.CartItem{ID: "l3", MenuItemID: tt.menuItemID, Name: "Ghost", Price: 100, Quantity: 1})

			rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), ErrItemNotOrderable.Error())

			stored, err := documents.NewOrderRepository(store).GetByRestaurantID(context.Background(), "tandoor")
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestOrderEndpointsResolveTenantDocID(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, "restaurants/x81", map[string]interface{}{"restaurantId": "diner", "name": "Diner"}))
	require.NoError(t, store.Set(ctx, "restaurants/diner/menuItems/p", map[string]interface{}{
		"name": "Pancakes", "price": "$8.50", "category": "Breakfast",
	}))
	_, router := newTestHandler(t, store)

	req := checkout()
	req.Items = []models.CartItem{{ID: "l1", MenuItemID: "p", Quantity: 2}}
	rec := do(t, router, "POST", "/api/restaurants/x81/orders", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt orders.Receipt
	decodeBody(t, rec, &receipt)

	rec = do(t, router, "PATCH", "/api/restaurants/x81/orders/"+receipt.OrderID+"/status", statusRequest{Status: models.OrderStatusPreparing})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order, err := documents.NewOrderRepository(store).Get(ctx, "diner", receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)

	for _, id := range []string{"x81", "diner"} {
		rec = do(t, router, "GET", "/api/restaurants/"+id+"/orders/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var stats models.OrderStats
		decodeBody(t, rec, &stats)
		assert.Equal(t, 1, stats.Today.Total, id)
		assert.Equal(t, int64(1700), stats.Today.Revenue, id)
	}

	rec = do(t, router, "GET", "/api/restaurants/nowhere/orders/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderErrors(t *testing.T) {
	t.Run("invalid customer", func(t *testing.T) {
		_, router := newTestHandler(t, seed(t))
		req := checkout()
		req.Customer.Phone = ""
		rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("empty cart", func(t *testing.T) {
		_, router := newTestHandler(t, seed(t))
		req := checkout()
		req.Items = nil
		rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("unknown tenant", func(t *testing.T) {
		_, router := newTestHandler(t, seed(t))
		rec := do(t, router, "POST", "/api/restaurants/nowhere/orders", checkout())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("store failure", func(t *testing.T) {
		h, _ := newTestHandler(t, seed(t))
		log, _ := test.NewNullLogger()
		h.Orders = orders.NewService(brokenOrders{}, nil, log)
		rec := do(t, h.Router(nil), "POST", "/api/restaurants/tandoor/orders", checkout())
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
	t.Run("malformed body", func(t *testing.T) {
		_, router := newTestHandler(t, seed(t))
		req := httptest.NewRequest("POST", "/api/restaurants/tandoor/orders", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderStatusAndStats(t *testing.T) {
	_, router := newTestHandler(t, seed(t))
	rec := do(t, router, "POST", "/api/restaurants/tandoor/orders", checkout())
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt orders.Receipt
	decodeBody(t, rec, &receipt)

	path := "/api/restaurants/tandoor/orders/" + receipt.OrderID + "/status"
	rec = do(t, router, "PATCH", path, statusRequest{Status: models.OrderStatusConfirmed})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, "PATCH", path, statusRequest{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, "PATCH", "/api/restaurants/tandoor/orders/missing/status", statusRequest{Status: models.OrderStatusReady})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, "GET", "/api/restaurants/tandoor/orders/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.OrderStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 1, stats.Today.Total)
	assert.Equal(t, 1, stats.Today.ByStatus[models.OrderStatusConfirmed])
	assert.Equal(t, int64(106000), stats.Today.Revenue)
}

func TestQRCode(t *testing.T) {
	h, router := newTestHandler(t, seed(t))
	assert.Equal(t, "https://menu.example.com/r/tandoor?table=4", h.MenuLink("tandoor", "4"))

	rec := do(t, router, "GET", "/api/restaurants/tandoor/qrcode?table=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])

	rec = do(t, router, "GET", "/api/restaurants/nowhere/qrcode", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t, seed(t))
	router := h.Router([]string{"https://admin.example.com"})

	req := httptest.NewRequest("OPTIONS", "/api/restaurants/tandoor/orders", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
