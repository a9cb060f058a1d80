// Package api exposes the storefront catalog, checkout and the admin order
// endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/chrisdamba/menuar/internal/cart"
	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
	"github.com/chrisdamba/menuar/internal/orders"
)

const qrSize = 256

// ErrItemNotOrderable rejects a checkout line whose menu item is unknown or
// switched off.
var ErrItemNotOrderable = errors.New("menu item is not orderable")

type Handler struct {
	Catalog       *catalog.Engine
	Orders        *orders.Service
	PublicMenuURL string
	Log           logrus.FieldLogger
	Now           func() time.Time
}

func NewHandler(engine *catalog.Engine, svc *orders.Service, publicMenuURL string, log logrus.FieldLogger) *Handler {
	return &Handler{
		Catalog:       engine,
		Orders:        svc,
		PublicMenuURL: publicMenuURL,
		Log:           log,
		Now:           time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu/legacy", h.getLegacyMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/orders/stats", h.getOrderStats).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/orders/{orderId}/status", h.updateOrderStatus).Methods("PATCH")
	r.HandleFunc("/api/restaurants/{restaurantId}/qrcode", h.getQRCode).Methods("GET")
}

// Router wires the routes behind request logging and CORS.
func (h *Handler) Router(origins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(h.logRequests)
	h.RegisterRoutes(r)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.Log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type menuResponse struct {
	Restaurant *models.Restaurant      `json:"restaurant"`
	Categories []*models.Category      `json:"categories"`
	Groups     []catalog.CategoryGroup `json:"groups"`
	Items      []*models.MenuItem      `json:"items"`
	Total      int                     `json:"total"`
}

// criteria reads q, category and price from the query string.
func criteria(q url.Values) (catalog.Criteria, error) {
	c := catalog.Criteria{
		Text:     strings.TrimSpace(q.Get("q")),
		Category: q.Get("category"),
	}
	if key := q.Get("price"); key != "" && key != "all" {
		b, ok := catalog.BracketByKey(key)
		if !ok {
			return c, fmt.Errorf("unknown price range %q", key)
		}
		c.Bracket = &b
	}
	return c, nil
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crit, err := criteria(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	includeAll, _ := strconv.ParseBool(q.Get("all"))

	cat, err := h.Catalog.LoadCatalog(r.Context(), mux.Vars(r)["restaurantId"], catalog.LoadOptions{IncludeUnavailable: includeAll})
	if err != nil {
		h.fail(w, err)
		return
	}
	items := catalog.Filter(cat.Items, crit)
	writeJSON(w, http.StatusOK, menuResponse{
		Restaurant: cat.Restaurant,
		Categories: cat.Categories,
		Groups:     h.Catalog.Group(items),
		Items:      items,
		Total:      len(items),
	})
}

func (h *Handler) getLegacyMenu(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Catalog.LoadCatalog(r.Context(), mux.Vars(r)["restaurantId"], catalog.LoadOptions{})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat.Legacy())
}

type checkoutRequest struct {
	OrderNumber string            `json:"orderNumber,omitempty"`
	Customer    models.Customer   `json:"customer"`
	Items       []models.CartItem `json:"items"`
	Notes       string            `json:"notes,omitempty"`
}

// createOrder rebuilds the posted cart lines from the tenant's catalog so the
// merge and total rules apply to catalog prices before submission.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cat, err := h.Catalog.LoadCatalog(r.Context(), mux.Vars(r)["restaurantId"], catalog.LoadOptions{IncludeUnavailable: true})
	if err != nil {
		h.fail(w, err)
		return
	}
	restaurant := cat.Restaurant
	menu := make(map[string]*models.MenuItem, len(cat.Items))
	for _, item := range cat.Items {
		menu[item.ID] = item
	}

	// name, price and currency always come from the catalog
	c := cart.New()
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			continue
		}
		item, ok := menu[line.MenuItemID]
		if !ok || !item.Available() {
			h.fail(w, &orders.ValidationError{Err: fmt.Errorf("%w: %q", ErrItemNotOrderable, line.MenuItemID)})
			return
		}
		l := cart.LineFromItem(item)
		if line.ID != "" {
			l.ID = line.ID
		}
		l.Quantity = line.Quantity
		l.SpecialInstructions = strings.TrimSpace(line.SpecialInstructions)
		c.AddItem(l)
	}
	sub := c.ToOrderPayload(restaurant.RestaurantID, req.Customer, req.Notes)
	sub.OrderNumber = req.OrderNumber
	if sub.Currency == "" {
		sub.Currency = restaurant.Settings.Currency
	}

	receipt, err := h.Orders.Submit(r.Context(), sub)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	vars := mux.Vars(r)
	restaurant, err := h.Catalog.ResolveTenant(r.Context(), vars["restaurantId"])
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Orders.UpdateStatus(r.Context(), restaurant.RestaurantID, vars["orderId"], req.Status); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"orderId": vars["orderId"], "status": req.Status})
}

func (h *Handler) getOrderStats(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.Catalog.ResolveTenant(r.Context(), mux.Vars(r)["restaurantId"])
	if err != nil {
		h.fail(w, err)
		return
	}
	stats, err := h.Orders.Stats(r.Context(), restaurant.RestaurantID, h.Now())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MenuLink is the public storefront URL a table QR code points at.
func (h *Handler) MenuLink(restaurantID, table string) string {
	link := strings.TrimRight(h.PublicMenuURL, "/") + "/" + url.PathEscape(restaurantID)
	if table != "" {
		link += "?table=" + url.QueryEscape(table)
	}
	return link
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.Catalog.ResolveTenant(r.Context(), mux.Vars(r)["restaurantId"])
	if err != nil {
		h.fail(w, err)
		return
	}
	png, err := qrcode.Encode(h.MenuLink(restaurant.RestaurantID, r.URL.Query().Get("table")), qrcode.Medium, qrSize)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var (
		verr *orders.ValidationError
		serr *orders.SubmissionError
	)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, err)
	case errors.As(err, &serr):
		h.Log.WithError(err).Error("order submission failed")
		writeError(w, http.StatusBadGateway, err)
	default:
		h.Log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
