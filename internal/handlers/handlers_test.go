package handlers

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"park-ticketing-platform/internal/middleware"
	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
	"park-ticketing-platform/internal/storage"
)

func init() {
	gob.Register(&models.Cart{})
	gob.Register(models.CartLineItem{})
	gob.Register([]models.CartLineItem{})
}

// newTestServer wires the full router over an in-memory backend. The seed
// callback, when given, runs against the state store before any service
// loads from it.
func newTestServer(t *testing.T, seed func(*storage.StateStore)) (*httptest.Server, *http.Client) {
	t.Helper()

	stateStore := storage.NewStateStore(storage.NewMemoryKV())
	if seed != nil {
		seed(stateStore)
	}

	sessionStore := sessions.NewCookieStore([]byte("test-session-secret"))
	sessionStore.Options = &sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}

	cartService := services.NewCartService(6)
	orderService := services.NewOrderService(stateStore, 0)
	authService := services.NewAuthService(stateStore, "test-jwt-secret", time.Hour)
	reviewService := services.NewReviewService(stateStore)
	statsService := services.NewStatsService(stateStore)

	cartHandler := NewCartHandler(cartService, sessionStore, 4500, 2500)
	orderHandler := NewOrderHandler(orderService, statsService, sessionStore)
	authHandler := NewAuthHandler(authService)
	reviewHandler := NewReviewHandler(reviewService)
	statsHandler := NewStatsHandler(statsService)

	r := chi.NewRouter()
	r.Use(middleware.OptionalAuth(authService))

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/tickets", cartHandler.AddTickets)
		r.Post("/cart/merch", cartHandler.AddMerch)
		r.Post("/cart/items/{itemID}/quantity", cartHandler.ChangeQuantity)
		r.Delete("/cart/items/{itemID}", cartHandler.RemoveItem)

		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/orders", orderHandler.List)
		r.Get("/orders/{orderID}", orderHandler.Get)
		r.Get("/orders/{orderID}/qr", orderHandler.QRPayload)
		r.Post("/orders/{orderID}/cancellation", orderHandler.RequestCancellation)

		r.Post("/reviews", reviewHandler.Submit)
		r.Get("/reviews", reviewHandler.List)
		r.Put("/reviews/{reviewID}", reviewHandler.Edit)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/admin/statistics", statsHandler.Report)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	return srv, &http.Client{Jar: jar}
}

// doRequest issues a request and decodes the JSON response into a generic map
func doRequest(t *testing.T, client *http.Client, method, rawURL string, body io.Reader, contentType, token string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	// Middleware rejections are plain text; everything else is JSON
	if len(data) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decoding response %q: %v", data, err)
		}
	}
	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, client *http.Client, rawURL string) (int, map[string]interface{}) {
	t.Helper()
	return doRequest(t, client, http.MethodGet, rawURL, nil, "", "")
}

func postForm(t *testing.T, client *http.Client, rawURL string, form url.Values) (int, map[string]interface{}) {
	t.Helper()
	return doRequest(t, client, http.MethodPost, rawURL,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "")
}

func postJSON(t *testing.T, client *http.Client, rawURL string, payload interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encoding payload: %v", err)
	}
	return doRequest(t, client, http.MethodPost, rawURL, bytes.NewReader(data), "application/json", token)
}

// cartOf digs the cart payload out of a response body
func cartOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	cart, ok := body["cart"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no cart: %v", body)
	}
	return cart
}

func cartItems(t *testing.T, cart map[string]interface{}) []interface{} {
	t.Helper()
	items, ok := cart["items"].([]interface{})
	if !ok {
		t.Fatalf("cart has no items array: %v", cart)
	}
	return items
}

func itemField(t *testing.T, item interface{}, field string) string {
	t.Helper()
	m, ok := item.(map[string]interface{})
	if !ok {
		t.Fatalf("item is not an object: %v", item)
	}
	value, _ := m[field].(string)
	return value
}

func numField(t *testing.T, m map[string]interface{}, field string) int {
	t.Helper()
	value, ok := m[field].(float64)
	if !ok {
		t.Fatalf("field %q is not a number: %v", field, m[field])
	}
	return int(value)
}

func tomorrowDate() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}
