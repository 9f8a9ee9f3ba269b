package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-ui/internal/config"
	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
	"github.com/fairyhunter13/inventory-ui/internal/queue"
	"github.com/fairyhunter13/inventory-ui/internal/store"
)

type productResp struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

func setupApp(t *testing.T) (*App, http.Handler) {
	t.Helper()
	cfg := config.Load()
	cfg.CORSAllowOrigin = "http://localhost:3000"
	cfg.OrderCompletionDelay = 20 * time.Millisecond
	obs.InitLogger(slog.LevelError)
	orders := store.NewOrders()
	mgr := queue.NewManager(cfg, queue.New(16), orders)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		mgr.Stop()
	})
	mgr.Start(ctx)
	app := NewApp(cfg, store.New(), orders, mgr)
	return app, NewRouter(app)
}

func seed(app *App) {
	app.Store.Seed(
		model.Product{ID: "1", Name: "A", Price: decimal.NewFromInt(1), Quantity: 10},
		model.Product{ID: "2", Name: "B", Price: decimal.NewFromInt(2), Quantity: 20},
	)
}

func postJSON(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestListProducts(t *testing.T) {
	app, mux := setupApp(t)
	seed(app)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var ps []productResp
	if err := json.Unmarshal(rr.Body.Bytes(), &ps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ps) != 2 || ps[0].ID != "1" || ps[1].Price != 2 || ps[1].Quantity != 20 {
		t.Fatalf("unexpected products: %+v", ps)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	_, mux := setupApp(t)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rr.Body.String())
	}
}

func TestCreateAcceptsNumericStrings(t *testing.T) {
	app, mux := setupApp(t)
	rr := postJSON(mux, `{"name":"Widget","price":"9.99","quantity":"5"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var p productResp
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID == "" || p.Name != "Widget" || p.Price != 9.99 || p.Quantity != 5 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if app.Store.Len() != 1 {
		t.Fatalf("expected 1 stored product")
	}
}

func TestCreateAcceptsNumbers(t *testing.T) {
	_, mux := setupApp(t)
	rr := postJSON(mux, `{"name":"Bolt","price":0.5,"quantity":100}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateValidation(t *testing.T) {
	_, mux := setupApp(t)
	cases := map[string]string{
		"missing name":      `{"name":"","price":"1","quantity":"1"}`,
		"empty price":       `{"name":"x","price":"","quantity":"1"}`,
		"non-numeric price": `{"name":"x","price":"abc","quantity":"1"}`,
		"negative price":    `{"name":"x","price":-1,"quantity":"1"}`,
		"fraction quantity": `{"name":"x","price":"1","quantity":"1.5"}`,
		"negative quantity": `{"name":"x","price":"1","quantity":-3}`,
		"missing quantity":  `{"name":"x","price":"1"}`,
	}
	for name, body := range cases {
		rr := postJSON(mux, body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", name, rr.Code)
		}
	}
}

func TestCreateUnknownFields(t *testing.T) {
	_, mux := setupApp(t)
	rr := postJSON(mux, `{"name":"x","price":"1","quantity":"1","foo":"bar"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateUnsupportedMediaType(t *testing.T) {
	_, mux := setupApp(t)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rr.Code)
	}
}

func TestGetAndDeleteProduct(t *testing.T) {
	app, mux := setupApp(t)
	seed(app)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/2", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/products/1", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/products/1", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}
	if app.Store.Len() != 1 {
		t.Fatalf("expected 1 remaining product")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	_, mux := setupApp(t)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	_, mux := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Request-Id", "test-req-1")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Header().Get("X-Request-Id") != "test-req-1" {
		t.Fatalf("expected request id echoed")
	}
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestCORSPreflight(t *testing.T) {
	_, mux := setupApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("missing allow-origin header")
	}

	other := httptest.NewRequest(http.MethodGet, "/products", nil)
	other.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, other)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin must not be allowed")
	}
}

func TestOpenAPIServed(t *testing.T) {
	_, mux := setupApp(t)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("openapi:")) {
		t.Fatalf("expected openapi content")
	}
}

func TestDocsServed(t *testing.T) {
	_, mux := setupApp(t)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/docs", nil))
	if !strings.Contains(rr.Body.String(), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs body")
	}
}

func TestHealthzOK(t *testing.T) {
	_, mux := setupApp(t)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
