package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-ui/internal/config"
	httpopenapi "github.com/fairyhunter13/inventory-ui/internal/http/openapi"
	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
	"github.com/fairyhunter13/inventory-ui/internal/queue"
	"github.com/fairyhunter13/inventory-ui/internal/store"
)

type App struct {
	Cfg     config.Config
	Store   *store.Store
	Orders  *store.Orders
	Manager *queue.Manager
	closing atomic.Bool
	started time.Time
}

// productView is the wire form of a product; price is emitted as a JSON number.
type productView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int64       `json:"quantity"`
}

// createRequest accepts numbers either as JSON numbers or numeric strings,
// which is what HTML forms produce.
type createRequest struct {
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Quantity json.RawMessage `json:"quantity"`
}

func NewApp(cfg config.Config, st *store.Store, orders *store.Orders, m *queue.Manager) *App {
	return &App{Cfg: cfg, Store: st, Orders: orders, Manager: m, started: time.Now()}
}

// StartShutdown stops accepting orders; reads and product writes keep working
// until the server shuts down.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

func toView(p model.Product) productView {
	return productView{ID: p.ID.String(), Name: p.Name, Price: json.Number(p.Price.String()), Quantity: p.Quantity}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) productsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProducts(w, r)
	case http.MethodPost:
		a.createProduct(w, r)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) listProducts(w http.ResponseWriter, _ *http.Request) {
	products := a.Store.List()
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) createProduct(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var req createRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := req.product()
	if err != nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	p = a.Store.Create(p)
	obs.Logger.Info("product_created",
		"request_id", obs.RequestIDFromContext(r.Context()),
		"product_id", p.ID.String(),
		"name", p.Name,
	)
	writeJSON(w, http.StatusCreated, toView(p))
}

func (req createRequest) product() (model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Product{}, errors.New("name is required")
	}
	priceText, err := numericText(req.Price)
	if err != nil {
		return model.Product{}, errors.New("price " + err.Error())
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return model.Product{}, errors.New("price must be a number")
	}
	if price.IsNegative() {
		return model.Product{}, errors.New("price must be >= 0")
	}
	qtyText, err := numericText(req.Quantity)
	if err != nil {
		return model.Product{}, errors.New("quantity " + err.Error())
	}
	qty, err := strconv.ParseInt(qtyText, 10, 64)
	if err != nil {
		return model.Product{}, errors.New("quantity must be an integer")
	}
	if qty < 0 {
		return model.Product{}, errors.New("quantity must be >= 0")
	}
	return model.Product{Name: name, Price: price, Quantity: qty}, nil
}

// numericText returns the textual form of a JSON number or numeric string.
func numericText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("is required")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.New("is not a valid string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", errors.New("is required")
		}
		return s, nil
	}
	return string(raw), nil
}

func (a *App) productHandler(w http.ResponseWriter, r *http.Request) {
	id := model.ID(strings.TrimPrefix(r.URL.Path, "/products/"))
	if id == "" || strings.Contains(id.String(), "/") {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, ok := a.Store.Get(id)
		if !ok {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		writeJSON(w, http.StatusOK, toView(p))
	case http.MethodDelete:
		if !a.Store.Delete(id) {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		obs.Logger.Info("product_deleted",
			"request_id", obs.RequestIDFromContext(r.Context()),
			"product_id", id.String(),
		)
		w.WriteHeader(http.StatusNoContent)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"products":       a.Store.Len(),
		"orders_pending": a.Manager.Pending(),
		"worker_count":   a.Manager.WorkerCount(),
		"uptime_sec":     time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Products API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
