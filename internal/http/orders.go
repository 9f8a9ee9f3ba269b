package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

type orderView struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	Price       json.Number `json:"price"`
	Fee         json.Number `json:"fee"`
	Total       json.Number `json:"total"`
	Quantity    int64       `json:"quantity"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt string      `json:"completed_at,omitempty"`
}

// orderRequest names the product by id and the number of units.
type orderRequest struct {
	ID       model.ID        `json:"id"`
	Quantity json.RawMessage `json:"quantity"`
}

func toOrderView(o model.Order) orderView {
	v := orderView{
		ID:        o.ID.String(),
		ProductID: o.ProductID.String(),
		Price:     json.Number(o.Price.String()),
		Fee:       json.Number(o.Fee.String()),
		Total:     json.Number(o.Total.String()),
		Quantity:  o.Quantity,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !o.CompletedAt.IsZero() {
		v.CompletedAt = o.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	return v
}

func (a *App) ordersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var req orderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ID == "" {
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", "id is required")
		return
	}
	qtyText, err := numericText(req.Quantity)
	if err != nil {
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", "quantity "+err.Error())
		return
	}
	qty, err := strconv.ParseInt(qtyText, 10, 64)
	if err != nil || qty < 1 {
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", "quantity must be a positive integer")
		return
	}
	p, ok := a.Store.Get(req.ID)
	if !ok {
		WriteJSONError(w, http.StatusUnprocessableEntity, "validation_error", "product "+req.ID.String()+" not found")
		return
	}

	o := a.Orders.Create(model.NewOrder(p, qty, time.Now()))
	if !a.Manager.Schedule(o.ID) {
		obs.Logger.Warn("order_schedule_rejected", "order_id", o.ID.String())
	}
	obs.Logger.Info("order_created",
		"request_id", obs.RequestIDFromContext(r.Context()),
		"order_id", o.ID.String(),
		"product_id", o.ProductID.String(),
		"quantity", o.Quantity,
		"total", o.Total.String(),
	)
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

func (a *App) orderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	id := model.ID(strings.TrimPrefix(r.URL.Path, "/orders/"))
	o, ok := a.Orders.Get(id)
	if id == "" || !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}
