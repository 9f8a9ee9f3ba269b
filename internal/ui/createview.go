package ui

import (
	"context"
	"net/url"

	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

// CreateView is the product creation form.
type CreateView struct {
	api   ProductAPI
	Draft model.Draft
}

func NewCreateView(api ProductAPI) *CreateView {
	return &CreateView{api: api}
}

// Bind copies the submitted form fields into the draft exactly as entered.
func (v *CreateView) Bind(form url.Values) {
	v.Draft = model.Draft{
		Name:     form.Get("name"),
		Price:    form.Get("price"),
		Quantity: form.Get("quantity"),
	}
}

// Submit sends one creation request for the bound draft.
func (v *CreateView) Submit(ctx context.Context) error {
	err := v.api.Create(ctx, v.Draft)
	if err != nil {
		obs.Logger.Warn("product_create_failed",
			"request_id", obs.RequestIDFromContext(ctx),
			"name", v.Draft.Name,
			"error", err,
		)
		return err
	}
	obs.Logger.Info("product_created",
		"request_id", obs.RequestIDFromContext(ctx),
		"name", v.Draft.Name,
	)
	return nil
}
