// Package ui renders the inventory views and owns their per-session state.
package ui

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/inventory-ui/internal/model"
)

// ProductAPI is the subset of the products API the views depend on.
type ProductAPI interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, d model.Draft) error
	Delete(ctx context.Context, id model.ID) error
}

// ErrDiscarded is returned by ListView.Load when the view was remounted or
// unmounted while the request was in flight. The result was not applied.
var ErrDiscarded = errors.New("list load discarded")

// ListState is a snapshot of the list view.
type ListState struct {
	Products []model.Product
	Err      error
	Loaded   bool
}

// ListView holds the last fetched product collection.
//
// Every Load replaces the collection wholesale. A successful Delete removes
// the product locally without a refetch.
type ListView struct {
	api ProductAPI

	mu       sync.Mutex
	gen      uint64
	products []model.Product
	err      error
	loaded   bool
}

func NewListView(api ProductAPI) *ListView {
	return &ListView{api: api}
}

// Load mounts the view: it fetches the full collection and returns the
// outcome of this fetch. Unless a later mount or unmount happened meanwhile,
// the outcome also replaces the view state; otherwise the state is left alone
// and ErrDiscarded is returned together with the fetched outcome.
func (v *ListView) Load(ctx context.Context) (ListState, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	products, err := v.api.List(ctx)
	if err != nil {
		products = nil
	}
	st := ListState{Products: products, Err: err, Loaded: true}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return st, ErrDiscarded
	}
	v.loaded = true
	v.products = products
	v.err = err
	st.Products = slices.Clone(products)
	return st, err
}

// Unmount invalidates any load still in flight.
func (v *ListView) Unmount() {
	v.mu.Lock()
	v.gen++
	v.mu.Unlock()
}

// Delete removes a product after confirmation. Without confirmation nothing is
// sent and sent is false. A failed request leaves the collection unchanged.
func (v *ListView) Delete(ctx context.Context, id model.ID, confirmed bool) (sent bool, err error) {
	if !confirmed {
		return false, nil
	}
	if err := v.api.Delete(ctx, id); err != nil {
		return true, errors.Wrapf(err, "delete product %s", id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.products = slices.DeleteFunc(v.products, func(p model.Product) bool { return p.ID == id })
	return true, nil
}

// Lookup returns the product with id from the current collection.
func (v *ListView) Lookup(id model.ID) (model.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// State returns a copy of the current view state.
func (v *ListView) State() ListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ListState{
		Products: slices.Clone(v.products),
		Err:      v.err,
		Loaded:   v.loaded,
	}
}
