package ui

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/fairyhunter13/inventory-ui/internal/model"
	"github.com/fairyhunter13/inventory-ui/internal/obs"
)

// fakeAPI is an in-memory ProductAPI that counts calls.
type fakeAPI struct {
	mu        sync.Mutex
	products  []model.Product
	listErr   error
	createErr error
	deleteErr error

	lists   int
	drafts  []model.Draft
	deleted []model.ID

	// listStarted and listGate, when set, let a test hold a List call in flight.
	listStarted chan struct{}
	listGate    chan struct{}
}

func newFakeAPI(products ...model.Product) *fakeAPI {
	return &fakeAPI{products: products}
}

func seedProducts() []model.Product {
	return []model.Product{
		{ID: "1", Name: "A", Price: decimal.NewFromInt(1), Quantity: 10},
		{ID: "2", Name: "B", Price: decimal.NewFromInt(2), Quantity: 20},
	}
}

func (f *fakeAPI) List(ctx context.Context) ([]model.Product, error) {
	if f.listStarted != nil {
		f.listStarted <- struct{}{}
	}
	if f.listGate != nil {
		<-f.listGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.products), nil
}

func (f *fakeAPI) Create(ctx context.Context, d model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	return f.createErr
}

func (f *fakeAPI) Delete(ctx context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.products = slices.DeleteFunc(f.products, func(p model.Product) bool { return p.ID == id })
	return nil
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeAPI) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

func quietLogs(t *testing.T) {
	t.Helper()
	obs.InitLogger(slog.LevelError)
}

func parseHTML(t *testing.T, r io.Reader) *html.Node {
	t.Helper()
	doc, err := html.Parse(r)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// tableRows returns the cell texts of every body row of the products table.
func tableRows(t *testing.T, doc *html.Node) [][]string {
	t.Helper()
	table := findByID(doc, "products")
	if table == nil {
		t.Fatalf("products table not rendered")
	}
	var out [][]string
	for _, tbody := range findAll(table, "tbody") {
		for _, tr := range findAll(tbody, "tr") {
			var cells []string
			for _, td := range findAll(tr, "td") {
				cells = append(cells, textOf(td))
			}
			out = append(out, cells)
		}
	}
	return out
}

func rowIDs(t *testing.T, doc *html.Node) []string {
	t.Helper()
	var ids []string
	for _, r := range tableRows(t, doc) {
		ids = append(ids, r[0])
	}
	return ids
}
