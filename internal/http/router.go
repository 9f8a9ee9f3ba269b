package httpapi

import (
	"net/http"
)

// NewRouter registers the simulator routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", app.productsHandler)
	mux.HandleFunc("/products/", app.productHandler)
	mux.HandleFunc("/orders", app.ordersHandler)
	mux.HandleFunc("/orders/", app.orderHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(WithCORS(app.Cfg.CORSAllowOrigin, mux)))
}
