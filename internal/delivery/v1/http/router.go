package http

import (
	"net/http"

	_ "github.com/DRSN-tech/product-catalog/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// MetricsProvider - middleware и обработчик /metrics.
type MetricsProvider interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Router struct {
	router  *chi.Mux
	logger  logger.Logger
	metrics MetricsProvider
}

func NewRouter(router *chi.Mux, logger logger.Logger, metrics MetricsProvider) *Router {
	return &Router{router: router, logger: logger, metrics: metrics}
}

func (r *Router) Init(prUC usecase.ProductUC, exportUC usecase.CatalogExportUC) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if r.metrics != nil {
		r.router.Use(r.metrics.Middleware)
		r.router.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	}

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, exportUC, r.logger)
		registerProductRoutes(v1, prHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.getProducts)
		pr.Post("/snapshots", prHandler.exportSnapshot)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})
}
