package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", h.Catalog)
		r.Get("/notifications", h.Notifications)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart)
			r.Route("/items/{productID}", func(r chi.Router) {
				r.Post("/", h.AddProduct)
				r.Put("/", h.UpdateProductAmount)
				r.Delete("/", h.RemoveProduct)
				r.Post("/increment", h.Increment)
				r.Post("/decrement", h.Decrement)
			})
		})
	})

	return otelhttp.NewHandler(r, "cartd")
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
