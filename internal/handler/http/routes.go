// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Get("/healthz", h.health)
	router.Get("/api/sync/status", h.syncStatus)
	router.Method("GET", "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	return router
}
