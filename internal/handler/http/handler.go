// SPDX-License-Identifier: Apache-2.0

// Package http exposes the sync daemon's status and metrics surface.
package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/internal/processor"
	"github.com/acidburn0zzz/treesync/internal/startup"
	"github.com/acidburn0zzz/treesync/models"
)

// Handler serves the daemon's HTTP routes. It only reads sync state; all
// mutation flows through the change pipeline.
type Handler struct {
	controller  *startup.Controller
	failedTypes *processor.FailedTypesRegistry
	processors  map[models.ModelType]*processor.GenericChangeProcessor
	gatherer    prometheus.Gatherer

	logger *logger.Logger
}

func NewHandler(
	controller *startup.Controller,
	failedTypes *processor.FailedTypesRegistry,
	processors map[models.ModelType]*processor.GenericChangeProcessor,
	gatherer prometheus.Gatherer,
	log *logger.Logger,
) *Handler {
	log.Info().Msg("http handler created")
	return &Handler{
		controller:  controller,
		failedTypes: failedTypes,
		processors:  processors,
		gatherer:    gatherer,
		logger:      log,
	}
}
