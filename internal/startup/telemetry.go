// SPDX-License-Identifier: Apache-2.0

package startup

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/acidburn0zzz/treesync/models"
)

// DeferredInitTrigger identifies what resolved a deferred start.
type DeferredInitTrigger string

const (
	TriggerDataTypeRequest DeferredInitTrigger = "data_type_request"
	TriggerFallbackTimer   DeferredInitTrigger = "fallback_timer"
)

// Telemetry holds the startup controller's prometheus instruments.
type Telemetry struct {
	refreshTokenAvailable prometheus.Counter
	timeDeferred          prometheus.Histogram
	deferredInitTrigger   *prometheus.CounterVec
	typeTriggeringInit    *prometheus.CounterVec
}

// NewTelemetry registers the startup metrics with reg.
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		refreshTokenAvailable: factory.NewCounter(prometheus.CounterOpts{
			Name: "sync_startup_refresh_token_available_total",
			Help: "Times startup pre-checks found a usable refresh token.",
		}),
		timeDeferred: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_startup_time_deferred_seconds",
			Help:    "How long a deferred start waited before resolving.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		deferredInitTrigger: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_startup_deferred_init_trigger_total",
			Help: "What resolved a deferred start.",
		}, []string{"trigger"}),
		typeTriggeringInit: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_startup_type_triggering_init_total",
			Help: "Datatype whose flare resolved a deferred start.",
		}, []string{"type"}),
	}
}

func (t *Telemetry) RefreshTokenAvailable() {
	t.refreshTokenAvailable.Inc()
}

func (t *Telemetry) TimeDeferred(d time.Duration) {
	t.timeDeferred.Observe(d.Seconds())
}

func (t *Telemetry) DeferredInitTrigger(trigger DeferredInitTrigger) {
	t.deferredInitTrigger.WithLabelValues(string(trigger)).Inc()
}

func (t *Telemetry) TypeTriggeringInit(dataType models.ModelType) {
	t.typeTriggeringInit.WithLabelValues(dataType.String()).Inc()
}
