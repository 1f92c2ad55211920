// SPDX-License-Identifier: Apache-2.0

// Package startup decides when the sync backend is allowed to initialize:
// immediately, deferred behind a fallback timer, or not at all.
package startup

import (
	"sync"
	"time"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/models"
)

// DefaultFallbackTimeout bounds how long a deferred start may wait for a
// datatype to ask for sync before the backend is started anyway.
const DefaultFallbackTimeout = 10 * time.Second

// StartBackendFunc launches the heavy sync backend. The controller
// guarantees it is invoked at most once between resets.
type StartBackendFunc func()

// Deps are the controller's collaborators and tuning knobs.
type Deps struct {
	Prefs        SyncPrefs
	Signin       SigninManager
	TokenService TokenService
	StartBackend StartBackendFunc
	Telemetry    *Telemetry
	Logger       *logger.Logger

	// EnableDeferredStartup allows the deferred branch at all; when false
	// every start resolves immediately.
	EnableDeferredStartup bool

	// AutoStart lets sync start before first-time setup has completed,
	// e.g. on platforms where signin implies sync.
	AutoStart bool

	// FallbackTimeout overrides DefaultFallbackTimeout; zero keeps the
	// default.
	FallbackTimeout time.Duration

	// Clock overrides time.Now for tests.
	Clock func() time.Time
}

// Controller is the deferred-startup state machine. External signals
// (TryStart, datatype flares, the fallback timer, Reset) arrive on the
// control goroutine or on the timer goroutine; a mutex serializes them.
type Controller struct {
	mu sync.Mutex

	prefs        SyncPrefs
	signin       SigninManager
	tokenService TokenService
	startBackend StartBackendFunc
	telemetry    *Telemetry
	logger       *logger.Logger

	deferredEnabled bool
	autoStart       bool
	fallbackTimeout time.Duration
	now             func() time.Time

	receivedStartRequest bool
	setupInProgress      bool

	// startUpTime is set on the first startUp call of a cycle;
	// startBackendTime when the backend closure actually ran.
	startUpTime      time.Time
	startBackendTime time.Time

	// generation invalidates in-flight fallback timers across Reset.
	generation uint64
	timer      *time.Timer
}

func NewController(deps Deps) *Controller {
	timeout := deps.FallbackTimeout
	if timeout <= 0 {
		timeout = DefaultFallbackTimeout
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Controller{
		prefs:           deps.Prefs,
		signin:          deps.Signin,
		tokenService:    deps.TokenService,
		startBackend:    deps.StartBackend,
		telemetry:       deps.Telemetry,
		logger:          log,
		deferredEnabled: deps.EnableDeferredStartup,
		autoStart:       deps.AutoStart,
		fallbackTimeout: timeout,
		now:             clock,
	}
}

// TryStart runs the pre-checks and, when they pass, resolves the start mode.
// It reports whether the backend was started by this call (or an earlier
// one in the same cycle).
func (c *Controller) TryStart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tryStartLocked()
}

func (c *Controller) tryStartLocked() bool {
	if c.prefs.IsManaged() {
		return false
	}
	if c.prefs.IsStartSuppressed() {
		return false
	}
	if c.signin.EffectiveUsername() == "" {
		return false
	}
	if c.tokenService == nil {
		return false
	}
	if !c.tokenService.RefreshTokenIsAvailable(c.signin.AccountIDToUse()) {
		return false
	}
	if c.telemetry != nil {
		c.telemetry.RefreshTokenAvailable()
	}

	switch {
	case c.prefs.HasSyncSetupCompleted():
		if !c.receivedStartRequest {
			return c.startUpLocked(true)
		}
		return c.startUpLocked(false)
	case c.setupInProgress || c.autoStart:
		return c.startUpLocked(false)
	default:
		return false
	}
}

// startUpLocked resolves a start in the given mode. Deferred returns false
// without touching the backend; the fallback timer or a datatype flare will
// finish the job.
func (c *Controller) startUpLocked(deferred bool) bool {
	firstStart := c.startUpTime.IsZero()
	if firstStart {
		c.startUpTime = c.now()
	}

	if deferred && c.deferredEnabled {
		if firstStart {
			c.scheduleFallbackLocked()
			c.logger.Info().Dur("fallback", c.fallbackTimeout).Msg("sync startup deferred")
		}
		return false
	}

	if c.startBackendTime.IsZero() {
		c.startBackendTime = c.now()
		c.logger.Info().Msg("starting sync backend")
		c.startBackend()
	}
	return true
}

func (c *Controller) scheduleFallbackLocked() {
	generation := c.generation
	c.timer = time.AfterFunc(c.fallbackTimeout, func() {
		c.fallbackTimerFired(generation)
	})
}

func (c *Controller) fallbackTimerFired(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}
	c.onFallbackExpiredLocked()
}

// OnFallbackStartupTimerExpired forces a deferred start to resolve. Called
// by the fallback timer; exposed so the expiry path can be driven directly.
func (c *Controller) OnFallbackStartupTimerExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onFallbackExpiredLocked()
}

func (c *Controller) onFallbackExpiredLocked() {
	// Nothing to resolve unless a deferred start is actually pending.
	if c.startUpTime.IsZero() {
		return
	}
	if !c.startBackendTime.IsZero() {
		return
	}

	if c.telemetry != nil {
		c.telemetry.TimeDeferred(c.now().Sub(c.startUpTime))
		c.telemetry.DeferredInitTrigger(TriggerFallbackTimer)
	}
	c.logger.Info().Msg("sync startup fallback timer expired")

	c.receivedStartRequest = true
	c.tryStartLocked()
}

// OnDataTypeRequestsSyncStartup is the datatype flare: a type wants sync up
// now. Ignored when deferred startup is disabled or the backend is already
// running.
func (c *Controller) OnDataTypeRequestsSyncStartup(t models.ModelType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.deferredEnabled {
		return
	}
	if !c.startBackendTime.IsZero() {
		return
	}

	if !c.startUpTime.IsZero() {
		if c.telemetry != nil {
			c.telemetry.TimeDeferred(c.now().Sub(c.startUpTime))
			c.telemetry.TypeTriggeringInit(t)
			c.telemetry.DeferredInitTrigger(TriggerDataTypeRequest)
		}
		c.logger.Info().Str("type", t.String()).Msg("datatype requested sync startup")
	}

	c.receivedStartRequest = true
	c.tryStartLocked()
}

// SetSetupInProgress marks that the user is in the middle of first-time
// setup; while set, TryStart resolves immediately even before setup
// completion.
func (c *Controller) SetSetupInProgress(inProgress bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setupInProgress = inProgress
}

// Reset returns the controller to its initial state and invalidates any
// in-flight fallback timer.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.receivedStartRequest = false
	c.setupInProgress = false
	c.startUpTime = time.Time{}
	c.startBackendTime = time.Time{}

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// BackendStarted reports whether the backend closure has run this cycle.
func (c *Controller) BackendStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return !c.startBackendTime.IsZero()
}

// BackendInitializationStateString renders the startup state for status
// surfaces.
func (c *Controller) BackendInitializationStateString() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.startBackendTime.IsZero():
		return "Started"
	case !c.startUpTime.IsZero():
		return "Deferred"
	default:
		return "Not started"
	}
}
