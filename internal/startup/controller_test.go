// SPDX-License-Identifier: Apache-2.0

package startup

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acidburn0zzz/treesync/models"
)

type fakeSignin struct {
	username string
	account  string
}

func (s *fakeSignin) EffectiveUsername() string { return s.username }
func (s *fakeSignin) AccountIDToUse() string    { return s.account }

type fakeTokens struct {
	available bool
	askedFor  string
}

func (t *fakeTokens) RefreshTokenIsAvailable(accountID string) bool {
	t.askedFor = accountID
	return t.available
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time          { return c.current }
func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

type controllerFixture struct {
	controller *Controller
	prefs      *Prefs
	signin     *fakeSignin
	tokens     *fakeTokens
	clock      *fakeClock
	telemetry  *Telemetry

	backendStarts int
}

// newControllerFixtureWith builds a fixture, letting prepare mutate both the
// shared fakes and the dependency struct before construction.
func newControllerFixtureWith(prepare func(f *controllerFixture, deps *Deps)) *controllerFixture {
	f := &controllerFixture{
		prefs:     NewPrefs(),
		signin:    &fakeSignin{username: "user@example.com", account: "acct-1"},
		tokens:    &fakeTokens{available: true},
		clock:     &fakeClock{current: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		telemetry: NewTelemetry(prometheus.NewRegistry()),
	}

	deps := Deps{
		Prefs:                 f.prefs,
		Signin:                f.signin,
		TokenService:          f.tokens,
		StartBackend:          func() { f.backendStarts++ },
		Telemetry:             f.telemetry,
		EnableDeferredStartup: true,
		Clock:                 f.clock.Now,
	}
	if prepare != nil {
		prepare(f, &deps)
	}

	f.controller = NewController(deps)
	return f
}

func TestTryStartPreChecks(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *controllerFixture, deps *Deps)
	}{
		{
			name:    "managed",
			prepare: func(f *controllerFixture, _ *Deps) { f.prefs.SetManaged(true) },
		},
		{
			name:    "start suppressed",
			prepare: func(f *controllerFixture, _ *Deps) { f.prefs.SetStartSuppressed(true) },
		},
		{
			name:    "no username",
			prepare: func(f *controllerFixture, _ *Deps) { f.signin.username = "" },
		},
		{
			name:    "no token service",
			prepare: func(_ *controllerFixture, deps *Deps) { deps.TokenService = nil },
		},
		{
			name:    "refresh token unavailable",
			prepare: func(f *controllerFixture, _ *Deps) { f.tokens.available = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newControllerFixtureWith(tt.prepare)
			f.prefs.SetSyncSetupCompleted(true)

			assert.False(t, f.controller.TryStart())
			assert.Equal(t, 0, f.backendStarts)
			assert.Equal(t, "Not started", f.controller.BackendInitializationStateString())
			assert.Equal(t, float64(0), testutil.ToFloat64(f.telemetry.refreshTokenAvailable))
		})
	}
}

func TestDeferredStart(t *testing.T) {
	t.Run("setup complete defers on first try", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)

		assert.False(t, f.controller.TryStart())
		assert.Equal(t, 0, f.backendStarts)
		assert.Equal(t, "Deferred", f.controller.BackendInitializationStateString())
		assert.NotNil(t, f.controller.timer)
		assert.Equal(t, float64(1), testutil.ToFloat64(f.telemetry.refreshTokenAvailable))
	})

	t.Run("datatype flare resolves the deferred window", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())

		f.clock.Advance(3 * time.Second)
		f.controller.OnDataTypeRequestsSyncStartup(models.Sessions)

		assert.Equal(t, 1, f.backendStarts)
		assert.Equal(t, "Started", f.controller.BackendInitializationStateString())
		assert.Equal(t, float64(1),
			testutil.ToFloat64(f.telemetry.deferredInitTrigger.WithLabelValues(string(TriggerDataTypeRequest))))
		assert.Equal(t, float64(1),
			testutil.ToFloat64(f.telemetry.typeTriggeringInit.WithLabelValues("Sessions")))

		// A later fallback expiry must be a no-op.
		f.controller.OnFallbackStartupTimerExpired()
		assert.Equal(t, 1, f.backendStarts)
	})

	t.Run("fallback expiry resolves the deferred window", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())

		f.clock.Advance(10 * time.Second)
		f.controller.OnFallbackStartupTimerExpired()

		assert.Equal(t, 1, f.backendStarts)
		assert.Equal(t, "Started", f.controller.BackendInitializationStateString())
		assert.Equal(t, float64(1),
			testutil.ToFloat64(f.telemetry.deferredInitTrigger.WithLabelValues(string(TriggerFallbackTimer))))
	})

	t.Run("expiry before any deferral is a no-op", func(t *testing.T) {
		f := newControllerFixtureWith(nil)

		f.controller.OnFallbackStartupTimerExpired()
		assert.Equal(t, 0, f.backendStarts)
		assert.Equal(t, float64(0),
			testutil.ToFloat64(f.telemetry.deferredInitTrigger.WithLabelValues(string(TriggerFallbackTimer))))

		// The premature expiry must not count as a start request: the next
		// try with setup complete still defers.
		f.prefs.SetSyncSetupCompleted(true)
		assert.False(t, f.controller.TryStart())
		assert.Equal(t, "Deferred", f.controller.BackendInitializationStateString())
	})

	t.Run("duplicate flares do not start the backend twice", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())

		f.controller.OnDataTypeRequestsSyncStartup(models.Preferences)
		f.controller.OnDataTypeRequestsSyncStartup(models.Preferences)

		assert.Equal(t, 1, f.backendStarts)
		assert.Equal(t, float64(1),
			testutil.ToFloat64(f.telemetry.deferredInitTrigger.WithLabelValues(string(TriggerDataTypeRequest))))
	})

	t.Run("deferred disabled starts immediately", func(t *testing.T) {
		f := newControllerFixtureWith(func(_ *controllerFixture, deps *Deps) {
			deps.EnableDeferredStartup = false
		})
		f.prefs.SetSyncSetupCompleted(true)

		assert.True(t, f.controller.TryStart())
		assert.Equal(t, 1, f.backendStarts)
		assert.Equal(t, "Started", f.controller.BackendInitializationStateString())
	})

	t.Run("flare is ignored when deferred startup is disabled", func(t *testing.T) {
		f := newControllerFixtureWith(func(_ *controllerFixture, deps *Deps) {
			deps.EnableDeferredStartup = false
		})

		f.controller.OnDataTypeRequestsSyncStartup(models.Preferences)
		assert.Equal(t, 0, f.backendStarts)
	})
}

func TestImmediateStart(t *testing.T) {
	t.Run("setup in progress", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.controller.SetSetupInProgress(true)

		assert.True(t, f.controller.TryStart())
		assert.Equal(t, 1, f.backendStarts)
	})

	t.Run("auto start", func(t *testing.T) {
		f := newControllerFixtureWith(func(_ *controllerFixture, deps *Deps) {
			deps.AutoStart = true
		})

		assert.True(t, f.controller.TryStart())
		assert.Equal(t, 1, f.backendStarts)
	})

	t.Run("setup incomplete without auto start does nothing", func(t *testing.T) {
		f := newControllerFixtureWith(nil)

		assert.False(t, f.controller.TryStart())
		assert.Equal(t, 0, f.backendStarts)
		assert.Equal(t, "Not started", f.controller.BackendInitializationStateString())
	})

	t.Run("repeated try start does not restart the backend", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.controller.SetSetupInProgress(true)

		assert.True(t, f.controller.TryStart())
		assert.True(t, f.controller.TryStart())
		assert.Equal(t, 1, f.backendStarts)
	})
}

func TestReset(t *testing.T) {
	t.Run("clears state and invalidates the pending timer", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())

		staleGeneration := f.controller.generation
		f.controller.Reset()

		assert.Equal(t, "Not started", f.controller.BackendInitializationStateString())
		assert.Nil(t, f.controller.timer)

		// A timer scheduled before the reset must land as a no-op.
		f.controller.fallbackTimerFired(staleGeneration)
		assert.Equal(t, 0, f.backendStarts)
	})

	t.Run("failed try after reset leaves timestamps unset", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())
		f.controller.Reset()

		f.tokens.available = false
		assert.False(t, f.controller.TryStart())
		assert.True(t, f.controller.startUpTime.IsZero())
		assert.True(t, f.controller.startBackendTime.IsZero())
	})

	t.Run("controller is reusable after reset", func(t *testing.T) {
		f := newControllerFixtureWith(nil)
		f.prefs.SetSyncSetupCompleted(true)
		require.False(t, f.controller.TryStart())
		f.controller.OnFallbackStartupTimerExpired()
		require.Equal(t, 1, f.backendStarts)

		f.controller.Reset()
		require.False(t, f.controller.TryStart())
		assert.Equal(t, "Deferred", f.controller.BackendInitializationStateString())

		f.controller.OnDataTypeRequestsSyncStartup(models.Preferences)
		assert.Equal(t, 2, f.backendStarts)
	})
}
