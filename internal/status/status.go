// Package status provides a thread-safe snapshot of the machine for readers
// outside the control loop, such as the heartbeat logger.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/machine"
)

// Config contains daemon configuration for display.
type Config struct {
	Driver      string
	TickMs      int64
	HeartbeatMs int64
}

// Snapshot is a point-in-time view of the machine.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Program   string
	Phase     string
	Selecting bool

	Relay   bool
	Speaker hardware.Frequency
	Lamps   [hardware.NumLamps]float64

	Pending int
	Dropped int
	Barrier bool
	Ticks   uint64
	Clock   time.Duration

	Game machine.Configuration

	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Describer reports what the active program is doing.
type Describer interface {
	Active() string
	Phase() string
	Selecting() bool
}

// Tracker holds the latest snapshot behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Game:      machine.DefaultConfiguration(),
		},
	}
}

// Update copies the machine and program state into the snapshot.
// Called from the control loop after every tick.
func (t *Tracker) Update(m *machine.Machine, d Describer) {
	relay, speaker := m.Outputs()
	var lamps [hardware.NumLamps]float64
	for _, l := range hardware.Lamps() {
		lamps[l] = m.Brightness(l)
	}

	t.mu.Lock()
	t.snap.Program = d.Active()
	t.snap.Phase = d.Phase()
	t.snap.Selecting = d.Selecting()
	t.snap.Relay = relay
	t.snap.Speaker = speaker
	t.snap.Lamps = lamps
	t.snap.Pending = m.Pending()
	t.snap.Dropped = m.Dropped()
	t.snap.Barrier = m.BarrierRaised()
	t.snap.Clock = m.Now()
	t.snap.Game = m.Config()
	t.snap.Ticks++
	t.mu.Unlock()
}

// Observer returns a machine.Run observer that feeds the tracker.
func (t *Tracker) Observer(d Describer) func(*machine.Machine) {
	return func(m *machine.Machine) {
		t.Update(m, d)
	}
}

// Snapshot returns a point-in-time copy of the machine state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
