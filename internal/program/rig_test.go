package program

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
)

const (
	ms   = time.Millisecond
	step = 5 * ms
)

// rig drives a program through machine ticks on a fake clock.
type rig struct {
	t  *testing.T
	m  *machine.Machine
	hw *hardware.Fake
	in input.State
	p  machine.Program
}

func newRig(t *testing.T, build func(m *machine.Machine) machine.Program) *rig {
	t.Helper()
	m := machine.New(machine.DefaultConfiguration(), zerolog.Nop())
	return &rig{
		t:  t,
		m:  m,
		hw: hardware.NewFake(),
		in: input.NewState(),
		p:  build(m),
	}
}

// tick advances the clock by one step and runs the loop once.
func (r *rig) tick() {
	r.hw.Advance(step)
	r.in = r.m.Tick(r.hw, r.in, r.p)
}

func (r *rig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.tick()
	}
}

// press holds switches and ticks once, returning the time of that tick.
func (r *rig) press(s ...input.Switch) time.Duration {
	r.hw.Press(s...)
	r.tick()
	return r.hw.Now
}

func (r *rig) release(s ...input.Switch) {
	r.hw.Release(s...)
	r.tick()
}

// tap presses and releases a switch.
func (r *rig) tap(s input.Switch) time.Duration {
	at := r.press(s)
	r.release(s)
	return at
}

// settle ticks until the barrier is down and the program runs again.
func (r *rig) settle() {
	r.t.Helper()
	for i := 0; r.m.BarrierRaised(); i++ {
		if i > 100_000 {
			r.t.Fatal("barrier never cleared")
		}
		r.tick()
	}
}

// runFor ticks for d.
func (r *rig) runFor(d time.Duration) {
	r.ticks(int(d / step))
}

// eventsAt returns the recorded events of kind at exactly at.
func (r *rig) eventsAt(kind hardware.OutputKind, at time.Duration) []hardware.Event {
	var out []hardware.Event
	for _, e := range r.hw.EventsOf(kind) {
		if e.At == at {
			out = append(out, e)
		}
	}
	return out
}
