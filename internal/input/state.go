package input

import (
	"iter"

	"github.com/pkg/errors"
)

// Snapshot holds one level per switch, indexed by Switch.
type Snapshot [NumSwitches]Level

// State is the current snapshot plus the one from the previous tick.
// It is replaced wholesale by Refresh and never mutated in place.
type State struct {
	current  Snapshot
	previous Snapshot
}

// NewState returns a state with every switch released in both snapshots.
func NewState() State {
	return State{}
}

// Refresh samples every switch and returns the next state: the new sample
// becomes current and the old current becomes previous.
// A switch whose read fails is sampled as Released; the first such error is
// returned alongside the (still usable) new state.
func (s State) Refresh(sampler Sampler) (State, error) {
	var next Snapshot
	var firstErr error
	for _, sw := range All() {
		level, err := sampler.ReadSwitch(sw)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "read switch %s", sw)
			}
			level = Released
		}
		next[sw] = level
	}
	return State{current: next, previous: s.current}, firstErr
}

// Current returns the snapshot sampled this tick.
func (s State) Current() Snapshot { return s.current }

// Previous returns the snapshot sampled on the previous tick.
func (s State) Previous() Snapshot { return s.previous }

// Pressed reports whether sw is held this tick.
func (s State) Pressed(sw Switch) bool {
	return s.current[sw] == Pressed
}

// JustPressed reports whether sw is held this tick but was not on the last.
func (s State) JustPressed(sw Switch) bool {
	return s.current[sw] == Pressed && s.previous[sw] == Released
}

// IterPressed yields every held switch in identity order.
func (s State) IterPressed() iter.Seq[Switch] {
	return s.filter(s.Pressed)
}

// IterJustPressed yields every switch pressed this tick, in identity order.
func (s State) IterJustPressed() iter.Seq[Switch] {
	return s.filter(s.JustPressed)
}

func (s State) filter(keep func(Switch) bool) iter.Seq[Switch] {
	return func(yield func(Switch) bool) {
		for _, sw := range All() {
			if keep(sw) && !yield(sw) {
				return
			}
		}
	}
}

// AnythingPressed reports whether any switch is held.
func (s State) AnythingPressed() bool {
	for range s.IterPressed() {
		return true
	}
	return false
}

// AnythingJustPressed reports whether any switch was pressed this tick.
func (s State) AnythingJustPressed() bool {
	for range s.IterJustPressed() {
		return true
	}
	return false
}

// LowestPressedNumberKey returns the lowest digit whose switch was just
// pressed this tick.
func (s State) LowestPressedNumberKey() (int, bool) {
	for sw := range s.IterJustPressed() {
		if n, ok := sw.Num(); ok {
			return n, true
		}
	}
	return 0, false
}
