// Package machine is the cooperative action scheduler. Programs decide what
// should happen; the machine turns those decisions into timed hardware
// commands and plays them out without ever blocking the control loop.
//
// A tick samples the clock and switches, runs the active program (unless
// the barrier is up), dispatches every due command in queue order and
// finally pushes lamp brightness from the running ramps.
package machine

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/melody"
)

// MaxPending bounds the command queue. Commands beyond it are dropped.
const MaxPending = 1024

// Program is one interchangeable behaviour of the machine.
type Program interface {
	// Update runs once per tick while the barrier is down.
	Update(m *Machine, in input.State)
	// CleanupBeforeSwitch runs when the program is about to be replaced.
	CleanupBeforeSwitch(m *Machine)
}

type scheduled struct {
	due time.Duration
	cmd Command
}

// Machine owns the clock, the command queue, the barrier, the lamp ramps
// and the game configuration.
type Machine struct {
	logger zerolog.Logger

	now     time.Duration
	queue   []scheduled
	barrier bool
	dropped int

	ramps   [hardware.NumLamps]Ramp
	relay   bool
	speaker hardware.Frequency

	config Configuration
}

// New creates a machine at time zero with an empty queue.
func New(config Configuration, logger zerolog.Logger) *Machine {
	return &Machine{
		logger: logger,
		config: config,
	}
}

// Now returns the time sampled at the start of the current tick.
func (m *Machine) Now() time.Duration {
	return m.now
}

// Advance sets the current time. The clock never moves backwards.
func (m *Machine) Advance(now time.Duration) {
	if now < m.now {
		m.logger.Warn().Dur("now", now).Dur("previous", m.now).Msg("clock went backwards, holding")
		return
	}
	m.now = now
}

// EnqueueIn schedules cmd to be dispatched delay after now. It panics on a
// negative delay or a due time that does not fit in a time.Duration.
func (m *Machine) EnqueueIn(delay time.Duration, cmd Command) {
	if delay < 0 {
		panic("machine: negative delay")
	}
	if delay > math.MaxInt64-m.now {
		panic("machine: due time overflows")
	}
	if len(m.queue) >= MaxPending {
		m.dropped++
		m.logger.Warn().
			Stringer("cmd", cmd).
			Int("pending", len(m.queue)).
			Msg("command queue full, dropping command")
		return
	}
	m.queue = append(m.queue, scheduled{due: m.now + delay, cmd: cmd})
}

// Flush dispatches every due command in the order it was enqueued and keeps
// the rest. Hardware errors are logged and do not stop the flush.
func (m *Machine) Flush(hw hardware.Interface) {
	kept := m.queue[:0]
	var due []scheduled
	for _, s := range m.queue {
		if s.due <= m.now {
			due = append(due, s)
		} else {
			kept = append(kept, s)
		}
	}
	// Zero the tail so dispatched commands are not retained.
	clear(m.queue[len(kept):])
	m.queue = kept

	for _, s := range due {
		m.logger.Debug().Stringer("cmd", s.cmd).Dur("due", s.due).Dur("now", m.now).Msg("dispatch")
		if err := s.cmd.dispatch(m, hw); err != nil {
			m.logger.Warn().Err(err).Stringer("cmd", s.cmd).Msg("hardware write failed")
		}
	}
}

// Clear drops every pending command.
func (m *Machine) Clear() {
	clear(m.queue)
	m.queue = m.queue[:0]
}

// Pending returns the number of queued commands.
func (m *Machine) Pending() int {
	return len(m.queue)
}

// Dropped returns how many commands were rejected by the queue bound.
func (m *Machine) Dropped() int {
	return m.dropped
}

// RaiseBarrier suspends program updates until the queue has drained.
func (m *Machine) RaiseBarrier() {
	m.barrier = true
}

// BarrierRaised reports whether program updates are suspended.
func (m *Machine) BarrierRaised() bool {
	return m.barrier
}

// Outputs returns the last relay and speaker states dispatched.
func (m *Machine) Outputs() (relay bool, speaker hardware.Frequency) {
	return m.relay, m.speaker
}

// Config returns a copy of the live configuration.
func (m *Machine) Config() Configuration {
	return m.config
}

// Configure sets v to value. Values outside v's range are rejected with an
// error wrapping ErrOutOfRange and leave the configuration unchanged.
func (m *Machine) Configure(v Variable, value int) error {
	if _, ok := variableInfo[v]; !ok {
		return errors.Errorf("unknown variable %d", uint8(v))
	}
	lo, hi := v.Range()
	if value < lo || value > hi {
		return errors.Wrapf(ErrOutOfRange, "%s: %d not in %d..%d", v, value, lo, hi)
	}
	m.config.set(v, value)
	m.logger.Info().Stringer("variable", v).Int("value", value).Msg("configuration changed")
	return nil
}

// NewRand returns a generator seeded from the current time.
func (m *Machine) NewRand() *rand.Rand {
	seed := uint64(m.now / time.Millisecond)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SetRelay switches the relay now.
func (m *Machine) SetRelay(on bool) {
	m.EnqueueIn(0, RelayCommand{On: on})
}

// SetSpeaker sets the speaker frequency now.
func (m *Machine) SetSpeaker(f hardware.Frequency) {
	m.EnqueueIn(0, SpeakerCommand{Freq: f})
}

// Pour runs the pump for n shots.
func (m *Machine) Pour(n int) {
	m.EnqueueIn(0, RelayCommand{On: true})
	m.EnqueueIn(time.Duration(n)*m.config.ShotDuration, RelayCommand{On: false})
}

// PourWithMelody pours n shots while playing the first n notes of the scale.
func (m *Machine) PourWithMelody(n int) {
	m.Pour(n)
	m.PlayMelody(melody.Scale.Prefix(n))
}

// PlayMelody schedules every note of mel from now and returns the offset at
// which the melody is over.
func (m *Machine) PlayMelody(mel melody.Melody) time.Duration {
	var offset time.Duration
	for _, n := range mel {
		m.EnqueueIn(offset, SpeakerCommand{Freq: n.Freq})
		m.EnqueueIn(offset+n.Sound, SpeakerCommand{Freq: hardware.Silence})
		offset += n.Total()
	}
	return offset
}

// FlashLED ramps lamp up over transition, holds it for on, then ramps it
// back down over transition.
func (m *Machine) FlashLED(lamp hardware.Lamp, transition, on time.Duration) {
	m.EnqueueIn(0, LEDRampCommand{Lamp: lamp, From: 0, To: 1, Duration: transition})
	m.EnqueueIn(transition+on, LEDRampCommand{Lamp: lamp, From: 1, To: 0, Duration: transition})
}

// StartRamp replaces the ramp of lamp with one starting now.
func (m *Machine) StartRamp(lamp hardware.Lamp, from, to float64, d time.Duration) {
	m.ramps[lamp] = Ramp{Start: m.now, From: from, To: to, Duration: d}
	m.logger.Debug().Stringer("lamp", lamp).Float64("from", from).Float64("to", to).Dur("duration", d).Msg("ramp")
}

// Brightness returns the current brightness of lamp.
func (m *Machine) Brightness(lamp hardware.Lamp) float64 {
	return m.ramps[lamp].Brightness(m.now)
}

// NoOngoingTransition reports whether both lamp ramps are over and no lamp
// command is waiting in the queue.
func (m *Machine) NoOngoingTransition() bool {
	for _, r := range m.ramps {
		if !r.Ended(m.now) {
			return false
		}
	}
	for _, s := range m.queue {
		if _, ok := s.cmd.(LEDRampCommand); ok {
			return false
		}
	}
	return true
}

// NoSoundQueued reports whether no speaker command is waiting in the queue.
func (m *Machine) NoSoundQueued() bool {
	for _, s := range m.queue {
		if _, ok := s.cmd.(SpeakerCommand); ok {
			return false
		}
	}
	return true
}

// Tick runs one iteration of the control loop and returns the refreshed
// input state for the next one.
func (m *Machine) Tick(hw hardware.Interface, in input.State, p Program) input.State {
	m.Advance(hw.Elapsed())

	in, err := in.Refresh(hw)
	if err != nil {
		m.logger.Warn().Err(err).Msg("switch read error")
	}

	if m.barrier {
		m.barrier = len(m.queue) > 0
	} else {
		p.Update(m, in)
	}

	m.Flush(hw)

	for _, l := range hardware.Lamps() {
		if err := hw.SetLEDBrightness(l, m.Brightness(l)); err != nil {
			m.logger.Warn().Err(err).Stringer("lamp", l).Msg("lamp write failed")
		}
	}
	return in
}

// Run ticks until ctx is canceled. With a nil tick channel it loops as fast
// as the hardware allows; otherwise it ticks once per received value.
// Observers are called after every tick. On return the queue is dropped
// and every output is switched off.
func (m *Machine) Run(ctx context.Context, hw hardware.Interface, p Program, tick <-chan time.Time, observers ...func(*Machine)) error {
	in := input.NewState()
	defer m.Halt(hw)

	for {
		if tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		in = m.Tick(hw, in, p)
		for _, o := range observers {
			o(m)
		}
	}
}

// Halt drops the queue and switches every output off immediately.
func (m *Machine) Halt(hw hardware.Interface) {
	m.Clear()
	m.barrier = false
	for _, l := range hardware.Lamps() {
		m.ramps[l] = Ramp{Start: m.now}
	}
	m.EnqueueIn(0, RelayCommand{On: false})
	m.EnqueueIn(0, SpeakerCommand{Freq: hardware.Silence})
	m.Flush(hw)
	for _, l := range hardware.Lamps() {
		if err := hw.SetLEDBrightness(l, 0); err != nil {
			m.logger.Warn().Err(err).Stringer("lamp", l).Msg("lamp write failed")
		}
	}
	m.logger.Info().Msg("outputs halted")
}
