package melody

import (
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	midiChannel     = 0
	midiVelocity    = 100
)

// WriteMIDI writes m as a two-track Standard MIDI File: a tempo track and a
// note track. Rests and gaps become delta time between notes.
func WriteMIDI(w io.Writer, m Melody, bpm float64) error {
	if bpm <= 0 {
		return errors.Errorf("invalid tempo %v", bpm)
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return errors.Wrap(err, "add tempo track")
	}

	var notes smf.Track
	var delta uint32
	for _, n := range m {
		sound, gap := ticks(n.Sound, bpm), ticks(n.Gap, bpm)
		if n.Freq.IsSilence() {
			delta += sound + gap
			continue
		}
		key := n.Freq.MIDIKey()
		notes.Add(delta, midi.NoteOn(midiChannel, key, midiVelocity))
		notes.Add(sound, midi.NoteOff(midiChannel, key))
		delta = gap
	}
	notes.Close(delta)
	if err := sm.Add(notes); err != nil {
		return errors.Wrap(err, "add note track")
	}

	if _, err := sm.WriteTo(w); err != nil {
		return errors.Wrap(err, "write midi")
	}
	return nil
}

// ticks converts d to MIDI ticks at bpm.
func ticks(d time.Duration, bpm float64) uint32 {
	beats := d.Seconds() * bpm / 60
	return uint32(math.Round(beats * ticksPerQuarter))
}
