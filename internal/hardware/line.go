package hardware

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/input"
)

// DefaultHold is how long a received line keeps its switch pressed.
const DefaultHold = time.Second

// Line is a host-side stand-in for the switch panel. Each received text
// line ("0".."9", "left", "right") presses that switch for the hold
// duration. Outputs are logged instead of driving pins.
type Line struct {
	lines  <-chan string
	hold   time.Duration
	now    func() time.Time
	start  time.Time
	logger zerolog.Logger

	presses []linePress

	relay      bool
	speaker    Frequency
	brightness [NumLamps]float64
}

type linePress struct {
	at time.Time
	sw input.Switch
}

// LineOption configures a Line.
type LineOption func(*Line)

// WithClock replaces time.Now as the Line's time source.
func WithClock(now func() time.Time) LineOption {
	return func(l *Line) { l.now = now }
}

// NewLine creates a Line fed by lines. A hold of zero uses DefaultHold.
func NewLine(lines <-chan string, hold time.Duration, logger zerolog.Logger, opts ...LineOption) *Line {
	if hold <= 0 {
		hold = DefaultHold
	}
	l := &Line{
		lines:  lines,
		hold:   hold,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.now()
	return l
}

// poll drains pending lines and forgets presses older than the hold.
func (l *Line) poll() {
	now := l.now()
drain:
	for l.lines != nil {
		select {
		case text, ok := <-l.lines:
			if !ok {
				l.lines = nil
				break drain
			}
			sw, valid := input.ParseSwitch(text)
			if !valid {
				l.logger.Warn().Str("line", text).Msg("ignoring unknown switch name")
				continue
			}
			l.logger.Debug().Stringer("switch", sw).Msg("press")
			l.presses = append(l.presses, linePress{at: now, sw: sw})
		default:
			break drain
		}
	}

	kept := l.presses[:0]
	for _, p := range l.presses {
		if now.Sub(p.at) <= l.hold {
			kept = append(kept, p)
		}
	}
	l.presses = kept
}

// ReadSwitch reports s as pressed while a line naming it is within the hold.
func (l *Line) ReadSwitch(s input.Switch) (input.Level, error) {
	l.poll()
	for _, p := range l.presses {
		if p.sw == s {
			return input.Pressed, nil
		}
	}
	return input.Released, nil
}

// SetLEDBrightness logs brightness changes at trace level.
func (l *Line) SetLEDBrightness(lamp Lamp, brightness float64) error {
	if l.brightness[lamp] != brightness {
		l.brightness[lamp] = brightness
		l.logger.Trace().Stringer("lamp", lamp).Float64("brightness", brightness).Msg("lamp")
	}
	return nil
}

// SetRelay logs relay changes.
func (l *Line) SetRelay(on bool) error {
	if l.relay != on {
		l.relay = on
		l.logger.Info().Bool("on", on).Msg("relay")
	}
	return nil
}

// SetSpeaker logs speaker changes.
func (l *Line) SetSpeaker(f Frequency) error {
	if l.speaker != f {
		l.speaker = f
		l.logger.Info().Stringer("frequency", f).Msg("speaker")
	}
	return nil
}

// Elapsed returns the time since the Line was created.
func (l *Line) Elapsed() time.Duration {
	return l.now().Sub(l.start)
}

// ReadLines scans r line by line and sends every line to out until r is
// exhausted or ctx is canceled. A blocked read is only interrupted by
// closing r.
func ReadLines(ctx context.Context, r io.Reader, out chan<- string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "read lines")
	}
	return ctx.Err()
}
