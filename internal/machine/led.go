package machine

import "time"

// Ramp is a linear brightness transition anchored at Start. Before Start it
// reads From, after Start+Duration it reads To.
type Ramp struct {
	Start    time.Duration
	From, To float64
	Duration time.Duration
}

// Brightness returns the ramp value at now.
func (r Ramp) Brightness(now time.Duration) float64 {
	switch {
	case now <= r.Start:
		if r.Duration == 0 && now == r.Start {
			return r.To
		}
		return r.From
	case now >= r.Start+r.Duration:
		return r.To
	}
	frac := float64(now-r.Start) / float64(r.Duration)
	return r.From + (r.To-r.From)*frac
}

// Ended reports whether the ramp is over at now. A zero-length ramp ends as
// soon as it starts.
func (r Ramp) Ended(now time.Duration) bool {
	if r.Duration == 0 {
		return now >= r.Start
	}
	return now > r.Start+r.Duration
}
