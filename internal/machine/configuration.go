package machine

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned by Configure for a value outside the variable's
// accepted range.
var ErrOutOfRange = errors.New("value out of range")

// Configuration holds the tunable game parameters. It lives only in memory
// and starts from DefaultConfiguration on every run.
type Configuration struct {
	NumPlayers              int
	ShotDuration            time.Duration
	LossProbability         float64
	RouletteMinShots        int
	RouletteMaxShots        int
	ReactionLoserShots      int
	ReactionEarlyStartShots int
}

// DefaultConfiguration returns the power-on configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		NumPlayers:              2,
		ShotDuration:            700 * time.Millisecond,
		LossProbability:         0.1,
		RouletteMinShots:        4,
		RouletteMaxShots:        10,
		ReactionLoserShots:      5,
		ReactionEarlyStartShots: 10,
	}
}

// RouletteShots returns the roulette shot range. A minimum above the
// maximum is treated as the maximum too.
func (c Configuration) RouletteShots() (lo, hi int) {
	return c.RouletteMinShots, max(c.RouletteMinShots, c.RouletteMaxShots)
}

// Variable identifies one tunable parameter of Configuration.
type Variable uint8

const (
	DelayPerShot Variable = iota + 1
	LossProbabilityPercent
	RouletteMinShots
	RouletteMaxShots
	NumberOfPlayers
	ReactionLoserShots
	ReactionEarlyStartShots
)

var variableInfo = map[Variable]struct {
	name   string
	lo, hi int
}{
	DelayPerShot:            {"delay-per-shot-ms", 100, 2000},
	LossProbabilityPercent:  {"loss-probability-percent", 0, 100},
	RouletteMinShots:        {"roulette-min-shots", 1, 80},
	RouletteMaxShots:        {"roulette-max-shots", 1, 80},
	NumberOfPlayers:         {"players", 1, 9},
	ReactionLoserShots:      {"reaction-loser-shots", 1, 80},
	ReactionEarlyStartShots: {"reaction-early-start-shots", 1, 80},
}

// VariableForDigit maps a selector digit to a variable. Digits 0, 8 and 9
// select nothing.
func VariableForDigit(d int) (Variable, bool) {
	if d < 0 || d > 255 {
		return 0, false
	}
	v := Variable(d)
	_, ok := variableInfo[v]
	return v, ok
}

// Range returns the inclusive range of accepted values.
func (v Variable) Range() (lo, hi int) {
	info := variableInfo[v]
	return info.lo, info.hi
}

func (v Variable) String() string {
	if info, ok := variableInfo[v]; ok {
		return info.name
	}
	return fmt.Sprintf("variable(%d)", uint8(v))
}

// Value returns the current setting of v in the units Configure accepts.
func (c Configuration) Value(v Variable) int {
	switch v {
	case DelayPerShot:
		return int(c.ShotDuration / time.Millisecond)
	case LossProbabilityPercent:
		return int(c.LossProbability*100 + 0.5)
	case RouletteMinShots:
		return c.RouletteMinShots
	case RouletteMaxShots:
		return c.RouletteMaxShots
	case NumberOfPlayers:
		return c.NumPlayers
	case ReactionLoserShots:
		return c.ReactionLoserShots
	case ReactionEarlyStartShots:
		return c.ReactionEarlyStartShots
	}
	return 0
}

func (c *Configuration) set(v Variable, value int) {
	switch v {
	case DelayPerShot:
		c.ShotDuration = time.Duration(value) * time.Millisecond
	case LossProbabilityPercent:
		c.LossProbability = float64(value) / 100
	case RouletteMinShots:
		c.RouletteMinShots = value
	case RouletteMaxShots:
		c.RouletteMaxShots = value
	case NumberOfPlayers:
		c.NumPlayers = value
	case ReactionLoserShots:
		c.ReactionLoserShots = value
	case ReactionEarlyStartShots:
		c.ReactionEarlyStartShots = value
	}
}
