package program

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

type roulettePhase int

const (
	playerSelection roulettePhase = iota
	awaitingGlass
)

func (p roulettePhase) String() string {
	if p == awaitingGlass {
		return "awaiting-glass"
	}
	return "player-selection"
}

// RussianRoulette gives every player who presses a switch a fixed chance of
// losing. The loser places a glass and gets a random number of shots.
type RussianRoulette struct {
	logger zerolog.Logger
	rng    *rand.Rand
	phase  roulettePhase
}

// NewRussianRoulette seeds the game from the machine clock.
func NewRussianRoulette(m *machine.Machine, logger zerolog.Logger) *RussianRoulette {
	return &RussianRoulette{
		logger: logger,
		rng:    m.NewRand(),
	}
}

func (r *RussianRoulette) Phase() string {
	return r.phase.String()
}

func (r *RussianRoulette) Update(m *machine.Machine, in input.State) {
	switch r.phase {
	case playerSelection:
		if !in.AnythingJustPressed() {
			return
		}
		if lost(r.rng, m.Config().LossProbability) {
			m.PlayMelody(melody.RouletteSelected)
			r.phase = awaitingGlass
			r.logger.Info().Msg("player selected")
		} else {
			m.PlayMelody(melody.RouletteNotSelected)
		}
		m.RaiseBarrier()

	case awaitingGlass:
		if m.NoOngoingTransition() {
			pulseLamps(m)
		}
		if !in.AnythingJustPressed() {
			return
		}
		lo, hi := m.Config().RouletteShots()
		shots := lo + r.rng.IntN(hi-lo+1)
		m.PourWithMelody(shots)
		m.RaiseBarrier()
		r.phase = playerSelection
		r.logger.Info().Int("shots", shots).Msg("pouring")
	}
}

func (r *RussianRoulette) CleanupBeforeSwitch(*machine.Machine) {}

// lost draws one Bernoulli trial with success probability p.
func lost(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
