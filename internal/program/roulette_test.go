package program

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

func newRouletteRig(t *testing.T) (*rig, *RussianRoulette) {
	var rr *RussianRoulette
	r := newRig(t, func(m *machine.Machine) machine.Program {
		rr = NewRussianRoulette(m, zerolog.Nop())
		return rr
	})
	return r, rr
}

func TestLossRateConverges(t *testing.T) {
	const trials = 200_000
	for _, p := range []float64{0.1, 0.5, 0.9} {
		rng := rand.New(rand.NewPCG(42, 1024))
		losses := 0
		for i := 0; i < trials; i++ {
			if lost(rng, p) {
				losses++
			}
		}
		rate := float64(losses) / trials
		tolerance := 5 * math.Sqrt(p*(1-p)/trials)
		assert.InDelta(t, p, rate, tolerance, "p=%v", p)
	}
}

func TestLossEdges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		require.False(t, lost(rng, 0))
		require.True(t, lost(rng, 1))
	}
}

func TestRouletteSelectedPlayerPours(t *testing.T) {
	r, rr := newRouletteRig(t)
	require.NoError(t, r.m.Configure(machine.LossProbabilityPercent, 100))

	at := r.tap(input.Number2)
	assert.Equal(t, "awaiting-glass", rr.Phase())
	cue := r.eventsAt(hardware.OutputSpeaker, at)
	require.NotEmpty(t, cue)
	assert.Equal(t, melody.RouletteSelected[0].Freq, cue[0].Speaker)
	r.settle()

	r.tick()
	assert.False(t, r.m.NoOngoingTransition(), "lamps pulse while waiting for the glass")

	at = r.tap(input.Number7)
	assert.Equal(t, "player-selection", rr.Phase())
	r.runFor(8 * time.Second)

	relay := r.hw.EventsOf(hardware.OutputRelay)
	require.Len(t, relay, 2)
	assert.Equal(t, at, relay[0].At)
	shots := int((relay[1].At - at) / (700 * ms))
	assert.Equal(t, relay[1].At-at, time.Duration(shots)*700*ms)
	assert.GreaterOrEqual(t, shots, 4)
	assert.LessOrEqual(t, shots, 10)
}

func TestRouletteNobodyLoses(t *testing.T) {
	r, rr := newRouletteRig(t)
	require.NoError(t, r.m.Configure(machine.LossProbabilityPercent, 0))

	for i := 0; i < 20; i++ {
		at := r.tap(input.Number(i % 10))
		cue := r.eventsAt(hardware.OutputSpeaker, at)
		require.NotEmpty(t, cue)
		assert.Equal(t, melody.RouletteNotSelected[0].Freq, cue[0].Speaker)
		r.settle()
	}
	assert.Equal(t, "player-selection", rr.Phase())
	assert.Empty(t, r.hw.EventsOf(hardware.OutputRelay))
}

func TestRouletteClampsShotRange(t *testing.T) {
	r, _ := newRouletteRig(t)
	require.NoError(t, r.m.Configure(machine.LossProbabilityPercent, 100))
	require.NoError(t, r.m.Configure(machine.RouletteMinShots, 12))
	require.NoError(t, r.m.Configure(machine.RouletteMaxShots, 3))

	r.tap(input.Left)
	r.settle()
	at := r.tap(input.Right)
	r.runFor(10 * time.Second)

	relay := r.hw.EventsOf(hardware.OutputRelay)
	require.Len(t, relay, 2)
	assert.Equal(t, at+12*700*ms, relay[1].At)
}
