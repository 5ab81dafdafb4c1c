package program

import (
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

func newReactionRig(t *testing.T, players int) (*rig, *ReactionTester) {
	var rt *ReactionTester
	r := newRig(t, func(m *machine.Machine) machine.Program {
		require.NoError(t, m.Configure(machine.NumberOfPlayers, players))
		rt = NewReactionTester(m, zerolog.Nop())
		return rt
	})
	return r, rt
}

// startRound holds every player's switch, lets go and waits for the start
// melody to finish.
func startRound(t *testing.T, r *rig, rt *ReactionTester, players ...input.Switch) {
	t.Helper()
	r.press(players...)
	require.Equal(t, "wait-for-timing", rt.Phase())
	r.release()
	r.settle()
}

// waitForSignal ticks until the reaction signal has played.
func waitForSignal(t *testing.T, r *rig, rt *ReactionTester) {
	t.Helper()
	for i := 0; rt.phase != waitForAllButtonPresses; i++ {
		require.Less(t, i, int(maxFireDelay/step)+10, "signal never fired")
		r.tick()
	}
	r.settle()
}

func TestReactionTeamSplit(t *testing.T) {
	tests := []struct {
		players     int
		left, right int
	}{
		{1, 0, 1},
		{2, 1, 1},
		{5, 2, 3},
		{6, 3, 3},
		{9, 3, 3},
	}
	for _, tt := range tests {
		_, rt := newReactionRig(t, tt.players)
		assert.Equal(t, [2]int{tt.left, tt.right}, rt.sizes, "%d players", tt.players)
	}
}

func TestReactionNeedsEveryoneReady(t *testing.T) {
	r, rt := newReactionRig(t, 4)

	r.press(input.Number1, input.Number4, input.Number3)
	assert.Equal(t, "wait-for-start", rt.Phase())

	r.press(input.Number6)
	assert.Equal(t, "wait-for-timing", rt.Phase())
	assert.True(t, r.m.BarrierRaised())
}

func TestReactionFireDelayBounds(t *testing.T) {
	hw := hardware.NewFake()
	hw.Press(input.Number1, input.Number3)
	in, err := input.NewState().Refresh(hw)
	require.NoError(t, err)

	for seed := 0; seed < 200; seed++ {
		m := machine.New(machine.DefaultConfiguration(), zerolog.Nop())
		m.Advance(time.Duration(seed*37) * ms)
		rt := NewReactionTester(m, zerolog.Nop())
		rt.Update(m, in)

		delay := rt.fireAt - m.Now()
		assert.GreaterOrEqual(t, delay, minFireDelay)
		assert.Less(t, delay, maxFireDelay)
	}
}

func TestReactionEarlyStart(t *testing.T) {
	r, rt := newReactionRig(t, 2)
	startRound(t, r, rt, input.Number1, input.Number3)

	r.runFor(300 * ms)
	require.Less(t, r.hw.Now, rt.fireAt)
	at := r.press(input.Number1)

	assert.Equal(t, "wait-for-glass", rt.Phase())
	assert.Equal(t, EarlyStart, rt.reason)
	assert.Equal(t, TeamRight, rt.penalized)
	assert.Equal(t, 0, rt.offender)
	cue := r.eventsAt(hardware.OutputSpeaker, at)
	require.NotEmpty(t, cue)
	assert.Equal(t, melody.ReactionEarlyStart[0].Freq, cue[0].Speaker)

	r.settle()
	r.hw.ClearEvents()
	var rightLit, leftLit bool
	for i := 0; i < 300; i++ {
		r.tick()
		rightLit = rightLit || r.hw.Brightness[hardware.LampRight] > 0
		leftLit = leftLit || r.hw.Brightness[hardware.LampLeft] > 0
	}
	assert.True(t, rightLit, "penalized team lamp flashes")
	assert.False(t, leftLit)
	ident := r.hw.EventsOf(hardware.OutputSpeaker)
	require.NotEmpty(t, ident)
	assert.Equal(t, melody.ReactionPlayer[0][0].Freq, ident[0].Speaker)

	r.release(input.Number1)
	r.hw.ClearEvents()
	at = r.press(input.Number9)
	assert.Equal(t, "wait-for-start", rt.Phase())
	r.runFor(8 * time.Second)

	relay := r.hw.EventsOf(hardware.OutputRelay)
	require.Len(t, relay, 2)
	assert.Equal(t, at, relay[0].At)
	assert.Equal(t, at+10*700*ms, relay[1].At, "early start pours the early-start shots")
}

func TestReactionEarlyStartIdentifiesPlayer(t *testing.T) {
	r, rt := newReactionRig(t, 4)
	startRound(t, r, rt, input.Number1, input.Number4, input.Number3, input.Number6)

	r.press(input.Number5)
	assert.Equal(t, "wait-for-timing", rt.Phase(), "non-player switches are ignored")
	r.release()

	r.press(input.Number4)
	assert.Equal(t, "wait-for-glass", rt.Phase())
	assert.Equal(t, TeamRight, rt.penalized)
	assert.Equal(t, 1, rt.offender)
}

func TestReactionRightTeamWins(t *testing.T) {
	r, rt := newReactionRig(t, 2)
	startRound(t, r, rt, input.Number1, input.Number3)
	waitForSignal(t, r, rt)

	at := r.press(input.Number3)
	assert.Equal(t, "wait-for-glass", rt.Phase())
	assert.Equal(t, SlowReaction, rt.reason)
	assert.Equal(t, TeamLeft, rt.penalized)
	cue := r.eventsAt(hardware.OutputSpeaker, at)
	require.NotEmpty(t, cue)
	assert.Equal(t, melody.ReactionTeamWon[0].Freq, cue[0].Speaker)

	r.release()
	r.settle()
	r.hw.ClearEvents()
	at = r.press(input.Number5)
	r.runFor(5 * time.Second)

	relay := r.hw.EventsOf(hardware.OutputRelay)
	require.Len(t, relay, 2)
	assert.Equal(t, at+5*700*ms, relay[1].At, "slow team pours the loser shots")
}

func TestReactionTeamNeedsAllPlayers(t *testing.T) {
	r, rt := newReactionRig(t, 4)
	startRound(t, r, rt, input.Number1, input.Number4, input.Number3, input.Number6)
	waitForSignal(t, r, rt)

	r.tap(input.Number1)
	r.tap(input.Number3)
	assert.Equal(t, "wait-for-all-button-presses", rt.Phase())

	r.tap(input.Number6)
	assert.Equal(t, "wait-for-glass", rt.Phase())
	assert.Equal(t, TeamLeft, rt.penalized)
}

func TestReactionTieGoesLeft(t *testing.T) {
	r, rt := newReactionRig(t, 2)
	startRound(t, r, rt, input.Number1, input.Number3)
	waitForSignal(t, r, rt)

	r.press(input.Number1, input.Number3)
	assert.Equal(t, TeamRight, rt.penalized)
}

func TestReactionSinglePlayer(t *testing.T) {
	r, rt := newReactionRig(t, 1)
	startRound(t, r, rt, input.Number3)
	waitForSignal(t, r, rt)

	r.ticks(5)
	assert.Equal(t, "wait-for-all-button-presses", rt.Phase(), "an empty team never wins")

	r.press(input.Number3)
	assert.Equal(t, TeamLeft, rt.penalized)
}
