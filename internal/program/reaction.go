package program

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

const (
	minFireDelay = 5 * time.Second
	maxFireDelay = 15 * time.Second

	penaltyFlashTransition = 500 * time.Millisecond
	penaltyFlashOn         = 200 * time.Millisecond

	maxReactionPlayers = 6
	playersPerTeam     = 3
)

// Team is one side of the reaction game.
type Team int

const (
	TeamLeft Team = iota
	TeamRight
)

func (t Team) String() string {
	if t == TeamRight {
		return "right"
	}
	return "left"
}

// Other returns the opposing team.
func (t Team) Other() Team {
	return 1 - t
}

// Lamp returns the lamp on the team's side.
func (t Team) Lamp() hardware.Lamp {
	if t == TeamRight {
		return hardware.LampRight
	}
	return hardware.LampLeft
}

// teamButtons lists each team's switches by player index.
var teamButtons = [2][playersPerTeam]input.Switch{
	TeamLeft:  {input.Number1, input.Number4, input.Number7},
	TeamRight: {input.Number3, input.Number6, input.Number9},
}

// Reason is why a team has to drink.
type Reason int

const (
	SlowReaction Reason = iota
	EarlyStart
)

func (r Reason) String() string {
	if r == EarlyStart {
		return "early-start"
	}
	return "slow-reaction"
}

type reactionPhase int

const (
	waitForStart reactionPhase = iota
	waitForTiming
	waitForAllButtonPresses
	waitForGlass
)

func (p reactionPhase) String() string {
	switch p {
	case waitForTiming:
		return "wait-for-timing"
	case waitForAllButtonPresses:
		return "wait-for-all-button-presses"
	case waitForGlass:
		return "wait-for-glass"
	}
	return "wait-for-start"
}

// ReactionTester is a team game. Everyone holds their switch to start, lets
// go, and after a random delay the first team whose players have all
// pressed again wins. Pressing before the signal is an early start.
type ReactionTester struct {
	logger zerolog.Logger
	rng    *rand.Rand
	sizes  [2]int

	phase   reactionPhase
	fireAt  time.Duration
	pressed [2][playersPerTeam]bool

	// Set in waitForGlass.
	penalized Team
	reason    Reason
	offender  int
}

// NewReactionTester splits the configured players between the teams, the
// left team getting the smaller half, and seeds the game from the clock.
func NewReactionTester(m *machine.Machine, logger zerolog.Logger) *ReactionTester {
	n := min(max(m.Config().NumPlayers, 0), maxReactionPlayers)
	return &ReactionTester{
		logger: logger,
		rng:    m.NewRand(),
		sizes:  [2]int{n / 2, n - n/2},
	}
}

func (r *ReactionTester) Phase() string {
	return r.phase.String()
}

// players calls fn for every active player, left team first.
func (r *ReactionTester) players(fn func(t Team, index int, button input.Switch) bool) {
	for _, t := range []Team{TeamLeft, TeamRight} {
		for i := 0; i < r.sizes[t]; i++ {
			if !fn(t, i, teamButtons[t][i]) {
				return
			}
		}
	}
}

func (r *ReactionTester) Update(m *machine.Machine, in input.State) {
	switch r.phase {
	case waitForStart:
		r.waitForStart(m, in)
	case waitForTiming:
		r.waitForTiming(m, in)
	case waitForAllButtonPresses:
		r.waitForAllButtonPresses(m, in)
	case waitForGlass:
		r.waitForGlass(m, in)
	}
}

func (r *ReactionTester) waitForStart(m *machine.Machine, in input.State) {
	ready := true
	r.players(func(_ Team, _ int, b input.Switch) bool {
		ready = in.Pressed(b)
		return ready
	})
	if !ready {
		return
	}
	delay := minFireDelay + time.Duration(r.rng.Int64N(int64(maxFireDelay-minFireDelay)/int64(time.Millisecond)))*time.Millisecond
	r.fireAt = m.Now() + delay
	r.phase = waitForTiming
	m.PlayMelody(melody.ReactionGameBegins)
	m.RaiseBarrier()
	r.logger.Info().Dur("delay", delay).Msg("game begins")
}

func (r *ReactionTester) waitForTiming(m *machine.Machine, in input.State) {
	fouled := false
	r.players(func(t Team, i int, b input.Switch) bool {
		if !in.Pressed(b) {
			return true
		}
		fouled = true
		r.enterGlass(t.Other(), EarlyStart, i)
		r.logger.Info().Stringer("team", t).Int("player", i).Msg("early start")
		return false
	})
	if fouled {
		m.PlayMelody(melody.ReactionEarlyStart)
		m.RaiseBarrier()
		return
	}

	if m.Now() > r.fireAt {
		r.pressed = [2][playersPerTeam]bool{}
		r.phase = waitForAllButtonPresses
		m.PlayMelody(melody.ReactionWaitForReaction)
		m.RaiseBarrier()
	}
}

func (r *ReactionTester) waitForAllButtonPresses(m *machine.Machine, in input.State) {
	r.players(func(t Team, i int, b input.Switch) bool {
		if in.Pressed(b) {
			r.pressed[t][i] = true
		}
		return true
	})

	for _, t := range []Team{TeamLeft, TeamRight} {
		if r.teamDone(t) {
			r.enterGlass(t.Other(), SlowReaction, 0)
			m.PlayMelody(melody.ReactionTeamWon)
			m.RaiseBarrier()
			r.logger.Info().Stringer("team", t).Msg("team won")
			return
		}
	}
}

// teamDone reports whether every player of a non-empty team has pressed.
func (r *ReactionTester) teamDone(t Team) bool {
	if r.sizes[t] == 0 {
		return false
	}
	for i := 0; i < r.sizes[t]; i++ {
		if !r.pressed[t][i] {
			return false
		}
	}
	return true
}

func (r *ReactionTester) enterGlass(t Team, reason Reason, offender int) {
	r.phase = waitForGlass
	r.penalized = t
	r.reason = reason
	r.offender = offender
}

func (r *ReactionTester) waitForGlass(m *machine.Machine, in input.State) {
	if m.NoOngoingTransition() {
		m.FlashLED(r.penalized.Lamp(), penaltyFlashTransition, penaltyFlashOn)
	}
	if r.reason == EarlyStart && m.NoSoundQueued() {
		m.PlayMelody(melody.ReactionPlayer[r.offender])
	}
	if !in.AnythingJustPressed() {
		return
	}

	shots := m.Config().ReactionLoserShots
	if r.reason == EarlyStart {
		shots = m.Config().ReactionEarlyStartShots
	}
	m.PourWithMelody(shots)
	m.RaiseBarrier()
	r.phase = waitForStart
	r.logger.Info().Stringer("team", r.penalized).Stringer("reason", r.reason).Int("shots", shots).Msg("pouring")
}

func (r *ReactionTester) CleanupBeforeSwitch(*machine.Machine) {}
