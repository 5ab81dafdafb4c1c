package melody

import "sort"

// Built-in melodies, compiled once at DefaultTempo.
var (
	// Scale is the rising scale played while pouring; its prefix length
	// tracks the number of shots.
	Scale = Compile(steps(
		C4, Eighth, D4, Eighth, E4, Eighth, F4, Eighth, G4, Eighth, A4, Eighth,
		B4, Eighth, C5, Eighth, D5, Eighth, E5, Eighth, F5, Eighth, G5, Eighth,
	), DefaultTempo)

	ConfirmSelection = Compile(steps(G4, Sixteenth, C5, Eighth), DefaultTempo)

	Error = Compile(steps(E4, Eighth, C4, Quarter), DefaultTempo)

	ModeSwitch = Compile(steps(
		C5, Sixteenth, G4, Sixteenth, E4, Sixteenth, C4, Eighth,
	), DefaultTempo)

	Beethoven5 = Compile(steps(G4, Eighth, G4, Eighth, G4, Eighth, Eb4, Half), DefaultTempo)

	Beethoven9 = Compile(steps(
		E4, Quarter, E4, Quarter, F4, Quarter, G4, Quarter,
		G4, Quarter, F4, Quarter, E4, Quarter, D4, Quarter,
		C4, Quarter, C4, Quarter, D4, Quarter, E4, Quarter,
		D4, Half, C4, Eighth, C4, Half,
	), DefaultTempo)

	Twinkle = Compile(steps(
		C4, Quarter, C4, Quarter, G4, Quarter, G4, Quarter, A4, Quarter, A4, Quarter, G4, Half,
	), DefaultTempo)

	Fanfare = Compile(steps(
		G4, Sixteenth, G4, Sixteenth, G4, Sixteenth, C5, Half,
	), DefaultTempo)

	RouletteSelected = Compile(steps(G4, Eighth, E4, Eighth, C4, Half), DefaultTempo)

	RouletteNotSelected = Compile(steps(C5, Sixteenth, E5, Sixteenth), DefaultTempo)

	ReactionGameBegins = Compile(steps(
		C4, Quarter, Rest, Quarter, C4, Quarter, Rest, Quarter, G4, Half,
	), DefaultTempo)

	ReactionWaitForReaction = Compile(steps(C5, Half), DefaultTempo)

	ReactionTeamWon = Compile(steps(C5, Eighth, E5, Eighth, G5, Quarter), DefaultTempo)

	ReactionEarlyStart = Compile(steps(C4, Eighth, Rest, Sixteenth, C4, Eighth, Rest, Sixteenth, C4, Half), DefaultTempo)

	// ReactionPlayer identifies the fouling player by index: one, two or
	// three beeps, followed by a pause so repeated plays stay countable.
	ReactionPlayer = [3]Melody{
		Compile(steps(A4, Eighth, Rest, Whole), DefaultTempo),
		Compile(steps(A4, Eighth, A4, Eighth, Rest, Whole), DefaultTempo),
		Compile(steps(A4, Eighth, A4, Eighth, A4, Eighth, Rest, Whole), DefaultTempo),
	}
)

// Named is a built-in melody with a stable file-friendly name.
type Named struct {
	Name   string
	Melody Melody
}

// Library returns every built-in melody sorted by name.
func Library() []Named {
	lib := []Named{
		{"scale", Scale},
		{"confirm-selection", ConfirmSelection},
		{"error", Error},
		{"mode-switch", ModeSwitch},
		{"beethoven-5", Beethoven5},
		{"beethoven-9", Beethoven9},
		{"twinkle", Twinkle},
		{"fanfare", Fanfare},
		{"roulette-selected", RouletteSelected},
		{"roulette-not-selected", RouletteNotSelected},
		{"reaction-game-begins", ReactionGameBegins},
		{"reaction-wait-for-reaction", ReactionWaitForReaction},
		{"reaction-team-won", ReactionTeamWon},
		{"reaction-early-start", ReactionEarlyStart},
		{"reaction-player-0", ReactionPlayer[0]},
		{"reaction-player-1", ReactionPlayer[1]},
		{"reaction-player-2", ReactionPlayer[2]},
	}
	sort.Slice(lib, func(i, j int) bool { return lib[i].Name < lib[j].Name })
	return lib
}

// Lookup returns the built-in melody called name.
func Lookup(name string) (Melody, bool) {
	for _, n := range Library() {
		if n.Name == name {
			return n.Melody, true
		}
	}
	return nil, false
}
