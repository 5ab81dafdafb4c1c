package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/shotbox/internal/hardware"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Program       string     `json:"program"`
	Phase         string     `json:"phase,omitempty"`
	Selecting     bool       `json:"selecting"`
	Outputs       OutputJSON `json:"outputs"`
	Queue         QueueJSON  `json:"queue"`
	Ticks         uint64     `json:"ticks"`
	ClockMs       int64      `json:"clock_ms"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Game          GameJSON   `json:"game"`
	Config        ConfigJSON `json:"config"`
}

// OutputJSON reports the physical outputs.
type OutputJSON struct {
	Relay     bool      `json:"relay"`
	SpeakerHz float64   `json:"speaker_hz"`
	Lamps     []float64 `json:"lamps"`
}

// QueueJSON reports the scheduler queue.
type QueueJSON struct {
	Pending int  `json:"pending"`
	Dropped int  `json:"dropped"`
	Barrier bool `json:"barrier"`
}

// GameJSON is the JSON representation of the game configuration.
type GameJSON struct {
	Players                 int     `json:"players"`
	ShotMs                  int64   `json:"shot_ms"`
	LossProbability         float64 `json:"loss_probability"`
	RouletteMinShots        int     `json:"roulette_min_shots"`
	RouletteMaxShots        int     `json:"roulette_max_shots"`
	ReactionLoserShots      int     `json:"reaction_loser_shots"`
	ReactionEarlyStartShots int     `json:"reaction_early_start_shots"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Driver      string `json:"driver"`
	TickMs      int64  `json:"tick_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
}

func buildInner(snap Snapshot) StatusInner {
	program := snap.Program
	if program == "" {
		program = "UNKNOWN"
	}
	lamps := make([]float64, 0, hardware.NumLamps)
	lamps = append(lamps, snap.Lamps[:]...)

	g := snap.Game
	return StatusInner{
		Program:   program,
		Phase:     snap.Phase,
		Selecting: snap.Selecting,
		Outputs: OutputJSON{
			Relay:     snap.Relay,
			SpeakerHz: float64(snap.Speaker),
			Lamps:     lamps,
		},
		Queue: QueueJSON{
			Pending: snap.Pending,
			Dropped: snap.Dropped,
			Barrier: snap.Barrier,
		},
		Ticks:         snap.Ticks,
		ClockMs:       snap.Clock.Milliseconds(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Game: GameJSON{
			Players:                 g.NumPlayers,
			ShotMs:                  g.ShotDuration.Milliseconds(),
			LossProbability:         g.LossProbability,
			RouletteMinShots:        g.RouletteMinShots,
			RouletteMaxShots:        g.RouletteMaxShots,
			ReactionLoserShots:      g.ReactionLoserShots,
			ReactionEarlyStartShots: g.ReactionEarlyStartShots,
		},
		Config: ConfigJSON{
			Driver:      snap.Config.Driver,
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
		},
	}
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for a lifecycle log
// line (startup, heartbeat, shutdown).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
