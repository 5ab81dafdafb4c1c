package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/status"
)

func TestSignalName(t *testing.T) {
	tests := []struct {
		sig  os.Signal
		want string
	}{
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGTERM, "SIGTERM"},
		{syscall.SIGHUP, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := signalName(tt.sig); got != tt.want {
			t.Errorf("signalName(%v): got %q, want %q", tt.sig, got, tt.want)
		}
	}
}

func TestPrintSwitches(t *testing.T) {
	hw := hardware.NewFake()
	hw.Press(input.Number(3), input.Right)

	var buf bytes.Buffer
	if err := printSwitches(&buf, hw); err != nil {
		t.Fatalf("printSwitches: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != input.NumSwitches {
		t.Fatalf("got %d lines, want %d", len(lines), input.NumSwitches)
	}
	if lines[3] != "3: pressed" {
		t.Errorf("line 3: got %q", lines[3])
	}
	if lines[0] != "0: released" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[11] != "right: pressed" {
		t.Errorf("line 11: got %q", lines[11])
	}
}

func TestPrintSwitchesReadError(t *testing.T) {
	hw := hardware.NewFake()
	hw.ReadError = os.ErrClosed

	var buf bytes.Buffer
	if err := printSwitches(&buf, hw); err == nil {
		t.Fatal("expected error")
	}
}

type serveResult struct {
	err error
}

func startServe(t *testing.T, ctx context.Context, hw hardware.Interface, tracker *status.Tracker, logs *bytes.Buffer) (tick, heartbeat chan time.Time, sig chan os.Signal, done chan serveResult) {
	t.Helper()
	tick = make(chan time.Time)
	heartbeat = make(chan time.Time)
	sig = make(chan os.Signal)
	done = make(chan serveResult, 1)
	logger := zerolog.New(zerolog.SyncWriter(logs))
	go func() {
		done <- serveResult{serve(ctx, hw, tracker, logger, tick, heartbeat, sig)}
	}()
	return tick, heartbeat, sig, done
}

func waitServe(t *testing.T, done chan serveResult) error {
	t.Helper()
	select {
	case r := <-done:
		return r.err
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
		return nil
	}
}

func TestServeShutsDownOnSignal(t *testing.T) {
	hw := hardware.NewFake()
	tracker := status.NewTracker(time.Now(), status.Config{Driver: "line"})
	var logs bytes.Buffer

	tick, heartbeat, sig, done := startServe(t, context.Background(), hw, tracker, &logs)
	for i := 0; i < 3; i++ {
		tick <- time.Now()
	}
	heartbeat <- time.Now()
	sig <- syscall.SIGTERM

	if err := waitServe(t, done); err != nil {
		t.Fatalf("serve: %v", err)
	}

	snap := tracker.Snapshot()
	if snap.Ticks != 3 {
		t.Errorf("Ticks: got %d, want 3", snap.Ticks)
	}
	if snap.Program != "simple-pouring" {
		t.Errorf("Program: got %q", snap.Program)
	}

	out := logs.String()
	for _, want := range []string{`"event":"HEARTBEAT"`, `"event":"SHUTDOWN"`, `"reason":"SIGTERM"`, "outputs halted"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
	if strings.Index(out, "HEARTBEAT") > strings.Index(out, "SHUTDOWN") {
		t.Error("heartbeat should be logged before shutdown")
	}

	if hw.Relay || !hw.Speaker.IsSilence() {
		t.Errorf("outputs not halted: relay=%v speaker=%v", hw.Relay, hw.Speaker)
	}
	if hw.Brightness != [hardware.NumLamps]float64{} {
		t.Errorf("lamps not dark: %v", hw.Brightness)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	hw := hardware.NewFake()
	tracker := status.NewTracker(time.Now(), status.Config{})
	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	tick, _, _, done := startServe(t, ctx, hw, tracker, &logs)
	tick <- time.Now()
	cancel()

	if err := waitServe(t, done); err != nil {
		t.Fatalf("serve: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, `"event":"SHUTDOWN"`) {
		t.Errorf("missing shutdown status:\n%s", out)
	}
	if strings.Contains(out, `"reason"`) {
		t.Errorf("shutdown without a signal should carry no reason:\n%s", out)
	}
}
