// Command melodies exports the built-in melodies as Standard MIDI Files so
// they can be auditioned without the machine.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/sweeney/shotbox/internal/melody"
)

var (
	outDir = "."
	name   = ""
	list   = false
)

func init() {
	pflag.StringVarP(&outDir, "out", "o", outDir, "output directory")
	pflag.StringVarP(&name, "name", "n", name, "export only this melody")
	pflag.BoolVarP(&list, "list", "l", list, "list the melodies and exit")
}

func main() {
	pflag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if list {
		for _, n := range melody.Library() {
			fmt.Printf("%-28s %v\n", n.Name, n.Melody.Duration())
		}
		return
	}

	if err := export(outDir, name, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// export writes every library melody, or only the named one, to
// dir/<name>.mid.
func export(dir, only string, logger zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	written := 0
	for _, n := range melody.Library() {
		if only != "" && n.Name != only {
			continue
		}
		path := filepath.Join(dir, n.Name+".mid")
		if err := writeFile(path, n.Melody); err != nil {
			return err
		}
		logger.Info().Str("melody", n.Name).Str("path", path).Stringer("duration", n.Melody.Duration()).Msg("exported")
		written++
	}
	if written == 0 {
		return errors.Errorf("unknown melody %q", only)
	}
	return nil
}

func writeFile(path string, m melody.Melody) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create midi file")
	}
	if err := melody.WriteMIDI(f, m, melody.DefaultTempo); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
