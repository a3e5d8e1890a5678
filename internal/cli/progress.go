package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// progressStep prints "label... done (12ms)" around a slow step such as
// loading the token documents or writing the snapshot database.
type progressStep struct {
	out     io.Writer
	started time.Time
}

func startProgress(out io.Writer, label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(out, "%s... ", label)
	return &progressStep{out: out, started: time.Now()}
}

func (p *progressStep) Done() {
	if p == nil {
		return
	}
	fmt.Fprintf(p.out, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *progressStep) Fail(err error) {
	if p == nil {
		return
	}
	fmt.Fprintf(p.out, "failed: %v\n", err)
}

// track runs fn between startProgress and Done or Fail.
func track(out io.Writer, label string, fn func() error) error {
	step := startProgress(out, label)
	if err := fn(); err != nil {
		step.Fail(err)
		return err
	}
	step.Done()
	return nil
}

func progressEnabled() bool {
	if IsStructuredOutput() || noProgress {
		return false
	}
	for _, key := range []string{"TINT_NO_PROGRESS", "NO_PROGRESS"} {
		if _, ok := os.LookupEnv(key); ok {
			return false
		}
	}
	return hasTTY()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
