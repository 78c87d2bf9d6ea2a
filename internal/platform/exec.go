package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout is returned when a command does not finish within the probe timeout.
var ErrTimeout = errors.New("command timed out")

// Runner runs external commands.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs commands with exec.CommandContext, bounding every invocation
// by Timeout so a hung tool cannot stall its unit forever.
type Exec struct {
	Timeout time.Duration
	logger  *zap.Logger
}

// NewExec creates a runner with the given per-command timeout.
// A zero timeout leaves commands bounded only by ctx.
func NewExec(timeout time.Duration, logger *zap.Logger) *Exec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exec{Timeout: timeout, logger: logger}
}

// Output runs the command and returns its standard output.
func (e *Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	// Children that inherit stdout could keep the pipe open after the kill.
	cmd.WaitDelay = 100 * time.Millisecond
	out, err := cmd.Output()

	e.logger.Debug("Command finished",
		zap.String("cmd", name+" "+strings.Join(args, " ")),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", name, ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// lines splits command output into trimmed, non-empty lines.
func lines(out []byte) []string {
	var result []string
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			result = append(result, l)
		}
	}
	return result
}
