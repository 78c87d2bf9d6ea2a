// Package display drives rendering of a run: once after every unit has
// finished (static mode) or repeatedly on a ticker while results arrive
// (progressive mode), erasing each frame before drawing the next. The
// driver is the only goroutine that touches the report.
package display

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/logo"
	"github.com/Guliveer/vitafetch/internal/render"
	"github.com/Guliveer/vitafetch/internal/report"
)

// State is the driver's lifecycle position.
type State int

const (
	Idle State = iota
	Rendering
	WaitingForNextTick
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case WaitingForNextTick:
		return "waiting"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultInterval is the progressive redraw period.
const DefaultInterval = 50 * time.Millisecond

// Options configures a Driver.
type Options struct {
	Progressive bool
	Interval    time.Duration
	SmallLogo   bool
	// GOOS picks the logo shown until the OS name is known.
	GOOS string
	// MaxHeight is the terminal height. Cursor-up cannot reach lines that
	// scrolled off the screen, so a frame this tall is only ever drawn as
	// the final one. Zero means unlimited.
	MaxHeight int
	// OnState, if set, observes every state transition.
	OnState func(State)
}

// Driver renders a stream of results to a writer.
type Driver struct {
	out      io.Writer
	renderer *render.Renderer
	enabled  report.FieldSet
	opts     Options
	logger   *zap.Logger

	state      State
	lastHeight int
	lastHash   uint64
	drawn      bool
}

// New creates a driver writing frames to out.
func New(out io.Writer, r *render.Renderer, enabled report.FieldSet, opts Options, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return &Driver{
		out:      out,
		renderer: r,
		enabled:  enabled.Normalize(),
		opts:     opts,
		logger:   logger,
	}
}

// Run consumes results until the run is over and returns the final report.
// On cancellation it draws the last frame and returns ctx.Err() along with
// whatever was gathered.
func (d *Driver) Run(ctx context.Context, results <-chan report.Result) (*report.Report, error) {
	d.setState(Idle)
	if d.opts.Progressive {
		return d.runProgressive(ctx, results)
	}
	return d.runStatic(ctx, results)
}

func (d *Driver) runStatic(ctx context.Context, results <-chan report.Result) (*report.Report, error) {
	rep, err := Collect(ctx, results, d.logger)
	d.setState(Rendering)
	d.show(d.render(rep, d.renderer.WithShowUnknown(true)))
	d.setState(Done)
	return rep, err
}

func (d *Driver) runProgressive(ctx context.Context, results <-chan report.Result) (*report.Report, error) {
	d.write(termenv.CSI + termenv.HideCursorSeq)
	defer d.write(termenv.CSI + termenv.ShowCursorSeq)

	rep := report.New()
	open := d.pending(rep, results)
	d.setState(Rendering)
	fits := d.drawIfFits(rep)

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for fits && open && !report.Complete(rep, d.enabled) {
		d.setState(WaitingForNextTick)
		select {
		case <-ctx.Done():
			d.pending(rep, results)
			d.setState(Rendering)
			d.show(d.render(rep, d.renderer))
			d.setState(Done)
			return rep.Clone(), ctx.Err()
		case <-ticker.C:
		}

		open = d.pending(rep, results)
		d.setState(Rendering)
		fits = d.drawIfFits(rep)
	}

	var err error
	if !fits {
		d.logger.Debug("Frame taller than the terminal, waiting for the final frame",
			zap.Int("max_height", d.opts.MaxHeight))
		d.setState(WaitingForNextTick)
		err = drain(ctx, rep, results, d.logger)
		d.setState(Rendering)
		d.show(d.render(rep, d.renderer))
	}

	d.setState(Done)
	d.logger.Debug("Progressive display finished",
		zap.Bool("complete", report.Complete(rep, d.enabled)),
		zap.Stringer("populated", rep.Populated()))
	return rep.Clone(), err
}

// pending applies every result already waiting on the channel without
// blocking. It returns false once the channel is closed and empty.
func (d *Driver) pending(rep *report.Report, results <-chan report.Result) bool {
	for {
		select {
		case res, ok := <-results:
			if !ok {
				return false
			}
			apply(rep, res, d.logger)
		default:
			return true
		}
	}
}

// drawIfFits draws rep unless the frame reaches MaxHeight, in which case
// nothing is written and false is returned.
func (d *Driver) drawIfFits(rep *report.Report) bool {
	frame := d.render(rep, d.renderer)
	if d.opts.MaxHeight > 0 && frame.Height() >= d.opts.MaxHeight {
		return false
	}
	d.show(frame)
	return true
}

func (d *Driver) render(rep *report.Report, r *render.Renderer) render.Frame {
	return r.RenderLogo(rep, d.enabled, d.logoFor(rep))
}

// show replaces the previous frame with frame. Frames identical to the last
// one drawn are skipped.
func (d *Driver) show(frame render.Frame) {
	hash := frame.Hash()
	if d.drawn && hash == d.lastHash {
		return
	}

	var seq string
	if d.drawn && d.lastHeight > 0 {
		seq = eraseSeq(d.lastHeight)
	}
	d.write(seq + frame.String())

	d.drawn = true
	d.lastHash = hash
	d.lastHeight = frame.Height()
}

// eraseSeq moves the cursor up over n lines and clears to the end of the
// screen.
func eraseSeq(n int) string {
	return termenv.CSI + fmt.Sprintf(termenv.CursorUpSeq, n) + termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 0)
}

func (d *Driver) logoFor(rep *report.Report) logo.Logo {
	if name := rep.Text(report.FieldOS); name != "" {
		return logo.Select(name, d.opts.SmallLogo)
	}
	return logo.Default(d.opts.GOOS, d.opts.SmallLogo)
}

func (d *Driver) write(s string) {
	if s == "" {
		return
	}
	if _, err := io.WriteString(d.out, s); err != nil {
		d.logger.Debug("Writing frame failed", zap.Error(err))
	}
}

// State returns the current lifecycle position.
func (d *Driver) State() State { return d.state }

func (d *Driver) setState(s State) {
	d.state = s
	d.logger.Debug("Display state", zap.Stringer("state", s))
	if d.opts.OnState != nil {
		d.opts.OnState(s)
	}
}

// Collect drains results into a new report until the channel closes or ctx
// is cancelled.
func Collect(ctx context.Context, results <-chan report.Result, logger *zap.Logger) (*report.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rep := report.New()
	return rep, drain(ctx, rep, results, logger)
}

func drain(ctx context.Context, rep *report.Report, results <-chan report.Result, logger *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			apply(rep, res, logger)
		}
	}
}

func apply(rep *report.Report, res report.Result, logger *zap.Logger) {
	if err := rep.Apply(res); err != nil {
		logger.Debug("Result rejected",
			zap.String("unit", res.Unit),
			zap.Stringer("field", res.Field),
			zap.Error(err))
	}
}
