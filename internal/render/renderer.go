// Package render turns a report snapshot into terminal lines: a logo column
// on the left and "Label: value" info lines on the right. Rendering is a
// pure function of its inputs so frames can be compared and erased by
// their line count.
package render

import (
	"strings"
	"time"
	"unicode"

	"github.com/Guliveer/vitafetch/internal/logo"
	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

const (
	unknownText     = "Unknown"
	notDetectedText = "Not detected"
)

// Options controls layout. The zero value renders without bars, gap or
// placeholders.
type Options struct {
	Gap         int
	BarWidth    int
	ShowUnknown bool
	ColorBlocks bool
	Icons       bool
	MaxWidth    int
}

// Renderer formats snapshots with a fixed palette and options.
type Renderer struct {
	palette Palette
	opts    Options
}

// New creates a renderer.
func New(p Palette, opts Options) *Renderer {
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	return &Renderer{palette: p, opts: opts}
}

// WithShowUnknown returns a copy of the renderer with placeholders on or off.
func (r *Renderer) WithShowUnknown(show bool) *Renderer {
	c := *r
	c.opts.ShowUnknown = show
	return &c
}

// Render produces the frame for a snapshot. The logo lines may already be
// colored; their visible width is measured without escape sequences.
func (r *Renderer) Render(snap *report.Report, enabled report.FieldSet, logoLines []string) Frame {
	return r.compose(logoLines, r.Info(snap, enabled))
}

// RenderLogo paints l with the renderer's palette and renders beside it.
func (r *Renderer) RenderLogo(snap *report.Report, enabled report.FieldSet, l logo.Logo) Frame {
	return r.Render(snap, enabled, r.palette.Logo(l))
}

// Info returns the right-hand column for a snapshot.
func (r *Renderer) Info(snap *report.Report, enabled report.FieldSet) []string {
	var lines []string
	if header := r.header(snap); header != "" {
		lines = append(lines, header, strings.Repeat("-", visibleWidth(header)))
	}

	for _, f := range enabled.Normalize().Fields() {
		if f == report.FieldUser || f == report.FieldHostname {
			continue
		}
		v, ok := snap.Get(f)
		if !ok {
			if r.opts.ShowUnknown {
				lines = append(lines, r.line(f.Label(), placeholder(f)))
			}
			continue
		}
		lines = append(lines, r.fieldLines(f, v)...)
	}

	if r.opts.ColorBlocks && r.palette.Enabled() {
		lines = append(lines, "", r.palette.Blocks())
	}
	return lines
}

func placeholder(f report.Field) string {
	switch f.Kind() {
	case models.KindList, models.KindPartitions, models.KindInterfaces:
		return notDetectedText
	}
	return unknownText
}

func (r *Renderer) header(snap *report.Report) string {
	user := clean(snap.Text(report.FieldUser))
	host := clean(snap.Text(report.FieldHostname))
	switch {
	case user != "" && host != "":
		return r.palette.Paint(Primary, user) + "@" + r.palette.Paint(Primary, host)
	case user != "":
		return r.palette.Paint(Primary, user)
	case host != "":
		return r.palette.Paint(Primary, host)
	}
	return ""
}

func (r *Renderer) line(label, value string) string {
	return r.palette.Paint(Label, label) + ": " + value
}

// fieldLines formats one populated field. List fields yield one line per
// element.
func (r *Renderer) fieldLines(f report.Field, v models.Value) []string {
	label := f.Label()
	switch val := v.(type) {
	case models.Text:
		s := clean(string(val))
		if f == report.FieldOS && r.opts.Icons {
			if icon := logo.Icon(s); icon != "" {
				s = icon + " " + s
			}
		}
		return []string{r.line(label, s)}
	case models.Duration:
		return []string{r.line(label, formatUptime(time.Duration(val)))}
	case models.CPU:
		val.Model = clean(val.Model)
		return []string{r.line(label, formatCPU(val))}
	case models.Temperature:
		return []string{r.line(label, formatTemperature(val))}
	case models.Battery:
		val.Status = clean(val.Status)
		return []string{r.line(label, formatBattery(val))}
	case models.Usage:
		if val.Total == 0 {
			return []string{r.line(label, r.palette.Paint(Muted, "Disabled"))}
		}
		return []string{r.line(label, r.usage(val))}
	case models.List:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, r.line(label, clean(item)))
		}
		return out
	case models.Partitions:
		out := make([]string, 0, len(val))
		for _, p := range val {
			s := r.usage(p.Usage())
			if p.Fs != "" {
				s += " - " + clean(p.Fs)
			}
			out = append(out, r.line(label+" ("+clean(p.Mount)+")", s))
		}
		return out
	case models.Interfaces:
		out := make([]string, 0, len(val))
		for _, iface := range val {
			out = append(out, r.line(label+" ("+clean(iface.Name)+")", clean(iface.Addr)))
		}
		return out
	}
	return nil
}

// clean replaces control characters in probe output with spaces. A stray
// newline or escape would change the frame's line count.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// compose lays the logo and info columns side by side. The logo column is
// as wide as its widest line; the shorter column is padded with blanks.
func (r *Renderer) compose(logoLines, info []string) Frame {
	logoWidth := 0
	for _, l := range logoLines {
		if w := visibleWidth(l); w > logoWidth {
			logoWidth = w
		}
	}

	height := len(logoLines)
	if len(info) > height {
		height = len(info)
	}

	gap := strings.Repeat(" ", r.opts.Gap)
	frame := make(Frame, 0, height)
	for i := 0; i < height; i++ {
		var left, right string
		if i < len(logoLines) {
			left = logoLines[i]
		}
		if i < len(info) {
			right = info[i]
		}

		var line string
		switch {
		case right == "":
			line = left
		case logoWidth == 0:
			line = right
		default:
			line = left + strings.Repeat(" ", logoWidth-visibleWidth(left)) + gap + right
		}
		if r.opts.MaxWidth > 0 {
			line = truncate(line, r.opts.MaxWidth)
		}
		frame = append(frame, line)
	}
	return frame
}
