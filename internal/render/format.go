package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Guliveer/vitafetch/internal/models"
)

// formatUptime renders a duration as "2d 3h 14m", dropping leading zero
// units.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Minute)
	days := total / (24 * 60)
	hours := (total / 60) % 24
	mins := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

func formatCPU(c models.CPU) string {
	var b strings.Builder
	b.WriteString(c.Model)
	switch {
	case c.Cores > 0 && c.Threads > 0 && c.Threads != c.Cores:
		fmt.Fprintf(&b, " (%dC/%dT)", c.Cores, c.Threads)
	case c.Cores > 0:
		fmt.Fprintf(&b, " (%d)", c.Cores)
	case c.Threads > 0:
		fmt.Fprintf(&b, " (%d)", c.Threads)
	}
	if c.MHz > 0 {
		fmt.Fprintf(&b, " @ %.2f GHz", c.MHz/1000)
	}
	return strings.TrimSpace(b.String())
}

func formatTemperature(t models.Temperature) string {
	return fmt.Sprintf("%.1f°C", float64(t))
}

func formatBattery(b models.Battery) string {
	if b.Status == "" {
		return fmt.Sprintf("%d%%", b.Percent)
	}
	return fmt.Sprintf("%d%% [%s]", b.Percent, b.Status)
}

// formatUsage renders "used / total (pct%)" in IEC units.
func formatUsage(u models.Usage) string {
	return fmt.Sprintf("%s / %s (%.0f%%)", humanize.IBytes(u.Used), humanize.IBytes(u.Total), u.Percent())
}

// bar draws a usage meter of width cells, colored by how full it is.
func (r *Renderer) bar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	role := Primary
	switch {
	case pct >= 80:
		role = Error
	case pct >= 50:
		role = Warning
	}
	return "[" + r.palette.Paint(role, strings.Repeat("■", filled)) +
		r.palette.Paint(Muted, strings.Repeat("□", width-filled)) + "]"
}

func (r *Renderer) usage(u models.Usage) string {
	s := formatUsage(u)
	if b := r.bar(u.Percent(), r.opts.BarWidth); b != "" {
		s += " " + b
	}
	return s
}
