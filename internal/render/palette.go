package render

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/Guliveer/vitafetch/internal/logo"
)

// Role is a semantic color slot.
type Role int

const (
	Primary Role = iota
	Label
	Warning
	Error
	Muted

	numRoles
)

type roleStyle struct {
	color string
	bold  bool
}

var roleStyles = [numRoles]roleStyle{
	Primary: {color: "6", bold: true},
	Label:   {color: "4", bold: true},
	Warning: {color: "3"},
	Error:   {color: "1"},
	Muted:   {color: "8"},
}

// Palette maps roles to terminal styles. Build one with NewPalette.
type Palette struct {
	profile termenv.Profile
}

// NewPalette returns a palette that emits basic ANSI colors when color is
// true and plain text otherwise.
func NewPalette(color bool) Palette {
	if color {
		return Palette{profile: termenv.ANSI}
	}
	return Palette{profile: termenv.Ascii}
}

// Enabled reports whether the palette emits escape sequences.
func (p Palette) Enabled() bool {
	return p.profile != termenv.Ascii
}

// Paint styles s with the role's color.
func (p Palette) Paint(role Role, s string) string {
	if !p.Enabled() || role < 0 || role >= numRoles || s == "" {
		return s
	}
	rs := roleStyles[role]
	st := p.profile.String(s).Foreground(p.profile.Color(rs.color))
	if rs.bold {
		st = st.Bold()
	}
	return st.String()
}

// Logo paints every line of l in its own color.
func (p Palette) Logo(l logo.Logo) []string {
	out := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		if !p.Enabled() || strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = p.profile.String(line).Foreground(p.profile.Color(l.Color)).Bold().String()
	}
	return out
}

// Blocks returns the row of the 16 basic background colors.
func (p Palette) Blocks() string {
	if !p.Enabled() {
		return ""
	}
	var b strings.Builder
	for i := 0; i < 16; i++ {
		b.WriteString(p.profile.String("   ").Background(p.profile.Color(strconv.Itoa(i))).String())
	}
	return b.String()
}
