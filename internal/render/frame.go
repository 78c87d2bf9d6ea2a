package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/zeebo/xxh3"
)

// Frame is one complete rendering, top line first.
type Frame []string

// Height is the number of terminal lines the frame occupies.
func (f Frame) Height() int { return len(f) }

// String joins the lines, each terminated by a newline.
func (f Frame) String() string {
	if len(f) == 0 {
		return ""
	}
	return strings.Join(f, "\n") + "\n"
}

// Hash identifies the frame's bytes.
func (f Frame) Hash() uint64 {
	return xxh3.HashString(f.String())
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// visibleWidth is the display width of s with escape sequences removed.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

// truncate cuts s to at most width visible cells. Escape sequences are
// kept whole, and a reset is appended when anything styled was cut.
func truncate(s string, width int) string {
	if visibleWidth(s) <= width {
		return s
	}
	var b strings.Builder
	styled := false
	w := 0
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			if loc := ansiRegex.FindStringIndex(s[i:]); loc != nil && loc[0] == 0 {
				b.WriteString(s[i : i+loc[1]])
				styled = true
				i += loc[1]
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
		i += size
	}
	if styled {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}
