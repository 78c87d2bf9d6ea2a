package collector

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

var knownShells = map[string]bool{
	"bash": true, "zsh": true, "fish": true, "sh": true, "dash": true,
	"ksh": true, "mksh": true, "tcsh": true, "csh": true, "nu": true,
	"elvish": true, "xonsh": true, "ion": true, "oil": true,
	"pwsh": true, "powershell": true, "cmd": true,
}

// Processes between the shell and the terminal that say nothing about it.
var processWrappers = map[string]bool{
	"sudo": true, "su": true, "doas": true, "login": true, "script": true,
	"vitafetch": true, "go": true, "sh": true, "env": true, "nohup": true,
	"time": true, "strace": true, "dlv": true,
}

var terminalNames = map[string]string{
	"apple_terminal":        "Apple Terminal",
	"iterm.app":             "iTerm2",
	"vscode":                "VS Code",
	"code":                  "VS Code",
	"gnome-terminal-server": "GNOME Terminal",
	"gnome-terminal":        "GNOME Terminal",
	"konsole":               "Konsole",
	"alacritty":             "Alacritty",
	"kitty":                 "kitty",
	"wezterm":               "WezTerm",
	"wezterm-gui":           "WezTerm",
	"xfce4-terminal":        "Xfce Terminal",
	"tilix":                 "Tilix",
	"terminator":            "Terminator",
	"foot":                  "foot",
	"ghostty":               "Ghostty",
	"warpterminal":          "Warp",
	"windowsterminal":       "Windows Terminal",
	"conhost":               "Console Host",
	"sshd":                  "SSH",
}

// Shells whose --version output carries a parseable version number.
var versionedShells = map[string]bool{"bash": true, "zsh": true, "fish": true}

var versionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// SessionUnit gathers facts about the user session: shell, terminal,
// desktop, window manager and locale.
type SessionUnit struct {
	platform  platform.Platform
	run       platform.Runner
	getenv    func(string) string
	ancestors func(context.Context) []string
	logger    *zap.Logger
}

// NewSessionUnit creates a new session unit.
func NewSessionUnit(p platform.Platform, run platform.Runner, logger *zap.Logger) *SessionUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionUnit{
		platform:  p,
		run:       run,
		getenv:    os.Getenv,
		ancestors: ancestorNames,
		logger:    logger,
	}
}

func (u *SessionUnit) Name() string { return "session" }

func (u *SessionUnit) Fields() report.FieldSet {
	return report.NewFieldSet(report.FieldShell, report.FieldTerminal,
		report.FieldDE, report.FieldWM, report.FieldLocale)
}

func (u *SessionUnit) IsAvailable() bool { return u.platform != nil && u.run != nil }

// Collect emits the environment-derived fields first; the shell version and
// desktop detection may spawn processes.
func (u *SessionUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if need.Has(report.FieldLocale) {
		if loc := u.locale(); loc != "" && !emit(report.FieldLocale, models.Text(loc)) {
			return
		}
	}

	var ancestors []string
	if need.Has(report.FieldTerminal) || need.Has(report.FieldShell) {
		ancestors = u.ancestors(ctx)
	}

	if need.Has(report.FieldTerminal) {
		if term := pickTerminal(u.getenv, ancestors); term != "" && !emit(report.FieldTerminal, models.Text(term)) {
			return
		}
	}

	if need.Has(report.FieldShell) {
		if shell := u.shell(ctx, ancestors); shell != "" && !emit(report.FieldShell, models.Text(shell)) {
			return
		}
	}

	if need.Has(report.FieldDE) || need.Has(report.FieldWM) {
		de, wm := u.platform.Desktop(ctx)
		if need.Has(report.FieldDE) && de != "" && !emit(report.FieldDE, models.Text(de)) {
			return
		}
		if need.Has(report.FieldWM) && wm != "" {
			emit(report.FieldWM, models.Text(wm))
		}
	}
}

func (u *SessionUnit) locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := u.getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// shell resolves the login shell from $SHELL, falling back to the nearest
// shell among the parent processes, and appends its version when known.
func (u *SessionUnit) shell(ctx context.Context, ancestors []string) string {
	path := u.getenv("SHELL")
	name := filepath.Base(path)
	if path == "" {
		name = nearestShell(ancestors)
		if name == "" {
			return ""
		}
		path = name
	}

	if !versionedShells[name] {
		return name
	}
	out, err := u.run.Output(ctx, path, "--version")
	if err != nil {
		u.logger.Debug("Shell version unavailable", zap.String("shell", name), zap.Error(err))
		return name
	}
	if v := versionRe.FindString(string(out)); v != "" {
		return name + " " + v
	}
	return name
}

func nearestShell(ancestors []string) string {
	for _, a := range ancestors {
		if knownShells[strings.ToLower(a)] {
			return a
		}
	}
	return ""
}

// pickTerminal names the terminal emulator from the environment, then from
// the first ancestor that is neither a shell nor a wrapper, then from $TERM.
func pickTerminal(getenv func(string) string, ancestors []string) string {
	if prog := getenv("TERM_PROGRAM"); prog != "" {
		name := prettyTerminal(prog)
		if v := getenv("TERM_PROGRAM_VERSION"); v != "" {
			name += " " + v
		}
		return name
	}
	if getenv("WT_SESSION") != "" {
		return "Windows Terminal"
	}
	for _, a := range ancestors {
		la := strings.ToLower(a)
		if knownShells[la] || processWrappers[la] || a == "" {
			continue
		}
		return prettyTerminal(a)
	}
	if term := getenv("TERM"); term != "" && term != "dumb" {
		return term
	}
	return ""
}

func prettyTerminal(name string) string {
	if pretty, ok := terminalNames[strings.ToLower(name)]; ok {
		return pretty
	}
	return name
}
