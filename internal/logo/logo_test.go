package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		os   string
		want string
	}{
		{"Arch Linux", "arch"},
		{"Debian GNU/Linux 12 (bookworm)", "debian"},
		{"Ubuntu 24.04 LTS", "ubuntu"},
		{"Fedora Linux 40 (Workstation Edition)", "fedora"},
		{"Linux Mint 21.3", "mint"},
		{"Manjaro Linux", "manjaro"},
		{"Pop!_OS 22.04 LTS", "pop"},
		{"openSUSE Tumbleweed", "opensuse"},
		{"NixOS 24.05 (Uakari)", "nixos"},
		{"macOS 14.4 Sonoma", "macos"},
		{"Windows 11 Pro 23H2", "windows"},
		{"FreeBSD 14.0-RELEASE", "freebsd"},
		{"Void Linux", "linux"},
		{"Haiku", "generic"},
		{"", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.os, func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.os).Name)
		})
	}
}

func TestSmall(t *testing.T) {
	assert.Equal(t, "arch", Small("Arch Linux").Name)
	assert.Equal(t, "linux", Small("Gentoo Linux").Name, "no small gentoo logo falls back to tux")
	assert.Equal(t, "macos", Small("macOS 15.0 Sequoia").Name)
	assert.Equal(t, "generic", Small("Plan 9").Name)
	assert.Less(t, len(Small("Ubuntu").Lines), len(For("Ubuntu").Lines))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "linux", Default("linux", false).Name)
	assert.Equal(t, "macos", Default("darwin", true).Name)
	assert.Equal(t, "windows", Default("windows", false).Name)
	assert.Equal(t, "freebsd", Default("freebsd", false).Name)
	assert.Equal(t, "generic", Default("plan9", false).Name)
}

func TestLogosHaveNoEmptyEdges(t *testing.T) {
	all := []Logo{tux, tuxSmall, generic, genericSmall, macOS, macOSSmall, windows, windowsSmall}
	for _, e := range table {
		all = append(all, e.full)
		if e.small.Lines != nil {
			all = append(all, e.small)
		}
	}
	for _, l := range all {
		if assert.NotEmpty(t, l.Lines, l.Name) {
			assert.NotEmpty(t, l.Lines[0], "%s starts with a blank line", l.Name)
			assert.NotEmpty(t, l.Lines[len(l.Lines)-1], "%s ends with a blank line", l.Name)
		}
		assert.NotEmpty(t, l.Color, l.Name)
	}
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "♕", Icon("Ubuntu 22.04"))
	assert.Equal(t, "🌰", Icon("CachyOS Linux"))
	assert.Equal(t, "🐧", Icon("Void Linux"))
	assert.Equal(t, "\uf8ff", Icon("macOS 14.4"))
	assert.Equal(t, "", Icon("Windows 11"))
}
