package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitafetch/internal/logo"
	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	r := report.New()
	set := func(f report.Field, v models.Value) {
		require.NoError(t, r.Set(f, v))
	}
	set(report.FieldUser, models.Text("ada"))
	set(report.FieldHostname, models.Text("engine"))
	set(report.FieldOS, models.Text("Arch Linux"))
	set(report.FieldKernel, models.Text("6.8.1-arch1-1"))
	set(report.FieldUptime, models.Duration(26*time.Hour+14*time.Minute))
	set(report.FieldCPU, models.CPU{Model: "AMD Ryzen 7 5800X", Cores: 8, Threads: 16, MHz: 3800})
	set(report.FieldGPU, models.List{"AMD Radeon RX 6800", "Intel UHD Graphics 750"})
	set(report.FieldMemory, models.Usage{Used: 1 << 30, Total: 16 << 30})
	set(report.FieldSwap, models.Usage{})
	set(report.FieldDisk, models.Partitions{{Mount: "/", Fs: "ext4", Used: 50 << 30, Total: 100 << 30}})
	set(report.FieldNetwork, models.Interfaces{{Name: "eth0", Addr: "192.168.1.20"}})
	set(report.FieldBattery, models.Battery{Percent: 87, Status: "Discharging"})
	return r
}

func plain(opts Options) *Renderer {
	return New(NewPalette(false), opts)
}

func TestRender_Deterministic(t *testing.T) {
	snap := sampleReport(t)
	enabled := report.NewFieldSet(report.AllFields()...)
	r := New(NewPalette(true), Options{Gap: 3, BarWidth: 10, ColorBlocks: true, Icons: true})
	art := logo.For("Arch Linux")

	first := r.RenderLogo(snap, enabled, art)
	second := r.RenderLogo(snap.Clone(), enabled, art)
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, first.Hash(), second.Hash())
}

func TestRender_InfoLines(t *testing.T) {
	snap := sampleReport(t)
	enabled := report.NewFieldSet(report.AllFields()...)
	info := plain(Options{}).Info(snap, enabled)

	assert.Equal(t, []string{
		"ada@engine",
		"----------",
		"OS: Arch Linux",
		"Kernel: 6.8.1-arch1-1",
		"Uptime: 1d 2h 14m",
		"CPU: AMD Ryzen 7 5800X (8C/16T) @ 3.80 GHz",
		"GPU: AMD Radeon RX 6800",
		"GPU: Intel UHD Graphics 750",
		"Memory: 1.0 GiB / 16 GiB (6%)",
		"Swap: Disabled",
		"Disk (/): 50 GiB / 100 GiB (50%) - ext4",
		"Local IP (eth0): 192.168.1.20",
		"Battery: 87% [Discharging]",
	}, info)
}

func TestRender_OnlyEnabledFields(t *testing.T) {
	snap := sampleReport(t)
	info := plain(Options{}).Info(snap, report.NewFieldSet(report.FieldOS, report.FieldHostname))
	assert.Equal(t, []string{"ada@engine", "----------", "OS: Arch Linux"}, info)
}

func TestRender_Placeholders(t *testing.T) {
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldHostname, models.Text("engine")))
	enabled := report.NewFieldSet(report.FieldCPU, report.FieldGPU)

	assert.Equal(t, []string{"engine", "------"}, plain(Options{}).Info(snap, enabled),
		"missing fields are omitted without placeholders")

	info := plain(Options{ShowUnknown: true}).Info(snap, enabled)
	assert.Equal(t, []string{
		"engine",
		"------",
		"OS: Unknown",
		"CPU: Unknown",
		"GPU: Not detected",
	}, info)
}

func TestRender_Bar(t *testing.T) {
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldMemory, models.Usage{Used: 3 << 30, Total: 4 << 30}))
	info := plain(Options{BarWidth: 4}).Info(snap, report.NewFieldSet(report.FieldMemory))
	require.Len(t, info, 1)
	assert.Equal(t, "Memory: 3.0 GiB / 4.0 GiB (75%) [■■■□]", info[0])
}

func TestRender_Icon(t *testing.T) {
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldOS, models.Text("Ubuntu 24.04 LTS")))
	info := plain(Options{Icons: true}).Info(snap, report.NewFieldSet())
	assert.Equal(t, []string{"OS: ♕ Ubuntu 24.04 LTS"}, info)
}

func TestRender_SideBySide(t *testing.T) {
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldUser, models.Text("ada")))
	require.NoError(t, snap.Set(report.FieldHostname, models.Text("box")))
	require.NoError(t, snap.Set(report.FieldOS, models.Text("Haiku")))

	logoLines := []string{"/\\", "/  \\", "----", "||", "||"}
	frame := plain(Options{Gap: 2}).Render(snap, report.NewFieldSet(), logoLines)

	assert.Equal(t, Frame{
		"/\\    ada@box",
		"/  \\  -------",
		"----  OS: Haiku",
		"||",
		"||",
	}, frame)
	assert.Equal(t, 5, frame.Height())
}

func TestRender_InfoTallerThanLogo(t *testing.T) {
	snap := sampleReport(t)
	frame := plain(Options{Gap: 1}).Render(snap, report.NewFieldSet(report.FieldKernel), []string{"#"})
	assert.Equal(t, Frame{
		"# ada@engine",
		"  ----------",
		"  OS: Arch Linux",
		"  Kernel: 6.8.1-arch1-1",
	}, frame)
}

func TestRender_ColoredLogoAlignment(t *testing.T) {
	p := NewPalette(true)
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldOS, models.Text("Arch Linux")))
	art := logo.Logo{Name: "t", Color: "4", Lines: []string{"ab", "abcd"}}

	frame := New(p, Options{Gap: 1}).RenderLogo(snap, report.NewFieldSet(), art)
	require.Len(t, frame, 2)
	plainLine := ansiRegex.ReplaceAllString(frame[0], "")
	assert.Equal(t, "ab   OS: Arch Linux", plainLine)
}

func TestRender_MaxWidth(t *testing.T) {
	snap := sampleReport(t)
	frame := New(NewPalette(true), Options{Gap: 2, BarWidth: 10, MaxWidth: 20}).
		RenderLogo(snap, report.NewFieldSet(report.AllFields()...), logo.For("Arch Linux"))
	for _, line := range frame {
		assert.LessOrEqual(t, visibleWidth(line), 20, "%q", line)
	}
}

func TestRender_ControlCharactersInValues(t *testing.T) {
	snap := report.New()
	require.NoError(t, snap.Set(report.FieldHostname, models.Text("box\x1b[2J")))
	require.NoError(t, snap.Set(report.FieldOS, models.Text("Foo\nBar")))
	require.NoError(t, snap.Set(report.FieldGPU, models.List{"Radeon\r\tPro"}))
	require.NoError(t, snap.Set(report.FieldNetwork, models.Interfaces{{Name: "wl\x00an0", Addr: "10.0.0.2"}}))

	frame := plain(Options{}).Render(snap, report.NewFieldSet(report.FieldGPU, report.FieldNetwork), nil)
	assert.Equal(t, Frame{
		"box [2J",
		"-------",
		"OS: Foo Bar",
		"GPU: Radeon  Pro",
		"Local IP (wl an0): 10.0.0.2",
	}, frame)
	assert.Equal(t, frame.Height(), strings.Count(frame.String(), "\n"))
}

func TestPalette_Disabled(t *testing.T) {
	p := NewPalette(false)
	assert.False(t, p.Enabled())
	assert.Equal(t, "text", p.Paint(Error, "text"))
	assert.Empty(t, p.Blocks())

	colored := NewPalette(true)
	assert.True(t, colored.Enabled())
	assert.Contains(t, colored.Paint(Error, "text"), "\x1b[")
	assert.Equal(t, "text", ansiRegex.ReplaceAllString(colored.Paint(Error, "text"), ""))
}

func TestColorBlocksOnlyWithColor(t *testing.T) {
	snap := report.New()
	info := plain(Options{ColorBlocks: true}).Info(snap, report.NewFieldSet())
	assert.Empty(t, info)

	info = New(NewPalette(true), Options{ColorBlocks: true}).Info(snap, report.NewFieldSet())
	require.Len(t, info, 2)
	assert.Equal(t, 48, visibleWidth(info[1]))
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{59 * time.Second, "0m"},
		{14 * time.Minute, "14m"},
		{3*time.Hour + 14*time.Minute, "3h 14m"},
		{50*time.Hour + 5*time.Minute, "2d 2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d), tt.d.String())
	}
}

func TestFormatCPU(t *testing.T) {
	assert.Equal(t, "Apple M2 (8)", formatCPU(models.CPU{Model: "Apple M2", Cores: 8, Threads: 8}))
	assert.Equal(t, "Intel Core i7-9700K (8C/16T) @ 3.60 GHz",
		formatCPU(models.CPU{Model: "Intel Core i7-9700K", Cores: 8, Threads: 16, MHz: 3600}))
	assert.Equal(t, "ARMv7", formatCPU(models.CPU{Model: "ARMv7"}))
}

func TestFormatBatteryAndTemperature(t *testing.T) {
	assert.Equal(t, "87% [Discharging]", formatBattery(models.Battery{Percent: 87, Status: "Discharging"}))
	assert.Equal(t, "100%", formatBattery(models.Battery{Percent: 100}))
	assert.Equal(t, "54.0°C", formatTemperature(54))
}

func TestVisibleWidthAndTruncate(t *testing.T) {
	assert.Equal(t, 4, visibleWidth("\x1b[34;1m日本\x1b[0m"))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "日", truncate("日本", 3))
	assert.Equal(t, "\x1b[31mab\x1b[0m", truncate("\x1b[31mabcd", 2))
	assert.Equal(t, "short", truncate("short", 10))
	assert.True(t, strings.HasSuffix(truncate("\x1b[31mabc\x1b[0mdef", 4), "\x1b[0m"))
}
