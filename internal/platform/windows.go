//go:build windows

package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/registry"

	"github.com/Guliveer/vitafetch/internal/models"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// WindowsPlatform reads the registry and shells out to PowerShell.
type WindowsPlatform struct {
	base
}

// New creates the platform for the running OS.
func New(run Runner, files FileReader, logger *zap.Logger) Platform {
	return &WindowsPlatform{base: newBase(run, files, logger)}
}

type windowsVersion struct {
	product        string
	displayVersion string
	build          int
}

func readWindowsVersion() (windowsVersion, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, currentVersionKey, registry.QUERY_VALUE)
	if err != nil {
		return windowsVersion{}, fmt.Errorf("opening registry key: %w", err)
	}
	defer k.Close()

	var v windowsVersion
	if v.product, _, err = k.GetStringValue("ProductName"); err != nil {
		return windowsVersion{}, fmt.Errorf("reading ProductName: %w", err)
	}
	v.displayVersion, _, _ = k.GetStringValue("DisplayVersion")
	if build, _, err := k.GetStringValue("CurrentBuild"); err == nil {
		v.build, _ = strconv.Atoi(build)
	}
	return v, nil
}

// OSName returns e.g. "Windows 11 Pro 23H2".
func (p *WindowsPlatform) OSName(_ context.Context) (string, error) {
	v, err := readWindowsVersion()
	if err != nil {
		return "", err
	}
	name := v.product
	// ProductName still says "Windows 10" on Windows 11 builds.
	if v.build >= 22000 {
		name = strings.Replace(name, "Windows 10", "Windows 11", 1)
	}
	if v.displayVersion != "" {
		name += " " + v.displayVersion
	}
	return name, nil
}

// Kernel returns the NT version, e.g. "10.0.22631".
func (p *WindowsPlatform) Kernel(_ context.Context) (string, error) {
	v, err := readWindowsVersion()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("10.0.%d", v.build), nil
}

func (p *WindowsPlatform) powershell(ctx context.Context, command string) ([]byte, error) {
	return p.run.Output(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", command)
}

// HostModel queries Win32_ComputerSystem.
func (p *WindowsPlatform) HostModel(ctx context.Context) (string, error) {
	out, err := p.powershell(ctx, "$c = Get-CimInstance Win32_ComputerSystem; \"$($c.Manufacturer) $($c.Model)\"")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GPUs queries Win32_VideoController.
func (p *WindowsPlatform) GPUs(ctx context.Context) ([]string, error) {
	out, err := p.powershell(ctx, "(Get-CimInstance Win32_VideoController).Name")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Battery queries Win32_Battery.
func (p *WindowsPlatform) Battery(ctx context.Context) (models.Battery, error) {
	out, err := p.powershell(ctx, "$b = Get-CimInstance Win32_Battery | Select-Object -First 1; if ($b) { \"$($b.EstimatedChargeRemaining) $($b.BatteryStatus)\" }")
	if err != nil {
		return models.Battery{}, err
	}
	return parseWindowsBattery(out)
}

// Packages counts Scoop apps and Chocolatey packages.
func (p *WindowsPlatform) Packages(_ context.Context) []PackageCount {
	var counts []PackageCount
	if home := p.getenv("USERPROFILE"); home != "" {
		n, err := countDirs(p.files, filepath.Join(home, "scoop", "apps"))
		if err == nil {
			// Scoop installs itself as an app.
			n--
		}
		counts = countPackages(counts, "scoop", n, err)
	}
	if programData := p.getenv("ProgramData"); programData != "" {
		n, err := countDirs(p.files, filepath.Join(programData, "chocolatey", "lib"))
		counts = countPackages(counts, "choco", n, err)
	}
	return counts
}

// Desktop is fixed on Windows.
func (p *WindowsPlatform) Desktop(_ context.Context) (string, string) {
	return "Fluent", "Desktop Window Manager"
}
