//go:build linux

package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
)

// LinuxPlatform reads /etc, /sys and /var/lib and shells out to lspci.
type LinuxPlatform struct {
	base
}

// New creates the platform for the running OS.
func New(run Runner, files FileReader, logger *zap.Logger) Platform {
	return &LinuxPlatform{base: newBase(run, files, logger)}
}

// OSName reads /etc/os-release, then /usr/lib/os-release, then lsb_release.
func (p *LinuxPlatform) OSName(ctx context.Context) (string, error) {
	for _, path := range []string{"/etc/os-release", "/usr/lib/os-release"} {
		data, err := p.files.ReadFile(path)
		if err != nil {
			continue
		}
		if name := osReleaseName(parseKeyValueFile(string(data))); name != "" {
			return name, nil
		}
	}

	out, err := p.run.Output(ctx, "lsb_release", "-d", "-s")
	if err != nil {
		return "", err
	}
	if name := strings.Trim(strings.TrimSpace(string(out)), `"`); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("os name: no source available")
}

// Kernel returns the kernel release.
func (p *LinuxPlatform) Kernel(_ context.Context) (string, error) {
	return kernelRelease()
}

// placeholderDMI are firmware defaults that carry no information.
var placeholderDMI = []string{
	"to be filled by o.e.m.", "default string", "system product name",
	"system version", "not applicable", "none", "0123456789",
}

// HostModel reads the DMI product name and version.
func (p *LinuxPlatform) HostModel(_ context.Context) (string, error) {
	const dmi = "/sys/devices/virtual/dmi/id"
	name, err := readTrimmed(p.files, dmi+"/product_name")
	if err != nil {
		// Device-tree boards (Raspberry Pi and friends).
		model, dtErr := readTrimmed(p.files, "/sys/firmware/devicetree/base/model")
		if dtErr != nil {
			return "", err
		}
		return strings.TrimRight(model, "\x00"), nil
	}
	version, _ := readTrimmed(p.files, dmi+"/product_version")

	var parts []string
	for _, s := range []string{name, version} {
		if s != "" && !isPlaceholderDMI(s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("host model: only placeholder DMI data")
	}
	return strings.Join(parts, " "), nil
}

func isPlaceholderDMI(s string) bool {
	ls := strings.ToLower(s)
	for _, ph := range placeholderDMI {
		if ls == ph {
			return true
		}
	}
	return false
}

// GPUs runs `lspci -mm`, falling back to plain `lspci`.
func (p *LinuxPlatform) GPUs(ctx context.Context) ([]string, error) {
	out, err := p.run.Output(ctx, "lspci", "-mm")
	if err == nil {
		if gpus := parseLspciMM(out); len(gpus) > 0 {
			return gpus, nil
		}
	}
	out, err = p.run.Output(ctx, "lspci")
	if err != nil {
		return nil, err
	}
	return parseLspci(out), nil
}

// Battery reads the first /sys/class/power_supply/BAT* entry.
func (p *LinuxPlatform) Battery(_ context.Context) (models.Battery, error) {
	dirs, err := p.files.Glob("/sys/class/power_supply/BAT*")
	if err != nil {
		return models.Battery{}, err
	}
	for _, dir := range dirs {
		capacity, err := readTrimmed(p.files, filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		status, _ := readTrimmed(p.files, filepath.Join(dir, "status"))
		return parseSysfsBattery(capacity, status)
	}
	return models.Battery{}, fmt.Errorf("no battery found")
}

// Packages counts dpkg, pacman, rpm, apk, xbps, flatpak and snap packages.
func (p *LinuxPlatform) Packages(ctx context.Context) []PackageCount {
	var counts []PackageCount

	if data, err := p.files.ReadFile("/var/lib/dpkg/status"); err == nil {
		counts = countPackages(counts, "dpkg", countDpkg(data), nil)
	}
	n, err := countDirs(p.files, "/var/lib/pacman/local")
	counts = countPackages(counts, "pacman", n, err)

	if _, err := p.files.ReadDir("/var/lib/rpm"); err == nil {
		if out, err := p.run.Output(ctx, "rpm", "-qa"); err == nil {
			counts = countPackages(counts, "rpm", len(lines(out)), nil)
		}
	}
	if data, err := p.files.ReadFile("/lib/apk/db/installed"); err == nil {
		counts = countPackages(counts, "apk", countApk(data), nil)
	}
	if _, err := p.files.ReadDir("/var/db/xbps"); err == nil {
		if out, err := p.run.Output(ctx, "xbps-query", "-l"); err == nil {
			counts = countPackages(counts, "xbps", len(lines(out)), nil)
		}
	}
	n, err = countDirs(p.files, "/var/lib/flatpak/app")
	counts = countPackages(counts, "flatpak", n, err)

	n, err = countDirs(p.files, "/snap")
	if err == nil {
		// /snap/bin is not a package.
		n--
	}
	counts = countPackages(counts, "snap", n, err)

	return counts
}

// Desktop resolves DE and WM from the session environment.
func (p *LinuxPlatform) Desktop(ctx context.Context) (string, string) {
	de, wm := detectDesktop(p.getenv, nil)
	if wm == "" && p.getenv("DISPLAY")+p.getenv("WAYLAND_DISPLAY") != "" {
		de, wm = detectDesktop(p.getenv, p.processNames(ctx))
	}
	return de, wm
}
