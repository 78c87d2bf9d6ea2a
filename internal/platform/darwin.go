//go:build darwin

package platform

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
)

// DarwinPlatform reads SystemVersion.plist and shells out to system tools.
type DarwinPlatform struct {
	base
}

// New creates the platform for the running OS.
func New(run Runner, files FileReader, logger *zap.Logger) Platform {
	return &DarwinPlatform{base: newBase(run, files, logger)}
}

// OSName reads SystemVersion.plist, e.g. "macOS 14.2.1 Sonoma".
func (p *DarwinPlatform) OSName(_ context.Context) (string, error) {
	data, err := p.files.ReadFile("/System/Library/CoreServices/SystemVersion.plist")
	if err != nil {
		return "", err
	}
	return parseSystemVersion(data)
}

// Kernel returns the Darwin kernel release.
func (p *DarwinPlatform) Kernel(_ context.Context) (string, error) {
	return kernelRelease()
}

// HostModel returns the model identifier, e.g. "MacBookPro18,3".
func (p *DarwinPlatform) HostModel(ctx context.Context) (string, error) {
	out, err := p.run.Output(ctx, "sysctl", "-n", "hw.model")
	if err != nil {
		return "", err
	}
	model := strings.TrimSpace(string(out))
	if model == "" {
		return "", fmt.Errorf("host model: empty sysctl output")
	}
	return model, nil
}

// GPUs parses `system_profiler -xml SPDisplaysDataType`.
func (p *DarwinPlatform) GPUs(ctx context.Context) ([]string, error) {
	out, err := p.run.Output(ctx, "system_profiler", "-xml", "SPDisplaysDataType")
	if err != nil {
		return nil, err
	}
	return parseSystemProfiler(out)
}

// Battery parses `pmset -g batt`.
func (p *DarwinPlatform) Battery(ctx context.Context) (models.Battery, error) {
	out, err := p.run.Output(ctx, "pmset", "-g", "batt")
	if err != nil {
		return models.Battery{}, err
	}
	return parsePmset(out)
}

// Packages counts Homebrew formulae and casks and MacPorts ports.
func (p *DarwinPlatform) Packages(ctx context.Context) []PackageCount {
	var counts []PackageCount
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		n, err := countDirs(p.files, prefix+"/Cellar")
		if err != nil {
			continue
		}
		counts = countPackages(counts, "brew", n, nil)
		casks, err := countDirs(p.files, prefix+"/Caskroom")
		counts = countPackages(counts, "brew-cask", casks, err)
		break
	}
	if _, err := p.files.ReadDir("/opt/local/bin"); err == nil {
		if out, err := p.run.Output(ctx, "port", "installed"); err == nil {
			// First line is the "The following ports are currently installed:" header.
			counts = countPackages(counts, "port", len(lines(out))-1, nil)
		}
	}
	return counts
}

// Desktop is fixed on macOS.
func (p *DarwinPlatform) Desktop(_ context.Context) (string, string) {
	return "Aqua", "Quartz Compositor"
}
