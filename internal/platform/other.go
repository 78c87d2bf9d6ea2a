//go:build !linux && !darwin && !windows

package platform

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
)

// OtherPlatform covers the BSDs and other Unix systems with generic probes.
type OtherPlatform struct {
	base
}

// New creates the platform for the running OS.
func New(run Runner, files FileReader, logger *zap.Logger) Platform {
	return &OtherPlatform{base: newBase(run, files, logger)}
}

// OSName is left to gopsutil on this platform.
func (p *OtherPlatform) OSName(_ context.Context) (string, error) {
	return "", ErrUnsupported
}

// Kernel returns the kernel release.
func (p *OtherPlatform) Kernel(_ context.Context) (string, error) {
	return kernelRelease()
}

// HostModel reads hw.model via sysctl.
func (p *OtherPlatform) HostModel(ctx context.Context) (string, error) {
	out, err := p.run.Output(ctx, "sysctl", "-n", "hw.model")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GPUs uses lspci when the pciutils port is installed.
func (p *OtherPlatform) GPUs(ctx context.Context) ([]string, error) {
	out, err := p.run.Output(ctx, "lspci")
	if err != nil {
		return nil, err
	}
	return parseLspci(out), nil
}

// Battery is not implemented for this platform.
func (p *OtherPlatform) Battery(_ context.Context) (models.Battery, error) {
	return models.Battery{}, ErrUnsupported
}

// Packages counts pkg(8) packages.
func (p *OtherPlatform) Packages(ctx context.Context) []PackageCount {
	out, err := p.run.Output(ctx, "pkg", "info")
	if err != nil {
		return nil
	}
	return countPackages(nil, "pkg", len(lines(out)), nil)
}

// Desktop resolves DE and WM from the session environment.
func (p *OtherPlatform) Desktop(ctx context.Context) (string, string) {
	return detectDesktop(p.getenv, p.processNames(ctx))
}
