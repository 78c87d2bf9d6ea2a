// Package platform provides an OS abstraction layer for platform-specific
// probes that cannot be handled by gopsutil alone.
// Each supported OS implements the Platform interface.
package platform

import (
	"context"
	"errors"

	"github.com/Guliveer/vitafetch/internal/models"
)

// ErrUnsupported is returned by probes that have no implementation on the
// current OS.
var ErrUnsupported = errors.New("not supported on this platform")

// PackageCount is the number of packages installed by one package manager.
type PackageCount struct {
	Manager string
	Count   int
}

// Platform provides OS-specific facts beyond what gopsutil offers.
// Every method is best effort: an error means the fact is unavailable.
type Platform interface {
	// Name returns the platform name (linux, darwin, windows, other).
	Name() string

	// OSName returns the pretty distribution or product name.
	OSName(ctx context.Context) (string, error)

	// Kernel returns the kernel release.
	Kernel(ctx context.Context) (string, error)

	// HostModel returns the hardware vendor and model.
	HostModel(ctx context.Context) (string, error)

	// GPUs lists graphics adapters as reported by the OS tooling.
	// Duplicates are possible; callers deduplicate.
	GPUs(ctx context.Context) ([]string, error)

	// Battery returns the charge of the first battery.
	Battery(ctx context.Context) (models.Battery, error)

	// Packages counts installed packages per detected package manager.
	Packages(ctx context.Context) []PackageCount

	// Desktop returns the desktop environment and window manager.
	Desktop(ctx context.Context) (de, wm string)
}
