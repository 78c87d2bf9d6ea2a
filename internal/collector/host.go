// Host identity unit: user, hostname, OS name, host model, kernel and uptime.
// Uses os/user and gopsutil host, with platform-specific OS name, kernel and
// model probes.
package collector

import (
	"context"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

// HostUnit gathers the identity fields. They come first so the header and
// logo appear in the first frames.
type HostUnit struct {
	platform platform.Platform
	logger   *zap.Logger
}

// NewHostUnit creates a new host unit.
func NewHostUnit(p platform.Platform, logger *zap.Logger) *HostUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostUnit{platform: p, logger: logger}
}

// Name returns the unit identifier.
func (u *HostUnit) Name() string { return "host" }

// Fields returns the fields this unit owns.
func (u *HostUnit) Fields() report.FieldSet {
	return report.NewFieldSet(report.FieldUser, report.FieldHostname, report.FieldOS,
		report.FieldHost, report.FieldKernel, report.FieldUptime)
}

// IsAvailable returns true since identity probes exist on all platforms.
func (u *HostUnit) IsAvailable() bool { return true }

// Collect emits identity fields first, then the slower ones.
func (u *HostUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if need.Has(report.FieldUser) {
		if name := currentUser(); name != "" {
			if !emit(report.FieldUser, models.Text(name)) {
				return
			}
		}
	}

	if need.Has(report.FieldHostname) {
		if name, err := os.Hostname(); err == nil && name != "" {
			if !emit(report.FieldHostname, models.Text(name)) {
				return
			}
		} else {
			u.logger.Debug("Hostname unavailable", zap.Error(err))
		}
	}

	if need.Has(report.FieldOS) {
		if name := u.osName(ctx); name != "" {
			if !emit(report.FieldOS, models.Text(name)) {
				return
			}
		}
	}

	if need.Has(report.FieldKernel) {
		if kernel := u.kernel(ctx); kernel != "" {
			if !emit(report.FieldKernel, models.Text(kernel)) {
				return
			}
		}
	}

	if need.Has(report.FieldUptime) {
		uptime, err := host.UptimeWithContext(ctx)
		if err != nil {
			u.logger.Debug("Uptime unavailable", zap.Error(err))
		} else if !emit(report.FieldUptime, models.Duration(time.Duration(uptime)*time.Second)) {
			return
		}
	}

	if need.Has(report.FieldHost) {
		model, err := u.platform.HostModel(ctx)
		if err != nil || model == "" {
			u.logger.Debug("Host model unavailable", zap.Error(err))
			return
		}
		emit(report.FieldHost, models.Text(model))
	}
}

// osName prefers the platform probe and falls back to gopsutil's
// platform/version pair.
func (u *HostUnit) osName(ctx context.Context) string {
	name, err := u.platform.OSName(ctx)
	if err == nil && name != "" {
		return name
	}
	u.logger.Debug("Platform OS name unavailable, falling back to gopsutil", zap.Error(err))

	platformName, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil || platformName == "" {
		return titleCase(runtime.GOOS)
	}
	return strings.TrimSpace(titleCase(platformName) + " " + version)
}

func (u *HostUnit) kernel(ctx context.Context) string {
	kernel, err := u.platform.Kernel(ctx)
	if err == nil && kernel != "" {
		return kernel
	}
	u.logger.Debug("Platform kernel unavailable, falling back to gopsutil", zap.Error(err))

	kernel, err = host.KernelVersionWithContext(ctx)
	if err != nil {
		u.logger.Debug("Kernel version unavailable", zap.Error(err))
		return ""
	}
	return kernel
}

// currentUser returns the login name without any Windows domain prefix.
func currentUser() string {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = os.Getenv("USERNAME")
	}
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
