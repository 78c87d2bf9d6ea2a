package collector

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

// PackagesUnit counts installed packages across package managers.
type PackagesUnit struct {
	platform platform.Platform
	logger   *zap.Logger
}

// NewPackagesUnit creates a new packages unit.
func NewPackagesUnit(p platform.Platform, logger *zap.Logger) *PackagesUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackagesUnit{platform: p, logger: logger}
}

func (u *PackagesUnit) Name() string { return "packages" }

func (u *PackagesUnit) Fields() report.FieldSet { return report.NewFieldSet(report.FieldPackages) }

func (u *PackagesUnit) IsAvailable() bool { return u.platform != nil }

func (u *PackagesUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if !need.Has(report.FieldPackages) {
		return
	}
	counts := u.platform.Packages(ctx)
	if len(counts) == 0 {
		u.logger.Debug("No package manager found")
		return
	}
	emit(report.FieldPackages, models.Text(formatPackages(counts)))
}

// formatPackages renders "1834 (dpkg), 12 (flatpak)".
func formatPackages(counts []platform.PackageCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%d (%s)", c.Count, c.Manager))
	}
	return strings.Join(parts, ", ")
}
