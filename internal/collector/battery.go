package collector

import (
	"context"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

// BatteryUnit reads the first battery's charge and status.
type BatteryUnit struct {
	platform platform.Platform
	logger   *zap.Logger
}

// NewBatteryUnit creates a new battery unit.
func NewBatteryUnit(p platform.Platform, logger *zap.Logger) *BatteryUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatteryUnit{platform: p, logger: logger}
}

func (u *BatteryUnit) Name() string { return "battery" }

func (u *BatteryUnit) Fields() report.FieldSet { return report.NewFieldSet(report.FieldBattery) }

func (u *BatteryUnit) IsAvailable() bool { return u.platform != nil }

// Collect emits nothing on machines without a battery.
func (u *BatteryUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if !need.Has(report.FieldBattery) {
		return
	}
	b, err := u.platform.Battery(ctx)
	if err != nil {
		u.logger.Debug("Battery unavailable", zap.Error(err))
		return
	}
	emit(report.FieldBattery, b)
}
