// CPU unit: gathers the processor model, core/thread counts and the CPU
// temperature. Uses gopsutil for cross-platform CPU and sensor data.
package collector

import (
	"context"
	"regexp"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// CPUUnit collects the CPU description and temperature.
type CPUUnit struct {
	logger *zap.Logger
}

// NewCPUUnit creates a new CPU unit.
func NewCPUUnit(logger *zap.Logger) *CPUUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CPUUnit{logger: logger}
}

// Name returns the unit identifier.
func (u *CPUUnit) Name() string { return "cpu" }

// Fields returns the fields this unit owns.
func (u *CPUUnit) Fields() report.FieldSet {
	return report.NewFieldSet(report.FieldCPU, report.FieldTemperature)
}

// IsAvailable returns true since CPU info is available on all platforms.
func (u *CPUUnit) IsAvailable() bool { return true }

// Collect gathers the CPU description, then the temperature.
func (u *CPUUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if need.Has(report.FieldCPU) {
		if info, ok := u.describe(ctx); ok {
			if !emit(report.FieldCPU, info) {
				return
			}
		}
	}

	if need.Has(report.FieldTemperature) {
		temps, err := host.SensorsTemperaturesWithContext(ctx)
		if err != nil {
			// gopsutil returns partial readings together with warnings.
			u.logger.Debug("Temperature sensors reported an error", zap.Error(err))
		}
		if t, ok := hottestCPUTemperature(temps); ok {
			emit(report.FieldTemperature, models.Temperature(t))
		} else {
			u.logger.Debug("No CPU temperature sensor found")
		}
	}
}

func (u *CPUUnit) describe(ctx context.Context) (models.CPU, bool) {
	var result models.CPU

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		u.logger.Debug("CPU info unavailable", zap.Error(err))
	}
	for _, info := range infos {
		if result.Model == "" {
			result.Model = cleanCPUModel(info.ModelName)
		}
		if info.Mhz > result.MHz {
			result.MHz = info.Mhz
		}
	}

	if cores, err := cpu.CountsWithContext(ctx, false); err == nil {
		result.Cores = cores
	}
	if threads, err := cpu.CountsWithContext(ctx, true); err == nil {
		result.Threads = threads
	}
	if result.Cores == 0 {
		result.Cores = result.Threads
	}

	if result.Model == "" && result.Threads == 0 {
		return models.CPU{}, false
	}
	return result, true
}

var (
	cpuNoiseRe = regexp.MustCompile(`(?i)\((r|tm)\)|\b(cpu|processor)\b|\d+-core|@\s*[\d.]+\s*ghz`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// cleanCPUModel strips trademarks, the clock suffix and filler words:
// "Intel(R) Core(TM) i7-10750H CPU @ 2.60GHz" -> "Intel Core i7-10750H".
func cleanCPUModel(model string) string {
	model = cpuNoiseRe.ReplaceAllString(model, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(model, " "))
}
