package collector

import (
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/platform"
)

// Deps are the collaborators shared by the default units.
type Deps struct {
	Platform platform.Platform
	Runner   platform.Runner
	Files    platform.FileReader
	Logger   *zap.Logger
}

// DefaultUnits returns the standard units of work. Together they cover
// every report field and no two of them share a field.
func DefaultUnits(d Deps) []Unit {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	named := func(name string) *zap.Logger { return logger.With(zap.String("unit", name)) }

	return []Unit{
		NewHostUnit(d.Platform, named("host")),
		NewCPUUnit(named("cpu")),
		NewGPUUnit(d.Platform, named("gpu")),
		NewMemoryUnit(d.Files, named("memory")),
		NewDiskUnit(named("disk")),
		NewNetworkUnit(named("network")),
		NewBatteryUnit(d.Platform, named("battery")),
		NewSessionUnit(d.Platform, d.Runner, named("session")),
		NewPackagesUnit(d.Platform, named("packages")),
	}
}

// NewDefaultRegistry registers the default units.
func NewDefaultRegistry(d Deps) *Registry {
	r := NewRegistry(d.Logger)
	for _, u := range DefaultUnits(d) {
		r.Register(u)
	}
	return r
}
