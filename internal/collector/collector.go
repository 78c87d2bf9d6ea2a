// Package collector defines the Unit interface and the units of work that
// probe the host. Each unit owns a disjoint set of report fields and groups
// the probes that share a data source.
package collector

import (
	"context"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// Emitter delivers one field value as soon as it is known. It returns
// false once the run is over; the unit should then stop probing.
type Emitter func(field report.Field, value models.Value) bool

// Unit is the interface that all units of work must implement.
// Each unit gathers a specific group of report fields.
type Unit interface {
	// Name returns the unique identifier for this unit.
	Name() string

	// Fields returns every field this unit can produce.
	Fields() report.FieldSet

	// Collect probes the fields in need (a subset of Fields) and emits each
	// one as it becomes available. Probes that fail emit nothing.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context, need report.FieldSet, emit Emitter)

	// IsAvailable checks if this unit can run on the current platform.
	// Units that return false will not be registered.
	IsAvailable() bool
}
