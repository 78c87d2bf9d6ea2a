package collector

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// CacheUnit is the Result.Unit of values replayed from the cache.
const CacheUnit = "cache"

// Registry manages all registered units and dispatches them concurrently.
type Registry struct {
	units  []Unit
	logger *zap.Logger
}

// NewRegistry creates a new unit registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		units:  make([]Unit, 0),
		logger: logger,
	}
}

// Register adds a unit if it's available on the current platform.
// Unavailable units are logged and skipped.
func (r *Registry) Register(u Unit) {
	if u.IsAvailable() {
		r.units = append(r.units, u)
		r.logger.Debug("Registered unit",
			zap.String("name", u.Name()),
			zap.Stringer("fields", u.Fields()))
	} else {
		r.logger.Debug("Unit not available, skipping", zap.String("name", u.Name()))
	}
}

// Units returns a copy of all registered units.
func (r *Registry) Units() []Unit {
	result := make([]Unit, len(r.units))
	copy(result, r.units)
	return result
}

// Coverage returns the union of the fields of all registered units.
func (r *Registry) Coverage() report.FieldSet {
	var s report.FieldSet
	for _, u := range r.units {
		s = s.Union(u.Fields())
	}
	return s
}

// Verify returns an error naming every field claimed by more than one unit.
func (r *Registry) Verify() error {
	owner := make(map[report.Field]string)
	var conflicts []string
	for _, u := range r.units {
		for _, f := range u.Fields().Fields() {
			if prev, ok := owner[f]; ok {
				conflicts = append(conflicts, fmt.Sprintf("%s (%s, %s)", f, prev, u.Name()))
				continue
			}
			owner[f] = u.Name()
		}
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("fields claimed by several units: %s", strings.Join(conflicts, ", "))
	}
	return nil
}

// Assign maps every needed field to exactly one unit. A field claimed by
// several units goes to the first registered. Units with nothing to do are
// omitted.
func (r *Registry) Assign(need report.FieldSet) map[string]report.FieldSet {
	plan := make(map[string]report.FieldSet)
	remaining := need
	for _, u := range r.units {
		mine := u.Fields().Intersect(remaining)
		if mine.Empty() {
			continue
		}
		plan[u.Name()] = mine
		remaining = remaining.Minus(mine)
	}
	return plan
}

// Dispatch starts one goroutine per unit that owns a needed field and
// returns the channel their results arrive on. Cached results for needed
// fields are delivered first and their probes skipped. The channel is
// closed once every started unit has returned.
func (r *Registry) Dispatch(ctx context.Context, enabled report.FieldSet, cached []report.Result) <-chan report.Result {
	need := enabled.Normalize()

	// Sized so that no emit ever blocks: at most one result per field.
	out := make(chan report.Result, len(report.AllFields())+len(cached))

	for _, res := range cached {
		if !need.Has(res.Field) || res.Value == nil || res.Value.Kind() != res.Field.Kind() {
			continue
		}
		res.Unit = CacheUnit
		out <- res
		need = need.Without(res.Field)
	}

	if missing := need.Minus(r.Coverage()); !missing.Empty() {
		r.logger.Debug("No unit for fields", zap.Stringer("fields", missing))
	}
	plan := r.Assign(need)

	var wg sync.WaitGroup
	for _, u := range r.units {
		fields, ok := plan[u.Name()]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(u Unit, fields report.FieldSet) {
			defer wg.Done()
			r.run(ctx, u, fields, out)
		}(u, fields)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// run executes one unit, enforcing that it emits only its assigned fields
// and each at most once. Panics are recovered and logged so other units
// continue.
func (r *Registry) run(ctx context.Context, u Unit, fields report.FieldSet, out chan<- report.Result) {
	logger := r.logger.With(zap.String("unit", u.Name()))
	start := time.Now()

	var mu sync.Mutex
	var emitted report.FieldSet
	emit := func(f report.Field, v models.Value) bool {
		if ctx.Err() != nil {
			return false
		}
		mu.Lock()
		if !fields.Has(f) || emitted.Has(f) || v == nil {
			mu.Unlock()
			logger.Debug("Dropping unexpected result", zap.Stringer("field", f))
			return true
		}
		emitted = emitted.With(f)
		mu.Unlock()

		select {
		case out <- report.Result{Unit: u.Name(), Field: f, Value: v}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Unit panicked",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()))
		}
		mu.Lock()
		missing := fields.Minus(emitted)
		mu.Unlock()
		logger.Debug("Unit finished",
			zap.Duration("took", time.Since(start)),
			zap.Stringer("missing", missing))
	}()

	u.Collect(ctx, fields, emit)
}
