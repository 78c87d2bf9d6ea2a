package report

import (
	"errors"
	"fmt"

	"github.com/Guliveer/vitafetch/internal/models"
)

var (
	// ErrAlreadySet is returned when a field is written a second time.
	ErrAlreadySet = errors.New("field already set")

	// ErrKindMismatch is returned when a value variant does not match the field.
	ErrKindMismatch = errors.New("value kind does not match field")

	// ErrUnknownField is returned for fields outside the catalogue.
	ErrUnknownField = errors.New("unknown field")
)

// Result is one field value produced by a unit of work.
type Result struct {
	Unit  string
	Field Field
	Value models.Value
}

// Report accumulates probe results. Each slot goes from empty to populated
// at most once and is never cleared. A Report is not safe for concurrent
// use; a single goroutine owns it and hands out clones.
type Report struct {
	values [numFields]models.Value
	set    FieldSet
}

// New returns an empty report.
func New() *Report {
	return &Report{}
}

// Set populates a field. It fails if the field is already populated or the
// value has the wrong variant; the stored value is left unchanged.
func (r *Report) Set(f Field, v models.Value) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	if v == nil {
		return fmt.Errorf("%s: nil value: %w", f, ErrKindMismatch)
	}
	if v.Kind() != f.Kind() {
		return fmt.Errorf("%s: got %s, want %s: %w", f, v.Kind(), f.Kind(), ErrKindMismatch)
	}
	if r.set.Has(f) {
		return fmt.Errorf("%s: %w", f, ErrAlreadySet)
	}
	r.values[f] = v
	r.set = r.set.With(f)
	return nil
}

// Apply stores a result.
func (r *Report) Apply(res Result) error {
	return r.Set(res.Field, res.Value)
}

// Get returns the value of a field and whether it is populated.
func (r *Report) Get(f Field) (models.Value, bool) {
	if !r.set.Has(f) {
		return nil, false
	}
	return r.values[f], true
}

// Text returns the string value of a text field, or "" when empty.
func (r *Report) Text(f Field) string {
	v, ok := r.Get(f)
	if !ok {
		return ""
	}
	if t, ok := v.(models.Text); ok {
		return string(t)
	}
	return ""
}

// Populated returns the set of fields holding a value.
func (r *Report) Populated() FieldSet {
	return r.set
}

// Clone returns an independent snapshot. Values are shared because they
// are immutable after Set.
func (r *Report) Clone() *Report {
	c := *r
	return &c
}

// Complete reports whether every enabled field (plus the required identity
// fields) is populated in r.
func Complete(r *Report, enabled FieldSet) bool {
	want := enabled.Normalize()
	return r.Populated().Intersect(want) == want
}
