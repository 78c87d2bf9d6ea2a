// Package report holds the accumulated result of one vitafetch run: the
// catalogue of displayable fields, the set of fields enabled for the run,
// the write-once Report itself and the completion predicate over it.
package report

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/Guliveer/vitafetch/internal/models"
)

// Field identifies one displayable attribute. The numeric order is the
// order in which fields are rendered.
type Field int

const (
	FieldUser Field = iota
	FieldHostname
	FieldOS
	FieldHost
	FieldKernel
	FieldUptime
	FieldPackages
	FieldShell
	FieldTerminal
	FieldDE
	FieldWM
	FieldLocale
	FieldCPU
	FieldTemperature
	FieldGPU
	FieldMemory
	FieldSwap
	FieldDisk
	FieldNetwork
	FieldBattery

	numFields
)

type fieldInfo struct {
	name  string
	label string
	kind  models.Kind
}

var fieldTable = [numFields]fieldInfo{
	FieldUser:        {"user", "User", models.KindText},
	FieldHostname:    {"hostname", "Hostname", models.KindText},
	FieldOS:          {"os", "OS", models.KindText},
	FieldHost:        {"host", "Host", models.KindText},
	FieldKernel:      {"kernel", "Kernel", models.KindText},
	FieldUptime:      {"uptime", "Uptime", models.KindDuration},
	FieldPackages:    {"packages", "Packages", models.KindText},
	FieldShell:       {"shell", "Shell", models.KindText},
	FieldTerminal:    {"terminal", "Terminal", models.KindText},
	FieldDE:          {"de", "DE", models.KindText},
	FieldWM:          {"wm", "WM", models.KindText},
	FieldLocale:      {"locale", "Locale", models.KindText},
	FieldCPU:         {"cpu", "CPU", models.KindCPU},
	FieldTemperature: {"temperature", "CPU Temp", models.KindTemperature},
	FieldGPU:         {"gpu", "GPU", models.KindList},
	FieldMemory:      {"memory", "Memory", models.KindUsage},
	FieldSwap:        {"swap", "Swap", models.KindUsage},
	FieldDisk:        {"disk", "Disk", models.KindPartitions},
	FieldNetwork:     {"network", "Local IP", models.KindInterfaces},
	FieldBattery:     {"battery", "Battery", models.KindBattery},
}

// AllFields returns every known field in rendering order.
func AllFields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool { return f >= 0 && f < numFields }

// String returns the stable lower-case name used in config, cache and JSON.
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldTable[f].name
}

// Label returns the human-readable label printed before the value.
func (f Field) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return fieldTable[f].label
}

// Kind returns the value variant the field accepts.
func (f Field) Kind() models.Kind {
	if !f.Valid() {
		return -1
	}
	return fieldTable[f].kind
}

// ParseField resolves a field by name (case-insensitive).
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, info := range fieldTable {
		if info.name == n {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q (known: %s)", name, strings.Join(FieldNames(), ", "))
}

// FieldNames returns the names of all fields in rendering order.
func FieldNames() []string {
	names := make([]string, numFields)
	for i, info := range fieldTable {
		names[i] = info.name
	}
	return names
}

// FieldSet is an immutable set of fields. The zero value is empty.
type FieldSet uint32

// NewFieldSet builds a set from the given fields; invalid fields are ignored.
func NewFieldSet(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// ParseFieldSet builds a set from field names.
func ParseFieldSet(names []string) (FieldSet, error) {
	var s FieldSet
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseField(name)
		if err != nil {
			return 0, err
		}
		s = s.With(f)
	}
	return s, nil
}

// Required returns the identity fields every run gathers regardless of
// configuration.
func Required() FieldSet {
	return NewFieldSet(FieldUser, FieldHostname, FieldOS)
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	return f.Valid() && s&(1<<uint(f)) != 0
}

// With returns a copy of the set with f added.
func (s FieldSet) With(f Field) FieldSet {
	if !f.Valid() {
		return s
	}
	return s | 1<<uint(f)
}

// Without returns a copy of the set with f removed.
func (s FieldSet) Without(f Field) FieldSet {
	if !f.Valid() {
		return s
	}
	return s &^ (1 << uint(f))
}

// Union returns the fields present in either set.
func (s FieldSet) Union(o FieldSet) FieldSet { return s | o }

// Intersect returns the fields present in both sets.
func (s FieldSet) Intersect(o FieldSet) FieldSet { return s & o }

// Minus returns the fields of s that are not in o.
func (s FieldSet) Minus(o FieldSet) FieldSet { return s &^ o }

// Normalize adds the required identity fields.
func (s FieldSet) Normalize() FieldSet { return s | Required() }

// Empty reports whether the set has no fields.
func (s FieldSet) Empty() bool { return s == 0 }

// Len returns the number of fields in the set.
func (s FieldSet) Len() int { return bits.OnesCount32(uint32(s)) }

// Fields returns the members in rendering order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, s.Len())
	for f := Field(0); f < numFields; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the member names in rendering order.
func (s FieldSet) Names() []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}

func (s FieldSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}
