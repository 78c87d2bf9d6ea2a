// Package cache persists the slow, rarely-changing fields of a report
// between runs so their probes can be skipped next time. The cache is a
// single YAML file; it is best-effort and every failure is recoverable by
// probing again.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Guliveer/vitafetch/internal/collector"
	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// Version is bumped whenever the record layout changes; records with any
// other version are ignored.
const Version = 1

// Fields are the cacheable fields.
var Fields = report.NewFieldSet(
	report.FieldHostname,
	report.FieldOS,
	report.FieldKernel,
	report.FieldCPU,
	report.FieldGPU,
	report.FieldWM,
)

// ErrStale is returned by Load when the record is older than the maximum
// age or was written by another version.
var ErrStale = errors.New("cache record is stale")

type record struct {
	Version   int         `yaml:"version"`
	WrittenAt time.Time   `yaml:"written_at"`
	Hostname  string      `yaml:"hostname,omitempty"`
	OS        string      `yaml:"os,omitempty"`
	Kernel    string      `yaml:"kernel,omitempty"`
	CPU       *models.CPU `yaml:"cpu,omitempty"`
	GPU       []string    `yaml:"gpu,omitempty"`
	WM        string      `yaml:"wm,omitempty"`
}

// Store reads and writes the cache file.
type Store struct {
	path   string
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New creates a store for the file at path. A maxAge of zero never expires
// entries.
func New(path string, maxAge time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, maxAge: maxAge, logger: logger, now: time.Now}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

// Load returns the cached fields as results from the cache pseudo-unit. A
// missing file yields no results and no error.
func (s *Store) Load() ([]report.Result, error) {
	rec, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []report.Result
	add := func(f report.Field, v models.Value) {
		out = append(out, report.Result{Unit: collector.CacheUnit, Field: f, Value: v})
	}
	if rec.Hostname != "" {
		add(report.FieldHostname, models.Text(rec.Hostname))
	}
	if rec.OS != "" {
		add(report.FieldOS, models.Text(rec.OS))
	}
	if rec.Kernel != "" {
		add(report.FieldKernel, models.Text(rec.Kernel))
	}
	if rec.CPU != nil && rec.CPU.Model != "" {
		add(report.FieldCPU, *rec.CPU)
	}
	if len(rec.GPU) > 0 {
		add(report.FieldGPU, models.List(rec.GPU))
	}
	if rec.WM != "" {
		add(report.FieldWM, models.Text(rec.WM))
	}
	s.logger.Debug("Cache loaded", zap.String("path", s.path), zap.Int("entries", len(out)))
	return out, nil
}

// Save writes the cacheable fields of rep. Nothing is written unless at
// least one cacheable field in fresh was probed this run; entries of a
// still-valid record are kept for fields rep does not hold.
func (s *Store) Save(rep *report.Report, fresh report.FieldSet) error {
	if fresh.Intersect(Fields).Intersect(rep.Populated()).Empty() {
		return nil
	}

	rec, err := s.read()
	if err != nil {
		rec = &record{}
	}
	rec.Version = Version
	rec.WrittenAt = s.now().UTC()

	for _, f := range rep.Populated().Intersect(Fields).Fields() {
		v, _ := rep.Get(f)
		switch f {
		case report.FieldHostname:
			rec.Hostname = rep.Text(f)
		case report.FieldOS:
			rec.OS = rep.Text(f)
		case report.FieldKernel:
			rec.Kernel = rep.Text(f)
		case report.FieldWM:
			rec.WM = rep.Text(f)
		case report.FieldCPU:
			if cpu, ok := v.(models.CPU); ok {
				rec.CPU = &cpu
			}
		case report.FieldGPU:
			if gpus, ok := v.(models.List); ok {
				rec.GPU = []string(gpus)
			}
		}
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write through a temporary file so a crash never leaves half a record.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.logger.Debug("Cache written", zap.String("path", s.path))
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

// read parses the cache file. Corrupted files are removed.
func (s *Store) read() (*record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		s.logger.Debug("Failed to parse cache file, removing corrupted file",
			zap.String("file", s.path),
			zap.Error(err))
		os.Remove(s.path)
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("version %d: %w", rec.Version, ErrStale)
	}
	if s.maxAge > 0 && s.now().Sub(rec.WrittenAt) > s.maxAge {
		return nil, fmt.Errorf("written %s: %w", rec.WrittenAt.Format(time.RFC3339), ErrStale)
	}
	return &rec, nil
}
