package collector

import (
	"context"
	"regexp"
	"strings"

	lev "github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

// GPUUnit lists graphics adapters through the platform tooling.
type GPUUnit struct {
	platform platform.Platform
	logger   *zap.Logger
}

// NewGPUUnit creates a new GPU unit.
func NewGPUUnit(p platform.Platform, logger *zap.Logger) *GPUUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GPUUnit{platform: p, logger: logger}
}

func (u *GPUUnit) Name() string { return "gpu" }
func (u *GPUUnit) Fields() report.FieldSet { return report.NewFieldSet(report.FieldGPU) }
func (u *GPUUnit) IsAvailable() bool { return u.platform != nil }

func (u *GPUUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if !need.Has(report.FieldGPU) {
		return
	}
	gpus, err := u.platform.GPUs(ctx)
	if err != nil {
		u.logger.Debug("GPU listing failed", zap.Error(err))
		return
	}
	gpus = dedupGPUs(gpus)
	if len(gpus) == 0 {
		return
	}
	emit(report.FieldGPU, models.List(gpus))
}

var (
	gpuRevisionRe = regexp.MustCompile(`\(rev [0-9a-f]+\)`)
	gpuDigitsRe   = regexp.MustCompile(`[0-9]+`)
	gpuNoiseRe    = regexp.MustCompile(`(?i)\b(corporation|corp\.?|inc\.?|co\.?,? ltd\.?|graphics|controller)\b|[^a-z0-9 ]`)
)

// gpuKey normalizes a GPU name for comparison.
func gpuKey(name string) string {
	k := strings.ToLower(gpuRevisionRe.ReplaceAllString(name, ""))
	k = gpuNoiseRe.ReplaceAllString(k, " ")
	return strings.Join(strings.Fields(k), " ")
}

// similarGPUs reports whether two keys name the same adapter: equal, or
// with identical model numbers and within a fifth of the longer key by
// edit distance.
func similarGPUs(a, b string) bool {
	if a == b {
		return true
	}
	da, db := gpuDigitsRe.FindAllString(a, -1), gpuDigitsRe.FindAllString(b, -1)
	if strings.Join(da, ".") != strings.Join(db, ".") {
		return false
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return lev.ComputeDistance(a, b)*5 <= longest
}

// dedupGPUs drops adapters that different tools report under slightly
// different names, keeping the first spelling.
func dedupGPUs(gpus []string) []string {
	var out []string
	var keys []string
	for _, g := range gpus {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := gpuKey(g)
		dup := false
		for _, k := range keys {
			if similarGPUs(k, key) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		keys = append(keys, key)
		out = append(out, g)
	}
	return out
}
