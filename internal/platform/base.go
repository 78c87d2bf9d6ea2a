package platform

import (
	"context"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// base holds the collaborators shared by every OS implementation.
type base struct {
	run    Runner
	files  FileReader
	getenv func(string) string
	logger *zap.Logger
}

func newBase(run Runner, files FileReader, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if files == nil {
		files = OSFiles{}
	}
	return base{run: run, files: files, getenv: os.Getenv, logger: logger}
}

// Name returns the platform identifier.
func (b *base) Name() string { return runtime.GOOS }

// processNames lists the names of running processes. Used only as the last
// resort for window manager detection.
func (b *base) processNames(ctx context.Context) []string {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		b.logger.Debug("Listing processes failed", zap.Error(err))
		return nil
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			break
		}
		if name, err := p.NameWithContext(ctx); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// countPackages appends a count when n is positive.
func countPackages(counts []PackageCount, manager string, n int, err error) []PackageCount {
	if err != nil || n <= 0 {
		return counts
	}
	return append(counts, PackageCount{Manager: manager, Count: n})
}
