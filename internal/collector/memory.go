// Memory unit: gathers RAM and swap used/total bytes.
// On Linux both come from a single /proc/meminfo read; elsewhere gopsutil
// provides them.
package collector

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/platform"
	"github.com/Guliveer/vitafetch/internal/report"
)

const meminfoPath = "/proc/meminfo"

// MemoryUnit collects memory and swap usage.
type MemoryUnit struct {
	files  platform.FileReader
	procfs bool
	logger *zap.Logger
}

// NewMemoryUnit creates a new memory unit reading through files.
func NewMemoryUnit(files platform.FileReader, logger *zap.Logger) *MemoryUnit {
	return newMemoryUnit(files, runtime.GOOS == "linux", logger)
}

func newMemoryUnit(files platform.FileReader, procfs bool, logger *zap.Logger) *MemoryUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	if files == nil {
		files = platform.OSFiles{}
	}
	return &MemoryUnit{files: files, procfs: procfs, logger: logger}
}

// Name returns the unit identifier.
func (u *MemoryUnit) Name() string { return "memory" }

// Fields returns the fields this unit owns.
func (u *MemoryUnit) Fields() report.FieldSet {
	return report.NewFieldSet(report.FieldMemory, report.FieldSwap)
}

// IsAvailable returns true since memory metrics are available on all platforms.
func (u *MemoryUnit) IsAvailable() bool { return true }

// Collect gathers memory and swap. One parse yields both, so they are
// emitted together.
func (u *MemoryUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if u.procfs {
		memory, swap, err := u.readMeminfo()
		if err == nil {
			if need.Has(report.FieldMemory) && !emit(report.FieldMemory, memory) {
				return
			}
			if need.Has(report.FieldSwap) {
				emit(report.FieldSwap, swap)
			}
			return
		}
		u.logger.Debug("Reading meminfo failed", zap.Error(err))
		return
	}

	if need.Has(report.FieldMemory) {
		v, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			u.logger.Debug("Virtual memory unavailable", zap.Error(err))
		} else if !emit(report.FieldMemory, models.Usage{Used: v.Used, Total: v.Total}) {
			return
		}
	}
	if need.Has(report.FieldSwap) {
		s, err := mem.SwapMemoryWithContext(ctx)
		if err != nil {
			u.logger.Debug("Swap unavailable", zap.Error(err))
			return
		}
		emit(report.FieldSwap, models.Usage{Used: s.Used, Total: s.Total})
	}
}

func (u *MemoryUnit) readMeminfo() (memory, swap models.Usage, err error) {
	data, err := u.files.ReadFile(meminfoPath)
	if err != nil {
		return memory, swap, err
	}
	info := parseMeminfo(data)

	total, ok := info["MemTotal"]
	if !ok || total == 0 {
		return memory, swap, fmt.Errorf("%s: no MemTotal", meminfoPath)
	}
	available, ok := info["MemAvailable"]
	if !ok {
		// Kernels before 3.14 lack MemAvailable.
		available = info["MemFree"] + info["Buffers"] + info["Cached"] + info["SReclaimable"]
		if shmem := info["Shmem"]; shmem < available {
			available -= shmem
		}
	}
	memory = models.Usage{Total: total, Used: saturatingSub(total, available)}
	swap = models.Usage{Total: info["SwapTotal"], Used: saturatingSub(info["SwapTotal"], info["SwapFree"])}
	return memory, swap, nil
}

// parseMeminfo parses /proc/meminfo into byte values keyed by field name.
func parseMeminfo(data []byte) map[string]uint64 {
	result := make(map[string]uint64)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}
		if len(fields) > 1 && strings.EqualFold(fields[1], "kB") {
			v *= 1024
		}
		result[strings.TrimSpace(key)] = v
	}
	return result
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
