// Disk usage unit: gathers per-mount disk usage information.
// Uses gopsutil for cross-platform disk metrics.
package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// pseudoFSTypes contains filesystem types that should be excluded from disk metrics.
// These are virtual/system filesystems and network/remote filesystems that don't
// represent local storage devices.
var pseudoFSTypes = map[string]bool{
	// Virtual / system filesystems
	"devfs":           true,
	"autofs":          true,
	"nullfs":          true,
	"tmpfs":           true,
	"sysfs":           true,
	"proc":            true,
	"procfs":          true,
	"devtmpfs":        true,
	"cgroup":          true,
	"cgroup2":         true,
	"overlay":         true,
	"squashfs":        true,
	"fuse.snapfuse":   true,
	"nsfs":            true,
	"pstore":          true,
	"debugfs":         true,
	"tracefs":         true,
	"securityfs":      true,
	"configfs":        true,
	"fusectl":         true,
	"mqueue":          true,
	"hugetlbfs":       true,
	"binfmt_misc":     true,
	"efivarfs":        true,
	"bpf":             true,
	"ramfs":           true,
	"fuse.portal":     true,
	"fuse.gvfsd-fuse": true,

	// Network / remote filesystems
	"nfs":         true,
	"nfs4":        true,
	"cifs":        true,
	"smbfs":       true,
	"fuse.sshfs":  true,
	"fuse.rclone": true,
	"9p":          true,
	"afs":         true,
	"glusterfs":   true,
	"ceph":        true,
	"fuse.ceph":   true,
	"fuse.s3fs":   true,
	"davfs2":      true,
}

// isSystemMount returns true for mount points that are macOS system volumes
// or other OS-internal paths that shouldn't be shown to users.
func isSystemMount(mount string) bool {
	systemPrefixes := []string{
		"/System/Volumes/",
		"/private/var/vm",
		"/boot/efi",
		"/snap/",
		"/var/lib/docker/",
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}

// DiskUnit collects disk usage per mount point.
type DiskUnit struct {
	logger *zap.Logger
}

// NewDiskUnit creates a new disk unit.
func NewDiskUnit(logger *zap.Logger) *DiskUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskUnit{logger: logger}
}

// Name returns the unit identifier.
func (u *DiskUnit) Name() string { return "disk" }

// Fields returns the fields this unit owns.
func (u *DiskUnit) Fields() report.FieldSet { return report.NewFieldSet(report.FieldDisk) }

// IsAvailable returns true since disk metrics are available on all platforms.
func (u *DiskUnit) IsAvailable() bool { return true }

// Collect gathers disk usage data for all local mounted partitions.
// Inaccessible partitions are silently skipped.
func (u *DiskUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if !need.Has(report.FieldDisk) {
		return
	}
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		u.logger.Debug("Listing partitions failed", zap.Error(err))
		return
	}

	var results models.Partitions
	seen := make(map[string]bool)
	for _, p := range u.localPartitions(partitions) {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue // Skip inaccessible partitions
		}
		// Skip partitions with 0 total bytes (some virtual mounts report 0 size)
		if usage.Total == 0 {
			continue
		}
		// Bind mounts and btrfs subvolumes repeat the same device.
		key := p.Device + "|" + p.Fstype
		if p.Device != "" && seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, models.Partition{
			Mount: p.Mountpoint,
			Fs:    p.Fstype,
			Used:  usage.Used,
			Total: usage.Total,
		})
	}

	if len(results) == 0 {
		return
	}
	emit(report.FieldDisk, results)
}

// localPartitions drops pseudo, network and system mounts and orders the
// rest with the root first, then by mount path.
func (u *DiskUnit) localPartitions(partitions []disk.PartitionStat) []disk.PartitionStat {
	var out []disk.PartitionStat
	for _, p := range partitions {
		// Skip pseudo/network filesystems
		if pseudoFSTypes[p.Fstype] {
			u.logger.Debug("Skipping pseudo/network filesystem",
				zap.String("mount", p.Mountpoint),
				zap.String("fstype", p.Fstype))
			continue
		}
		// Skip OS-internal mount points
		if isSystemMount(p.Mountpoint) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := isRootMount(out[i].Mountpoint), isRootMount(out[j].Mountpoint)
		if ri != rj {
			return ri
		}
		return out[i].Mountpoint < out[j].Mountpoint
	})
	return out
}

func isRootMount(m string) bool {
	return m == "/" || strings.EqualFold(m, `C:`) || strings.EqualFold(m, `C:\`)
}
