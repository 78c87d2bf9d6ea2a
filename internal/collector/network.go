// Network unit: gathers the local IPv4 address of each active interface.
// Uses gopsutil for cross-platform interface listing.
package collector

import (
	"context"
	"net"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/Guliveer/vitafetch/internal/models"
	"github.com/Guliveer/vitafetch/internal/report"
)

// virtualIfacePrefixes are container and VM bridges that are not the
// machine's own address.
var virtualIfacePrefixes = []string{"docker", "veth", "br-", "virbr", "vmnet", "vboxnet", "cni", "flannel", "lxcbr", "podman"}

// NetworkUnit collects interface addresses.
type NetworkUnit struct {
	logger *zap.Logger
}

// NewNetworkUnit creates a new network unit.
func NewNetworkUnit(logger *zap.Logger) *NetworkUnit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkUnit{logger: logger}
}

// Name returns the unit identifier.
func (u *NetworkUnit) Name() string { return "network" }

// Fields returns the fields this unit owns.
func (u *NetworkUnit) Fields() report.FieldSet { return report.NewFieldSet(report.FieldNetwork) }

// IsAvailable returns true since interfaces are listed on all platforms.
func (u *NetworkUnit) IsAvailable() bool { return true }

// Collect lists interfaces and emits the first IPv4 address of each one
// that is up and not a loopback or virtual bridge.
func (u *NetworkUnit) Collect(ctx context.Context, need report.FieldSet, emit Emitter) {
	if !need.Has(report.FieldNetwork) {
		return
	}
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		u.logger.Debug("Listing interfaces failed", zap.Error(err))
		return
	}
	if selected := selectInterfaces(ifaces); len(selected) > 0 {
		emit(report.FieldNetwork, selected)
	}
}

func selectInterfaces(ifaces psnet.InterfaceStatList) models.Interfaces {
	var out models.Interfaces
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") || isVirtualIface(iface.Name) {
			continue
		}
		for _, a := range iface.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip == nil || ip.To4() == nil || ip.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, models.Interface{Name: iface.Name, Addr: ip.String()})
			break
		}
	}
	return out
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

func isVirtualIface(name string) bool {
	for _, prefix := range virtualIfacePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
