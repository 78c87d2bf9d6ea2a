// Process ancestry: the names of the processes above vitafetch, used to
// recognise the shell and terminal emulator it runs in.
// Uses gopsutil for cross-platform process inspection.
package collector

import (
	"context"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// maxAncestors bounds the walk up the process tree.
const maxAncestors = 12

// ancestorNames walks the parent chain starting at vitafetch's parent and
// returns normalized executable names, nearest first. Inaccessible
// processes end the walk.
func ancestorNames(ctx context.Context) []string {
	pid := int32(os.Getppid())
	var names []string
	for i := 0; i < maxAncestors && pid > 1; i++ {
		if ctx.Err() != nil {
			break
		}
		p, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			break
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			break
		}
		names = append(names, normalizeProcessName(name))

		ppid, err := p.PpidWithContext(ctx)
		if err != nil || ppid == pid {
			break
		}
		pid = ppid
	}
	return names
}

// normalizeProcessName strips the login-shell dash and the Windows
// executable suffix: "-zsh" -> "zsh", "pwsh.exe" -> "pwsh".
func normalizeProcessName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "-")
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		name = name[:len(name)-4]
	}
	return name
}
