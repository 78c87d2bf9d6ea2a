//go:build linux

package platform

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitafetch/internal/models"
)

// fakeRunner returns canned output keyed by the full command line.
type fakeRunner map[string]string

func (f fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	out, ok := f[key]
	if !ok {
		return nil, errors.New("command not found: " + key)
	}
	return []byte(out), nil
}

func TestLinuxPlatform(t *testing.T) {
	fsys := fstest.MapFS{
		"etc/os-release":                             {Data: []byte("PRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n")},
		"sys/devices/virtual/dmi/id/product_name":    {Data: []byte("ThinkPad X1 Carbon Gen 10\n")},
		"sys/devices/virtual/dmi/id/product_version": {Data: []byte("To Be Filled By O.E.M.\n")},
		"sys/class/power_supply/BAT0/capacity":       {Data: []byte("64\n")},
		"sys/class/power_supply/BAT0/status":         {Data: []byte("Charging\n")},
		"var/lib/dpkg/status":                        {Data: []byte("Status: install ok installed\nStatus: install ok installed\n")},
		"var/lib/flatpak/app/org.mozilla.firefox":    {Mode: fs.ModeDir | 0o755},
		"var/lib/flatpak/app/org.gimp.GIMP":          {Mode: fs.ModeDir | 0o755},
	}
	run := fakeRunner{
		"lspci -mm": `00:02.0 "VGA compatible controller" "Intel Corporation" "Alder Lake-P GT2 [Iris Xe Graphics]" -r0c "" ""`,
	}
	p := New(run, FSFiles{FS: fsys}, nil)
	ctx := context.Background()

	name, err := p.OSName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", name)

	model, err := p.HostModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ThinkPad X1 Carbon Gen 10", model)

	gpus, err := p.GPUs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intel Iris Xe Graphics"}, gpus)

	bat, err := p.Battery(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Battery{Percent: 64, Status: "Charging"}, bat)

	assert.Equal(t, []PackageCount{
		{Manager: "dpkg", Count: 2},
		{Manager: "flatpak", Count: 2},
	}, p.Packages(ctx))
}

func TestLinuxPlatform_MissingSources(t *testing.T) {
	p := New(fakeRunner{}, FSFiles{FS: fstest.MapFS{}}, nil)
	ctx := context.Background()

	_, err := p.OSName(ctx)
	assert.Error(t, err)
	_, err = p.Battery(ctx)
	assert.Error(t, err)
	_, err = p.GPUs(ctx)
	assert.Error(t, err)
	assert.Empty(t, p.Packages(ctx))
}
