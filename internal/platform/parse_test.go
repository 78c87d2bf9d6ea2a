package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitafetch/internal/models"
)

func TestOSReleaseName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "pretty name wins",
			content: "NAME=\"Ubuntu\"\nVERSION_ID=\"22.04\"\nPRETTY_NAME=\"Ubuntu 22.04.4 LTS\"\n",
			want:    "Ubuntu 22.04.4 LTS",
		},
		{
			name:    "name and version",
			content: "# comment\nNAME=Alpine Linux\nVERSION_ID=3.19.1\n",
			want:    "Alpine Linux 3.19.1",
		},
		{
			name:    "rolling release",
			content: "NAME='Arch Linux'\nID=arch\n",
			want:    "Arch Linux",
		},
		{name: "empty", content: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, osReleaseName(parseKeyValueFile(tt.content)))
		})
	}
}

func TestParseLspciMM(t *testing.T) {
	out := []byte(`00:00.0 "Host bridge" "Intel Corporation" "Device 4621" -r02 "Lenovo" "Device 3b46"
00:02.0 "VGA compatible controller" "Intel Corporation" "Alder Lake-P GT2 [Iris Xe Graphics]" -r0c "Lenovo" "Device 3b46"
01:00.0 "3D controller" "NVIDIA Corporation" "GA107M [GeForce RTX 3050 Mobile]" -ra1 "Lenovo" "Device 3b46"
03:00.0 "VGA compatible controller" "Advanced Micro Devices, Inc. [AMD/ATI]" "Navi 22 [Radeon RX 6700/6700 XT/6750 XT / 6800M/6850M XT]" -rc1 "" ""
`)
	assert.Equal(t, []string{
		"Intel Iris Xe Graphics",
		"NVIDIA GeForce RTX 3050 Mobile",
		"AMD Radeon RX 6700/6700 XT/6750 XT / 6800M/6850M XT",
	}, parseLspciMM(out))
}

func TestParseLspci(t *testing.T) {
	out := []byte(`00:01.0 PCI bridge: Intel Corporation Device 460d (rev 05)
00:02.0 VGA compatible controller: Intel Corporation Alder Lake-S GT1 [UHD Graphics 730] (rev 0c)
`)
	assert.Equal(t, []string{"Intel Corporation Alder Lake-S GT1 [UHD Graphics 730] (rev 0c)"}, parseLspci(out))
	assert.Empty(t, parseLspci(nil))
}

func TestParseSystemVersion(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>ProductBuildVersion</key>
	<string>23C71</string>
	<key>ProductName</key>
	<string>macOS</string>
	<key>ProductVersion</key>
	<string>14.2.1</string>
</dict>
</plist>`)
	name, err := parseSystemVersion(data)
	require.NoError(t, err)
	assert.Equal(t, "macOS 14.2.1 Sonoma", name)

	_, err = parseSystemVersion([]byte("not a plist"))
	assert.Error(t, err)
}

func TestParseSystemProfiler(t *testing.T) {
	out := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<array>
	<dict>
		<key>_dataType</key>
		<string>SPDisplaysDataType</string>
		<key>_items</key>
		<array>
			<dict>
				<key>sppci_model</key>
				<string>Apple M2 Pro</string>
				<key>spdisplays_vendor</key>
				<string>sppci_vendor_Apple</string>
			</dict>
		</array>
	</dict>
</array>
</plist>`)
	gpus, err := parseSystemProfiler(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple M2 Pro"}, gpus)
}

func TestParseBattery(t *testing.T) {
	b, err := parsePmset([]byte("Now drawing from 'Battery Power'\n -InternalBattery-0 (id=4653155)\t87%; discharging; 4:12 remaining present: true\n"))
	require.NoError(t, err)
	assert.Equal(t, models.Battery{Percent: 87, Status: "Discharging"}, b)

	b, err = parsePmset([]byte(" -InternalBattery-0 (id=1)\t100%; charged; 0:00 remaining present: true"))
	require.NoError(t, err)
	assert.Equal(t, models.Battery{Percent: 100, Status: "Full"}, b)

	_, err = parsePmset([]byte("Now drawing from 'AC Power'"))
	assert.Error(t, err)

	b, err = parseSysfsBattery("104\n", "Not charging\n")
	require.NoError(t, err)
	assert.Equal(t, models.Battery{Percent: 100, Status: "Not charging"}, b)

	b, err = parseWindowsBattery([]byte("55 2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, models.Battery{Percent: 55, Status: "AC Connected"}, b)

	_, err = parseWindowsBattery(nil)
	assert.Error(t, err)
}

func TestPackageCounters(t *testing.T) {
	dpkg := []byte("Package: a\nStatus: install ok installed\n\nPackage: b\nStatus: deinstall ok config-files\n\nPackage: c\nStatus: install ok installed\n")
	assert.Equal(t, 2, countDpkg(dpkg))

	apk := []byte("C:Q1abc\nP:musl\nV:1.2.4\n\nC:Q1def\nP:busybox\nV:1.36\n")
	assert.Equal(t, 2, countApk(apk))
}

func TestDetectDesktop(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name   string
		vars   map[string]string
		procs  []string
		wantDE string
		wantWM string
	}{
		{name: "gnome", vars: map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}, wantDE: "GNOME", wantWM: "Mutter"},
		{name: "kde", vars: map[string]string{"XDG_CURRENT_DESKTOP": "KDE"}, wantDE: "KDE", wantWM: "KWin"},
		{name: "hyprland", vars: map[string]string{"XDG_CURRENT_DESKTOP": "Hyprland", "HYPRLAND_INSTANCE_SIGNATURE": "x"}, wantDE: "", wantWM: "Hyprland"},
		{name: "process scan", vars: map[string]string{}, procs: []string{"bash", "bspwm"}, wantDE: "", wantWM: "bspwm"},
		{name: "nothing", vars: map[string]string{}, wantDE: "", wantWM: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de, wm := detectDesktop(env(tt.vars), tt.procs)
			assert.Equal(t, tt.wantDE, de)
			assert.Equal(t, tt.wantWM, wm)
		})
	}
}
