package platform

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/Guliveer/vitafetch/internal/models"
)

// parseKeyValueFile parses a file with KEY=VALUE lines (like /etc/os-release).
func parseKeyValueFile(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			fields[parts[0]] = strings.Trim(parts[1], `"'`)
		}
	}
	return fields
}

// osReleaseName picks the most descriptive name from os-release fields.
func osReleaseName(fields map[string]string) string {
	if pretty := fields["PRETTY_NAME"]; pretty != "" {
		return pretty
	}
	name := fields["NAME"]
	if name == "" {
		return ""
	}
	if version := fields["VERSION_ID"]; version != "" {
		return name + " " + version
	}
	return name
}

// lspciMMRe matches the quoted columns of `lspci -mm` output.
var lspciMMRe = regexp.MustCompile(`"([^"]*)"`)

// parseLspciMM extracts display controllers from `lspci -mm` output:
//
//	00:02.0 "VGA compatible controller" "Intel Corporation" "Alder Lake-P GT2 [Iris Xe Graphics]" -r0c ...
func parseLspciMM(out []byte) []string {
	var gpus []string
	for _, line := range lines(out) {
		cols := lspciMMRe.FindAllStringSubmatch(line, -1)
		if len(cols) < 3 || !isDisplayClass(cols[0][1]) {
			continue
		}
		gpus = append(gpus, gpuName(cols[1][1], cols[2][1]))
	}
	return gpus
}

// parseLspci extracts display controllers from plain `lspci` output, taking
// everything after the class column.
func parseLspci(out []byte) []string {
	var gpus []string
	for _, line := range lines(out) {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 || !isDisplayClass(parts[1]) {
			continue
		}
		if name := strings.TrimSpace(parts[2]); name != "" {
			gpus = append(gpus, name)
		}
	}
	return gpus
}

func isDisplayClass(class string) bool {
	c := strings.ToLower(class)
	return strings.Contains(c, "vga") || strings.Contains(c, "3d controller") || strings.Contains(c, "display controller")
}

var vendorNames = []struct{ match, short string }{
	{"nvidia", "NVIDIA"},
	{"advanced micro devices", "AMD"},
	{"amd", "AMD"},
	{"intel", "Intel"},
	{"vmware", "VMware"},
	{"red hat", "Red Hat"},
	{"virtualbox", "VirtualBox"},
	{"innotek", "VirtualBox"},
	{"matrox", "Matrox"},
	{"aspeed", "ASPEED"},
}

// gpuName builds "Vendor Model", preferring the marketing name in the last
// bracket of the device string.
func gpuName(vendor, device string) string {
	v := vendor
	lv := strings.ToLower(vendor)
	for _, vn := range vendorNames {
		if strings.Contains(lv, vn.match) {
			v = vn.short
			break
		}
	}
	d := device
	if open := strings.LastIndex(device, "["); open >= 0 {
		if end := strings.LastIndex(device, "]"); end > open+1 {
			d = device[open+1 : end]
		}
	}
	d = strings.TrimSpace(d)
	if strings.HasPrefix(strings.ToLower(d), strings.ToLower(v)) {
		return d
	}
	return strings.TrimSpace(v + " " + d)
}

// systemVersion mirrors /System/Library/CoreServices/SystemVersion.plist.
type systemVersion struct {
	ProductName    string `plist:"ProductName"`
	ProductVersion string `plist:"ProductVersion"`
	BuildVersion   string `plist:"ProductBuildVersion"`
}

var macCodenames = map[string]string{
	"11": "Big Sur",
	"12": "Monterey",
	"13": "Ventura",
	"14": "Sonoma",
	"15": "Sequoia",
	"26": "Tahoe",
}

// parseSystemVersion turns SystemVersion.plist into "macOS 14.2.1 Sonoma".
func parseSystemVersion(data []byte) (string, error) {
	var sv systemVersion
	if _, err := plist.Unmarshal(data, &sv); err != nil {
		return "", fmt.Errorf("decoding SystemVersion.plist: %w", err)
	}
	if sv.ProductName == "" {
		return "", fmt.Errorf("SystemVersion.plist: missing ProductName")
	}
	name := sv.ProductName
	if sv.ProductVersion != "" {
		name += " " + sv.ProductVersion
		major := strings.SplitN(sv.ProductVersion, ".", 2)[0]
		if codename, ok := macCodenames[major]; ok {
			name += " " + codename
		}
	}
	return name, nil
}

type spDisplays struct {
	Items []struct {
		Model  string `plist:"sppci_model"`
		Vendor string `plist:"spdisplays_vendor"`
	} `plist:"_items"`
}

// parseSystemProfiler reads `system_profiler -xml SPDisplaysDataType`.
func parseSystemProfiler(out []byte) ([]string, error) {
	var reports []spDisplays
	if err := plist.NewDecoder(bytes.NewReader(out)).Decode(&reports); err != nil {
		return nil, fmt.Errorf("decoding system_profiler output: %w", err)
	}
	var gpus []string
	for _, r := range reports {
		for _, item := range r.Items {
			if item.Model != "" {
				gpus = append(gpus, item.Model)
			}
		}
	}
	return gpus, nil
}

// pmsetRe matches "87%; discharging" in `pmset -g batt` output.
var pmsetRe = regexp.MustCompile(`(\d{1,3})%;\s*([^;]+)`)

func parsePmset(out []byte) (models.Battery, error) {
	m := pmsetRe.FindSubmatch(out)
	if m == nil {
		return models.Battery{}, fmt.Errorf("pmset: no battery found")
	}
	pct, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return models.Battery{}, fmt.Errorf("pmset: %w", err)
	}
	return models.Battery{Percent: clampPercent(pct), Status: normalizeBatteryStatus(string(m[2]))}, nil
}

// parseSysfsBattery builds a battery from /sys/class/power_supply/BAT*/{capacity,status}.
func parseSysfsBattery(capacity, status string) (models.Battery, error) {
	pct, err := strconv.Atoi(strings.TrimSpace(capacity))
	if err != nil {
		return models.Battery{}, fmt.Errorf("battery capacity %q: %w", capacity, err)
	}
	return models.Battery{Percent: clampPercent(pct), Status: normalizeBatteryStatus(status)}, nil
}

// Win32_Battery.BatteryStatus codes.
var windowsBatteryStatus = map[int]string{
	1: "Discharging",
	2: "AC Connected",
	3: "Full",
	6: "Charging",
	7: "Charging",
	8: "Charging",
	9: "Charging",
}

// parseWindowsBattery reads "EstimatedChargeRemaining BatteryStatus" output.
func parseWindowsBattery(out []byte) (models.Battery, error) {
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return models.Battery{}, fmt.Errorf("no battery reported")
	}
	pct, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Battery{}, fmt.Errorf("battery charge %q: %w", fields[0], err)
	}
	code, _ := strconv.Atoi(fields[1])
	status, ok := windowsBatteryStatus[code]
	if !ok {
		status = "Unknown"
	}
	return models.Battery{Percent: clampPercent(pct), Status: status}, nil
}

func normalizeBatteryStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging":
		return "Charging"
	case "discharging":
		return "Discharging"
	case "full", "charged":
		return "Full"
	case "not charging", "ac attached", "finishing charge":
		return "Not charging"
	case "":
		return "Unknown"
	default:
		return strings.TrimSpace(s)
	}
}

func clampPercent(p int) uint8 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return uint8(p)
	}
}

// countDpkg counts installed packages in /var/lib/dpkg/status.
func countDpkg(status []byte) int {
	return bytes.Count(status, []byte("Status: install ok installed"))
}

// countApk counts packages in /lib/apk/db/installed.
func countApk(installed []byte) int {
	n := 0
	for _, line := range bytes.Split(installed, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("P:")) {
			n++
		}
	}
	return n
}

// wmForDesktop maps a desktop environment to its default window manager.
var wmForDesktop = []struct{ desktop, wm string }{
	{"gnome", "Mutter"},
	{"kde", "KWin"},
	{"plasma", "KWin"},
	{"xfce", "Xfwm4"},
	{"cinnamon", "Muffin"},
	{"mate", "Marco"},
	{"lxqt", "Openbox"},
	{"lxde", "Openbox"},
	{"budgie", "Budgie WM"},
	{"pantheon", "Gala"},
	{"deepin", "KWin"},
	{"unity", "Compiz"},
}

// knownWMs are window manager process names, checked when the environment
// gives no hint.
var knownWMs = map[string]string{
	"hyprland":      "Hyprland",
	"sway":          "sway",
	"i3":            "i3",
	"bspwm":         "bspwm",
	"dwm":           "dwm",
	"awesome":       "awesome",
	"openbox":       "Openbox",
	"xmonad":        "xmonad",
	"herbstluftwm":  "herbstluftwm",
	"qtile":         "Qtile",
	"river":         "river",
	"niri":          "niri",
	"wayfire":       "Wayfire",
	"kwin_x11":      "KWin",
	"kwin_wayland":  "KWin",
	"mutter":        "Mutter",
	"xfwm4":         "Xfwm4",
	"fluxbox":       "Fluxbox",
	"icewm":         "IceWM",
	"enlightenment": "Enlightenment",
}

// detectDesktop resolves DE and WM from the session environment, then from
// the names of running processes.
func detectDesktop(getenv func(string) string, procNames []string) (de, wm string) {
	for _, key := range []string{"XDG_CURRENT_DESKTOP", "XDG_SESSION_DESKTOP", "DESKTOP_SESSION"} {
		if v := getenv(key); v != "" {
			// "ubuntu:GNOME" lists the flavour before the desktop.
			parts := strings.Split(v, ":")
			de = parts[len(parts)-1]
			break
		}
	}

	switch {
	case getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
		wm = "Hyprland"
	case getenv("SWAYSOCK") != "":
		wm = "sway"
	case getenv("I3SOCK") != "":
		wm = "i3"
	}

	if wm == "" {
		for _, name := range procNames {
			if known, ok := knownWMs[strings.ToLower(name)]; ok {
				wm = known
				break
			}
		}
	}

	if wm == "" && de != "" {
		lde := strings.ToLower(de)
		for _, d := range wmForDesktop {
			if strings.Contains(lde, d.desktop) {
				wm = d.wm
				break
			}
		}
	}

	// Tiling WMs often set XDG_CURRENT_DESKTOP to themselves.
	if de != "" && strings.EqualFold(de, wm) {
		de = ""
	}
	return de, wm
}
