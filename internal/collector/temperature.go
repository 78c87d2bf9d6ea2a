// CPU temperature probe: picks the hottest CPU sensor reading.
// Uses gopsutil host sensors; GPU sensors are excluded so the reading
// always describes the processor.
package collector

import (
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Sensor name substrings used to identify CPU temperature sensors across platforms.
// Linux:  coretemp_core_0_input, k10temp_tctl_input, acpitz_temp1_input, zenpower_tctl_input
// macOS:  TC0P (CPU proximity), TC0D (CPU die), TCXC (CPU core)
// Windows: CPU Package, CPU Core #0, etc.
var cpuSensorKeys = []string{
	"cpu", "core", "package",
	"tctl", "tdie", "k10temp", "coretemp",
	"tc0p", "tc0d", "tcxc",
	"acpitz", "zenpower",
}

// GPU sensors sometimes match a CPU key ("amdgpu_edge" has no "cpu" but
// "nouveau_core" has "core"); they are skipped.
var gpuSensorKeys = []string{
	"gpu", "nvidia", "radeon",
	"tg0p", "tg0d",
	"amdgpu", "nouveau",
}

// minValidTemp is the minimum temperature (°C) considered valid.
const minValidTemp = 0.0

// maxValidTemp is the maximum temperature (°C) considered valid.
// Readings above this are likely sensor errors.
const maxValidTemp = 150.0

// hottestCPUTemperature returns the maximum valid CPU sensor reading.
func hottestCPUTemperature(temps []host.TemperatureStat) (float64, bool) {
	var hottest float64
	found := false
	for _, t := range temps {
		if !isValidTemperature(t.Temperature) {
			continue
		}
		name := strings.ToLower(t.SensorKey)
		if !matchesSensor(name, cpuSensorKeys) || matchesSensor(name, gpuSensorKeys) {
			continue
		}
		if !found || t.Temperature > hottest {
			hottest = t.Temperature
			found = true
		}
	}
	return hottest, found
}

// matchesSensor checks if the sensor name contains any of the given key substrings.
func matchesSensor(name string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}

// isValidTemperature returns true if the temperature is within a plausible range.
func isValidTemperature(temp float64) bool {
	return temp > minValidTemp && temp <= maxValidTemp
}
