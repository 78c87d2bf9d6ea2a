// Package models defines the probe result types used throughout vitafetch.
// Every probe produces exactly one of the Value variants below; the set is
// closed, so consumers switch on the concrete type instead of reflecting.
package models

import "time"

// Kind identifies a Value variant.
type Kind int

const (
	KindText Kind = iota
	KindDuration
	KindCPU
	KindTemperature
	KindList
	KindUsage
	KindPartitions
	KindInterfaces
	KindBattery
)

var kindNames = [...]string{
	KindText:        "text",
	KindDuration:    "duration",
	KindCPU:         "cpu",
	KindTemperature: "temperature",
	KindList:        "list",
	KindUsage:       "usage",
	KindPartitions:  "partitions",
	KindInterfaces:  "interfaces",
	KindBattery:     "battery",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a single probe result. Values are immutable once handed to a
// report: slices inside them must not be modified afterwards.
type Value interface {
	Kind() Kind
	isValue()
}

// Text is a plain string fact (hostname, kernel, shell, ...).
type Text string

// Duration is a time span fact (uptime).
type Duration time.Duration

// CPU describes the processor.
type CPU struct {
	Model   string  `json:"model"`
	Cores   int     `json:"cores"`
	Threads int     `json:"threads"`
	MHz     float64 `json:"mhz,omitempty"`
}

// Temperature is a sensor reading in degrees Celsius.
type Temperature float64

// List is an ordered list of descriptions (GPUs).
type List []string

// Usage is a used/total pair in bytes.
type Usage struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// Percent returns the used share of total in the range [0, 100].
func (u Usage) Percent() float64 {
	if u.Total == 0 {
		return 0
	}
	p := float64(u.Used) / float64(u.Total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Partition represents usage for a single mounted filesystem.
type Partition struct {
	Mount string `json:"mount"`
	Fs    string `json:"fs,omitempty"`
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// Usage returns the partition's used/total pair.
func (p Partition) Usage() Usage {
	return Usage{Used: p.Used, Total: p.Total}
}

// Partitions is the list of displayed filesystems.
type Partitions []Partition

// Interface is a network interface with its primary address.
type Interface struct {
	Name string `json:"name"`
	Addr string `json:"addr"`
}

// Interfaces is the list of displayed network interfaces.
type Interfaces []Interface

// Battery is the charge level and charger status.
type Battery struct {
	Percent uint8  `json:"percent"`
	Status  string `json:"status"`
}

func (Text) Kind() Kind        { return KindText }
func (Duration) Kind() Kind    { return KindDuration }
func (CPU) Kind() Kind         { return KindCPU }
func (Temperature) Kind() Kind { return KindTemperature }
func (List) Kind() Kind        { return KindList }
func (Usage) Kind() Kind       { return KindUsage }
func (Partitions) Kind() Kind  { return KindPartitions }
func (Interfaces) Kind() Kind  { return KindInterfaces }
func (Battery) Kind() Kind     { return KindBattery }

func (Text) isValue()        {}
func (Duration) isValue()    {}
func (CPU) isValue()         {}
func (Temperature) isValue() {}
func (List) isValue()        {}
func (Usage) isValue()       {}
func (Partitions) isValue()  {}
func (Interfaces) isValue()  {}
func (Battery) isValue()     {}
