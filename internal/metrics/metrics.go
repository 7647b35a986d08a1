// Package metrics samples host load and memory for the watch panel.
package metrics

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Unknown is shown for a value that could not be collected
const Unknown = "?"

// Snapshot is one sample of host metrics, already formatted for display
type Snapshot struct {
	Load string
	Mem  string
}

// Provider produces metric snapshots
type Provider interface {
	Snapshot(ctx context.Context) Snapshot
}

// LoadFunc and MemFunc are the raw collectors used by SystemProvider
type (
	LoadFunc func(ctx context.Context) (*load.AvgStat, error)
	MemFunc  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
)

// SystemProvider reads metrics from the host through gopsutil
type SystemProvider struct {
	loadAvg LoadFunc
	virtMem MemFunc
}

// NewSystemProvider returns a provider backed by gopsutil
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{
		loadAvg: load.AvgWithContext,
		virtMem: mem.VirtualMemoryWithContext,
	}
}

// Snapshot collects load and memory; a failed collector yields Unknown
func (p *SystemProvider) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{Load: Unknown, Mem: Unknown}

	if avg, err := p.loadAvg(ctx); err == nil && avg != nil {
		snap.Load = FormatLoad(avg.Load1, avg.Load5, avg.Load15)
	}

	if vm, err := p.virtMem(ctx); err == nil && vm != nil {
		snap.Mem = FormatMem(vm.Used)
	}

	return snap
}

// FormatLoad renders load averages the way uptime prints them
func FormatLoad(one, five, fifteen float64) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", one, five, fifteen)
}

// FormatMem renders used bytes as whole megabytes
func FormatMem(usedBytes uint64) string {
	return fmt.Sprintf("%dMB", usedBytes/(1024*1024))
}

// StaticProvider always returns the same snapshot
type StaticProvider struct {
	Value Snapshot
}

// Snapshot returns the fixed value
func (p StaticProvider) Snapshot(context.Context) Snapshot {
	return p.Value
}
