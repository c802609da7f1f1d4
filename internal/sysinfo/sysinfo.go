// Package sysinfo reports host resource usage for the status endpoint.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host is a point-in-time snapshot of the machine serving the catalog.
type Host struct {
	OS             string  `json:"os"`
	Arch           string  `json:"arch"`
	Goroutines     int     `json:"goroutines"`
	UptimeSeconds  uint64  `json:"uptime_seconds"`
	MemTotalBytes  uint64  `json:"mem_total_bytes"`
	MemAvailBytes  uint64  `json:"mem_available_bytes"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	HeapAllocBytes uint64  `json:"heap_alloc_bytes"`
}

// Snapshot collects host memory and uptime. Fields gopsutil cannot read on
// this platform are left zero and reported in the returned error.
func Snapshot(ctx context.Context) (Host, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	h := Host{
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
	}

	var errs []error

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read memory: %w", err))
	} else {
		h.MemTotalBytes = vm.Total
		h.MemAvailBytes = vm.Available
		h.MemUsedPercent = vm.UsedPercent
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read uptime: %w", err))
	} else {
		h.UptimeSeconds = uptime
	}

	return h, errors.Join(errs...)
}
