// Package observability reports technical self-metrics of the process.
package observability

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats carries the health snapshot served at /stats.
type ProcessStats struct {
	PID        int     `json:"pid"`
	Status     string  `json:"status"`
	CPUPercent float64 `json:"cpu_percent"`
	RAMBytes   uint64  `json:"ram_bytes"`
}

// Monitor collects memory, CPU and status metrics for the current process.
type Monitor struct {
	proc *process.Process
}

func NewMonitor() (*Monitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Monitor{proc: p}, nil
}

func (m *Monitor) Snapshot() (ProcessStats, error) {
	memInfo, err := m.proc.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpuPercent, err := m.proc.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}
	status, err := m.proc.Status()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{
		PID:        os.Getpid(),
		Status:     status,
		CPUPercent: cpuPercent,
		RAMBytes:   memInfo.RSS,
	}, nil
}
