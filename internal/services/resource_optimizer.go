package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceOptimizer sizes the generate-all worker pool from the host's CPU
// count, memory and current load.
type ResourceOptimizer struct {
	mu                 sync.RWMutex
	config             ResourceOptimizerConfig
	cpuCores           int
	memoryGB           float64
	currentCPUUsage    float64
	currentMemoryUsage float64
	workers            int
	history            []BatchSnapshot
	logger             *slog.Logger

	cpuPercent    func(ctx context.Context, interval time.Duration) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// ResourceOptimizerConfig holds the bounds and load thresholds used when
// sizing the pool.
type ResourceOptimizerConfig struct {
	MinWorkers      int
	MaxWorkers      int
	CPUThreshold    float64
	MemoryThreshold float64
	MaxHistorySize  int
	SampleInterval  time.Duration
	Logger          *slog.Logger
}

// BatchSnapshot records the outcome of one generate-all run.
type BatchSnapshot struct {
	Timestamp   time.Time     `json:"timestamp"`
	Workers     int           `json:"workers"`
	Players     int           `json:"players"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration"`
	CPUUsage    float64       `json:"cpu_usage"`
	MemoryUsage float64       `json:"memory_usage"`
}

// SystemInfo is the host view reported by the health endpoint.
type SystemInfo struct {
	CPUCores     int     `json:"cpu_cores"`
	MemoryGB     float64 `json:"memory_gb"`
	CPUUsage     float64 `json:"cpu_usage"`
	MemoryUsage  float64 `json:"memory_usage"`
	Goroutines   int     `json:"goroutines"`
	BatchWorkers int     `json:"batch_workers"`
	RecordedRuns int     `json:"recorded_runs"`
}

// NewResourceOptimizer creates a new resource optimizer
func NewResourceOptimizer(config ResourceOptimizerConfig) *ResourceOptimizer {
	if config.MinWorkers <= 0 {
		config.MinWorkers = 1
	}
	if config.MaxWorkers < config.MinWorkers {
		config.MaxWorkers = config.MinWorkers
	}
	if config.CPUThreshold == 0 {
		config.CPUThreshold = 80.0
	}
	if config.MemoryThreshold == 0 {
		config.MemoryThreshold = 85.0
	}
	if config.MaxHistorySize == 0 {
		config.MaxHistorySize = 50
	}
	if config.SampleInterval == 0 {
		config.SampleInterval = 200 * time.Millisecond
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ro := &ResourceOptimizer{
		config:   config,
		cpuCores: runtime.NumCPU(),
		history:  make([]BatchSnapshot, 0),
		logger:   logger,
		cpuPercent: func(ctx context.Context, interval time.Duration) ([]float64, error) {
			return cpu.PercentWithContext(ctx, interval, false)
		},
		virtualMemory: mem.VirtualMemoryWithContext,
	}

	if memInfo, err := ro.virtualMemory(context.Background()); err == nil {
		ro.memoryGB = float64(memInfo.Total) / (1024 * 1024 * 1024)
	} else {
		ro.logger.Warn("Could not get memory info, using default", "error", err)
		ro.memoryGB = 8.0
	}

	ro.recalculate()

	ro.logger.Info("Resource optimizer initialized",
		"cpu_cores", ro.cpuCores,
		"memory_gb", ro.memoryGB,
		"batch_workers", ro.workers)

	return ro
}

// recalculate derives the worker limit: twice the CPU count, reduced on
// small hosts and under load, clamped to the configured bounds.
func (ro *ResourceOptimizer) recalculate() {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	base := ro.cpuCores * 2

	memoryFactor := 1.0
	if ro.memoryGB < 4.0 {
		memoryFactor = 0.5
	} else if ro.memoryGB < 8.0 {
		memoryFactor = 0.75
	}

	loadFactor := 1.0
	if ro.currentCPUUsage > ro.config.CPUThreshold {
		loadFactor = 0.7
	} else if ro.currentMemoryUsage > ro.config.MemoryThreshold {
		loadFactor = 0.8
	}

	workers := int(float64(base) * memoryFactor * loadFactor)
	if workers < ro.config.MinWorkers {
		workers = ro.config.MinWorkers
	}
	if workers > ro.config.MaxWorkers {
		workers = ro.config.MaxWorkers
	}

	if workers != ro.workers {
		ro.logger.Debug("Batch worker limit changed",
			"previous", ro.workers,
			"workers", workers,
			"cpu_usage", ro.currentCPUUsage,
			"memory_usage", ro.currentMemoryUsage)
	}
	ro.workers = workers
}

// Workers returns the current worker limit for batch generation.
func (ro *ResourceOptimizer) Workers() int {
	ro.mu.RLock()
	defer ro.mu.RUnlock()
	return ro.workers
}

// UpdateSystemMetrics samples CPU and memory usage and recomputes the
// worker limit.
func (ro *ResourceOptimizer) UpdateSystemMetrics(ctx context.Context) error {
	cpuPercent, err := ro.cpuPercent(ctx, ro.config.SampleInterval)
	if err != nil {
		return fmt.Errorf("failed to get CPU usage: %w", err)
	}

	memInfo, err := ro.virtualMemory(ctx)
	if err != nil {
		return fmt.Errorf("failed to get memory usage: %w", err)
	}

	ro.mu.Lock()
	if len(cpuPercent) > 0 {
		ro.currentCPUUsage = cpuPercent[0]
	}
	ro.currentMemoryUsage = memInfo.UsedPercent
	ro.mu.Unlock()

	ro.recalculate()
	return nil
}

// RecordBatch appends a run to the bounded history.
func (ro *ResourceOptimizer) RecordBatch(snapshot BatchSnapshot) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}
	snapshot.CPUUsage = ro.currentCPUUsage
	snapshot.MemoryUsage = ro.currentMemoryUsage

	ro.history = append(ro.history, snapshot)
	if len(ro.history) > ro.config.MaxHistorySize {
		ro.history = ro.history[len(ro.history)-ro.config.MaxHistorySize:]
	}
}

// History returns up to limit of the most recent runs, oldest first.
func (ro *ResourceOptimizer) History(limit int) []BatchSnapshot {
	ro.mu.RLock()
	defer ro.mu.RUnlock()

	if limit <= 0 || limit > len(ro.history) {
		limit = len(ro.history)
	}
	out := make([]BatchSnapshot, limit)
	copy(out, ro.history[len(ro.history)-limit:])
	return out
}

// SystemInfo returns the current host view.
func (ro *ResourceOptimizer) SystemInfo() SystemInfo {
	ro.mu.RLock()
	defer ro.mu.RUnlock()

	return SystemInfo{
		CPUCores:     ro.cpuCores,
		MemoryGB:     ro.memoryGB,
		CPUUsage:     ro.currentCPUUsage,
		MemoryUsage:  ro.currentMemoryUsage,
		Goroutines:   runtime.NumGoroutine(),
		BatchWorkers: ro.workers,
		RecordedRuns: len(ro.history),
	}
}
