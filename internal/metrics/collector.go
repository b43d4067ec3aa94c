package metrics

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// Sample is one snapshot of resource usage during an import
type Sample struct {
	CPUPercent     float64
	ProcCPUPercent float64
	ProcRSSMB      float64
	MemoryPercent  float64
	DiskReadMBps   float64
	DiskWriteMBps  float64
	Taken          time.Time
}

// Collector logs resource usage at a fixed interval while an import runs.
// Imports are dominated by bulk inserts, so disk write throughput is the
// number worth watching.
type Collector struct {
	interval time.Duration
	log      *zap.Logger
	proc     *process.Process

	lastDisk map[string]disk.IOCountersStat
	lastTime time.Time

	mu   sync.RWMutex
	last *Sample
}

func NewCollector(interval time.Duration, log *zap.Logger) *Collector {
	if interval < time.Second {
		interval = 30 * time.Second
	}
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &Collector{
		interval: interval,
		log:      log,
		proc:     proc,
	}
}

// Start collects until the context is cancelled. The first sample only
// seeds the disk counters.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Metrics collection stopped")
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

// Last returns the most recent sample, or nil before the first tick
func (c *Collector) Last() *Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Collector) collect() {
	s := &Sample{Taken: time.Now()}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if c.proc != nil {
		if pct, err := c.proc.Percent(0); err == nil {
			s.ProcCPUPercent = pct
		}
		if mi, err := c.proc.MemoryInfo(); err == nil {
			s.ProcRSSMB = float64(mi.RSS) / (1 << 20)
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = vm.UsedPercent
	}
	s.DiskReadMBps, s.DiskWriteMBps = c.diskRates()

	c.mu.Lock()
	c.last = s
	c.mu.Unlock()

	c.log.Info("Resource usage",
		zap.Float64("sys_cpu", s.CPUPercent),
		zap.Float64("proc_cpu", s.ProcCPUPercent),
		zap.Float64("rss_mb", s.ProcRSSMB),
		zap.Float64("mem_pct", s.MemoryPercent),
		zap.Float64("disk_r_mbps", s.DiskReadMBps),
		zap.Float64("disk_w_mbps", s.DiskWriteMBps),
	)
}

// diskRates turns cumulative per-device counters into MB/s since the
// previous sample
func (c *Collector) diskRates() (readMBps, writeMBps float64) {
	counters, err := disk.IOCounters()
	if err != nil {
		return 0, 0
	}
	now := time.Now()

	if c.lastDisk == nil {
		c.lastDisk = counters
		c.lastTime = now
		return 0, 0
	}

	elapsed := now.Sub(c.lastTime).Seconds()
	if elapsed < 0.1 {
		return 0, 0
	}

	var readDelta, writeDelta uint64
	for name, cur := range counters {
		last, ok := c.lastDisk[name]
		if !ok {
			continue
		}
		// Counters can wrap on long runs
		if cur.ReadBytes >= last.ReadBytes {
			readDelta += cur.ReadBytes - last.ReadBytes
		}
		if cur.WriteBytes >= last.WriteBytes {
			writeDelta += cur.WriteBytes - last.WriteBytes
		}
	}

	c.lastDisk = counters
	c.lastTime = now

	readMBps = float64(readDelta) / elapsed / (1 << 20)
	writeMBps = float64(writeDelta) / elapsed / (1 << 20)
	return readMBps, writeMBps
}
