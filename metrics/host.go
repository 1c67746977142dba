package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"github.com/safing/pqbase/log"
)

const hostStatTTL = time.Second

// cachedStat refreshes a host statistic at most once per hostStatTTL.
type cachedStat[T any] struct {
	lock    sync.Mutex
	name    string
	fetch   func() (*T, error)
	value   *T
	expires time.Time
}

func (c *cachedStat[T]) get() *T {
	c.lock.Lock()
	defer c.lock.Unlock()

	if time.Now().Before(c.expires) {
		return c.value
	}

	var err error
	c.value, err = c.fetch()
	if err != nil {
		log.Warningf("metrics: failed to get %s: %s", c.name, err)
		c.value = nil
	}
	c.expires = time.Now().Add(hostStatTTL)
	return c.value
}

var (
	loadStat = &cachedStat[load.AvgStat]{name: "load average", fetch: load.Avg}
	memStat  = &cachedStat[mem.VirtualMemoryStat]{name: "memory stats", fetch: mem.VirtualMemory}
)

// loadGauge returns the load average per CPU selected by pick.
func loadGauge(pick func(*load.AvgStat) float64) func() float64 {
	return func() float64 {
		if stat := loadStat.get(); stat != nil {
			return pick(stat) / float64(runtime.NumCPU())
		}
		return 0
	}
}

func memGauge(pick func(*mem.VirtualMemoryStat) float64) func() float64 {
	return func() float64 {
		if stat := memStat.get(); stat != nil {
			return pick(stat)
		}
		return 0
	}
}

func registerHostMetrics() {
	gauges := map[string]func() float64{
		"pqbase_host_load_avg_1":  loadGauge(func(s *load.AvgStat) float64 { return s.Load1 }),
		"pqbase_host_load_avg_5":  loadGauge(func(s *load.AvgStat) float64 { return s.Load5 }),
		"pqbase_host_load_avg_15": loadGauge(func(s *load.AvgStat) float64 { return s.Load15 }),

		"pqbase_host_mem_total_bytes":     memGauge(func(s *mem.VirtualMemoryStat) float64 { return float64(s.Total) }),
		"pqbase_host_mem_used_bytes":      memGauge(func(s *mem.VirtualMemoryStat) float64 { return float64(s.Used) }),
		"pqbase_host_mem_available_bytes": memGauge(func(s *mem.VirtualMemoryStat) float64 { return float64(s.Available) }),
		"pqbase_host_mem_used_percent":    memGauge(func(s *mem.VirtualMemoryStat) float64 { return s.UsedPercent }),

		"pqbase_heap_free_bytes": func() float64 { return float64(HeapFree()) },
	}
	for name, fn := range gauges {
		set.GetOrCreateGauge(name, fn)
	}
}
