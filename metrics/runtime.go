package metrics

import "runtime"

// HeapFree returns the heap memory held by the runtime that is currently unused, in bytes.
func HeapFree() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapIdle - stats.HeapReleased
}

// FreeMemory returns the memory available for allocations in bytes: the
// available host memory plus the unused heap. Without host stats only the
// unused heap is reported and ok is false.
func FreeMemory() (free uint64, ok bool) {
	stat := memStat.get()
	if stat == nil {
		return HeapFree(), false
	}
	return stat.Available + HeapFree(), true
}
