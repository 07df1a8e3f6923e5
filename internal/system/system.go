package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// PropsExtensions are the file types accepted as composition props.
var PropsExtensions = []string{".yaml", ".yml"}

// DefaultWorkers returns the number of logical CPUs, falling back to GOMAXPROCS
// when the host cannot be queried.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ResolveWorkers turns a requested worker count into a usable one:
// zero or negative means auto, and there is never more than one worker per job.
func ResolveWorkers(requested, jobs int) int {
	w := requested
	if w <= 0 {
		w = DefaultWorkers()
	}
	if jobs > 0 && w > jobs {
		w = jobs
	}
	if w < 1 {
		w = 1
	}
	return w
}

// MemoryStats is a snapshot of host memory used in run reports
type MemoryStats struct {
	TotalMB     uint64
	AvailableMB uint64
	UsedPercent float64
	HeapMB      uint64
}

// MemoryReport samples host and process memory
func MemoryReport() (MemoryStats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := MemoryStats{HeapMB: ms.HeapAlloc / 1024 / 1024}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, fmt.Errorf("read host memory: %w", err)
	}
	stats.TotalMB = vm.Total / 1024 / 1024
	stats.AvailableMB = vm.Available / 1024 / 1024
	stats.UsedPercent = vm.UsedPercent
	return stats, nil
}

// FindLatestProps returns the most recently modified props file in dir
func FindLatestProps(dir string) (string, error) {
	return findLatest(dir, PropsExtensions)
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(extensions, "/"), dir)
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
