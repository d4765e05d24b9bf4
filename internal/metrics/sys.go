package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth is a point-in-time view of process and local storage usage.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	StorageBytes int64
	StorageSize  string
	// QuotaUsedPct is 0 when no quota applies.
	QuotaUsedPct float64
}

// GetSysHealth collects health data for the state directory.
func GetSysHealth(dataPath string, quotaBytes int64) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	size := calculateDirSize(dataPath)
	h := SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		StorageBytes: size,
		StorageSize:  humanBytes(size),
	}
	if quotaBytes > 0 {
		h.QuotaUsedPct = float64(size) / float64(quotaBytes) * 100
	}
	return h
}

func calculateDirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func humanBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
