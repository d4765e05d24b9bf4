package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const slotExt = ".json"

// FileBackend stores one file per key under a base directory. The quota is
// measured over the slot files in that directory.
type FileBackend struct {
	mu       sync.Mutex
	basePath string
	quota    int64
}

// NewFileBackend creates the base directory if needed.
func NewFileBackend(basePath string, quotaBytes int64) (*FileBackend, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileBackend{basePath: basePath, quota: quotaBytes}, nil
}

func (f *FileBackend) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "-").Replace(key)
	return filepath.Join(f.basePath, safe+slotExt)
}

func (f *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	used, err := f.usedExcept(target)
	if err != nil {
		return err
	}
	if !fits(f.quota, used, slotSize(key, value)) {
		return ErrCapacityExceeded
	}

	tmpPath := target + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to commit slot %s: %w", key, err)
	}
	return nil
}

func (f *FileBackend) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove slot %s: %w", key, err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// usedExcept sums the quota cost of every slot file except skip.
func (f *FileBackend) usedExcept(skip string) (int64, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to list storage directory: %w", err)
	}
	var used int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), slotExt) {
			continue
		}
		full := filepath.Join(f.basePath, e.Name())
		if full == skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += int64(len(strings.TrimSuffix(e.Name(), slotExt))) + info.Size()
	}
	return used, nil
}
