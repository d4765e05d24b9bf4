package storage

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/jislas1039-svg/higher-self/internal/logger"
)

const (
	EngineFile   = "file"
	EngineSQLite = "sqlite"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

type Options struct {
	Path       string
	QuotaBytes int64
	RedisAddr  string
	Logger     *logger.Logger
}

// NewByEngine builds the backend named by engine.
func NewByEngine(engine string, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineFile:
		return NewFileBackend(opts.Path, opts.QuotaBytes)
	case EngineSQLite:
		return NewSQLiteBackend(filepath.Join(opts.Path, "state.db"), opts.QuotaBytes)
	case EngineRedis:
		log := opts.Logger
		if log == nil {
			log = logger.NewNop()
		}
		return NewRedisBackend(log, opts.RedisAddr, opts.QuotaBytes)
	case EngineMemory:
		return NewMemoryBackend(opts.QuotaBytes), nil
	default:
		return nil, errors.New("unsupported storage engine: " + engine)
	}
}
