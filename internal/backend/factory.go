package backend

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/log"
	"fintrack/internal/memstore"
	"fintrack/internal/storage"
)

var errMissingDBPath = errors.New("sqlite database path is required for the sqlite backend")

func errInvalidType(t Type) error {
	return fmt.Errorf("invalid backend type: %s", t)
}

// DefaultFactory builds record stores from config.
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New("backend")
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteStore:
		repo, err := storage.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.InfoContext(ctx, "initialized sqlite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryStore:
		dir := config.DataDirectory
		if dir == "" {
			dir = "data"
		}
		f.logger.InfoContext(ctx, "initialized memory backend", "data_directory", dir)
		return &Result{Store: memstore.NewFromDir(dir)}, nil

	default:
		return nil, errInvalidType(config.Type)
	}
}
