package backend

import (
	"context"

	"fintrack/internal/ledger"
)

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result is a created record store plus its optional cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates record stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config selects and parameterizes the record store.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Memory backend seed directory
	DataDirectory string
}

type Type string

const (
	SQLiteStore Type = "sqlite"
	MemoryStore Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	return t == SQLiteStore || t == MemoryStore
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return errInvalidType(c.Type)
	}
	if c.Type == SQLiteStore && c.SQLiteDBPath == "" {
		return errMissingDBPath
	}
	return nil
}
