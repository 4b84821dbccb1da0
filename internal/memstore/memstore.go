package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
)

// Store keeps the collection and goal in memory. Used for dev and tests;
// the Replace/Load contract matches the SQLite repository.
type Store struct {
	mu      sync.RWMutex
	records []core.Transaction
	goal    core.Goal
	hasGoal bool
}

func New() *Store {
	return &Store{}
}

// NewFromDir seeds the store from data/transactions.json and data/goal.json
// when they exist. Missing or malformed seed files leave the store empty.
func NewFromDir(base string) *Store {
	s := New()
	if records, err := readSeed[[]core.Transaction](filepath.Join(base, "transactions.json")); err == nil {
		s.records = records
	}
	if goal, err := readSeed[core.Goal](filepath.Join(base, "goal.json")); err == nil {
		s.goal, s.hasGoal = goal, true
	}
	return s
}

func (s *Store) Load(context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Replace(_ context.Context, records []core.Transaction) error {
	next := make([]core.Transaction, len(records))
	copy(next, records)
	s.mu.Lock()
	s.records = next
	s.mu.Unlock()
	return nil
}

func (s *Store) Goal(context.Context) (core.Goal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goal, s.hasGoal, nil
}

func (s *Store) SaveGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	s.goal, s.hasGoal = g, true
	s.mu.Unlock()
	return nil
}

func readSeed[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return v, nil
}
