package usage

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// Memory keeps usage for the lifetime of the process
type Memory struct {
	mu    sync.Mutex
	dates map[string]time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{dates: make(map[string]time.Time)}
}

// Load implements interfaces.UsageStore
func (s *Memory) Load(_ context.Context) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.dates), nil
}

// Save implements interfaces.UsageStore
func (s *Memory) Save(_ context.Context, report model.UsageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(s.dates, report)
	return nil
}
