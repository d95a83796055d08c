package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// UsageStore persists the last-used date of every extractor across runs
type UsageStore interface {
	// Load returns last-used dates keyed by extractor description
	Load(ctx context.Context) (map[string]time.Time, error)

	// Save records a report, keeping the most recent date per extractor
	Save(ctx context.Context, report model.UsageReport) error
}

// Notifier delivers a usage report to people who maintain the rules
type Notifier interface {
	Notify(ctx context.Context, report model.UsageReport) error
}

// Storage opens ledgers by location
type Storage interface {
	NewReader(ctx context.Context, location string) (io.ReadCloser, error)
	NewWriter(ctx context.Context, location string) (io.WriteCloser, error)
}
