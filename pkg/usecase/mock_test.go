package usecase_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// MockUsageStore is a mock implementation of UsageStore
type MockUsageStore struct {
	loadFunc func(ctx context.Context) (map[string]time.Time, error)
	saveFunc func(ctx context.Context, report model.UsageReport) error
	saved    []model.UsageReport
}

func (m *MockUsageStore) Load(ctx context.Context) (map[string]time.Time, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return map[string]time.Time{}, nil
}

func (m *MockUsageStore) Save(ctx context.Context, report model.UsageReport) error {
	m.saved = append(m.saved, report)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, report)
	}
	return nil
}

// MockNotifier records notified reports
type MockNotifier struct {
	err     error
	reports []model.UsageReport
}

func (m *MockNotifier) Notify(_ context.Context, report model.UsageReport) error {
	m.reports = append(m.reports, report)
	return m.err
}

var errMock = errors.New("mock failure")

func newExtractors() cleaner.Extractors {
	return cleaner.Extractors{
		cleaner.MustNew("card number", `\s*CARD (\d{4})`,
			cleaner.Meta("card"), cleaner.Erase()),
		cleaner.MustNew("foreign currency", ` ([A-Z]{3}) [\d.]+$`,
			cleaner.Tag("${1}", cleaner.WithTransformer(strings.ToLower)), cleaner.Erase()),
		cleaner.MustNew("never used", `^NEVER`, cleaner.Erase()),
	}
}
