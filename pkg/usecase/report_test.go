package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
	"github.com/ledgerkit/txcleanup/pkg/usecase"
)

func usageStore() *MockUsageStore {
	return &MockUsageStore{
		loadFunc: func(ctx context.Context) (map[string]time.Time, error) {
			return map[string]time.Time{
				"card number":      model.Date(2024, 6, 1),
				"foreign currency": model.Date(2024, 1, 1),
			}, nil
		},
	}
}

func TestReportUseCase_Run(t *testing.T) {
	ctx := context.Background()
	notifier := &MockNotifier{}
	uc := usecase.NewReport(newExtractors(), usageStore(), notifier)

	report, err := uc.Run(ctx, 90*24*time.Hour)
	gt.NoError(t, err)
	gt.Equal(t, report, model.UsageReport{
		{Date: cleaner.AgesAgo, Rule: "never used", Stale: true},
		{Date: model.Date(2024, 1, 1), Rule: "foreign currency", Stale: true},
		{Date: model.Date(2024, 6, 1), Rule: "card number"},
	})

	gt.A(t, notifier.reports).Length(1)
	gt.Equal(t, notifier.reports[0], report.Stale())
}

func TestReportUseCase_Run_NoStaleness(t *testing.T) {
	notifier := &MockNotifier{}
	uc := usecase.NewReport(newExtractors(), usageStore(), notifier)

	report, err := uc.Run(context.Background(), 0)
	gt.NoError(t, err)
	gt.A(t, report.Stale()).Length(0)
	gt.A(t, notifier.reports).Length(0)
}

func TestReportUseCase_Run_NothingStale(t *testing.T) {
	notifier := &MockNotifier{}
	uc := usecase.NewReport(newExtractors()[:1], usageStore(), notifier)

	_, err := uc.Run(context.Background(), time.Hour)
	gt.NoError(t, err)
	gt.A(t, notifier.reports).Length(0)
}

func TestReportUseCase_Run_Errors(t *testing.T) {
	t.Run("notifier failure", func(t *testing.T) {
		uc := usecase.NewReport(newExtractors(), usageStore(), &MockNotifier{err: errMock})
		_, err := uc.Run(context.Background(), time.Hour)
		gt.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &MockUsageStore{
			loadFunc: func(ctx context.Context) (map[string]time.Time, error) {
				return nil, errMock
			},
		}
		uc := usecase.NewReport(newExtractors(), store, nil)
		_, err := uc.Run(context.Background(), time.Hour)
		gt.Error(t, err)
	})

	t.Run("nil store and notifier", func(t *testing.T) {
		uc := usecase.NewReport(newExtractors(), nil, nil)
		report, err := uc.Run(context.Background(), time.Hour)
		gt.NoError(t, err)
		gt.A(t, report).Length(3)
	})
}
