package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

type reportUseCase struct {
	extractors cleaner.Extractors
	store      interfaces.UsageStore
	notifier   interfaces.Notifier
}

// NewReport creates a new instance of ReportUseCase. store and notifier may be nil.
func NewReport(extractors cleaner.Extractors, store interfaces.UsageStore, notifier interfaces.Notifier) interfaces.ReportUseCase {
	return &reportUseCase{
		extractors: extractors,
		store:      store,
		notifier:   notifier,
	}
}

// Run builds the usage report. Staleness is measured against the most recent
// usage date in the report rather than the wall clock, so reports on
// historical ledgers stay meaningful.
func (uc *reportUseCase) Run(ctx context.Context, staleAfter time.Duration) (model.UsageReport, error) {
	logger := ctxlog.From(ctx)

	if err := seedUsage(ctx, uc.store, uc.extractors); err != nil {
		return nil, err
	}

	report := cleaner.Usage(uc.extractors)
	if staleAfter <= 0 || len(report) == 0 {
		return report, nil
	}

	newest := report[len(report)-1].Date
	threshold := newest.Add(-staleAfter)
	for i := range report {
		report[i].Stale = report[i].Date.Before(threshold)
	}

	stale := report.Stale()
	logger.Info("Usage report built",
		"extractors", len(report),
		"stale", len(stale),
		"newest", newest.Format(time.DateOnly),
	)

	if uc.notifier != nil && len(stale) > 0 {
		if err := uc.notifier.Notify(ctx, stale); err != nil {
			return nil, goerr.Wrap(err, "failed to notify stale extractors", goerr.V("stale", len(stale)))
		}
	}
	return report, nil
}
