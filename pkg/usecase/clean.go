package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ledgerkit/txcleanup/pkg/cleaner"
	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
	"github.com/ledgerkit/txcleanup/pkg/infra/ledger"
	"github.com/ledgerkit/txcleanup/pkg/utils/async"
)

type cleanUseCase struct {
	extractors cleaner.Extractors
	store      interfaces.UsageStore
	options    []cleaner.Option
	background *async.Group
}

// CleanOption is a functional option for NewClean
type CleanOption func(*cleanUseCase)

// WithUsageStore loads usage before and saves it after every run
func WithUsageStore(store interfaces.UsageStore) CleanOption {
	return func(uc *cleanUseCase) {
		uc.store = store
	}
}

// WithBackgroundSave saves usage on g after the ledger was written instead of
// before Run returns. Save failures are then only logged.
func WithBackgroundSave(g *async.Group) CleanOption {
	return func(uc *cleanUseCase) {
		uc.background = g
	}
}

// WithCleanerOptions passes options to cleaner.Clean
func WithCleanerOptions(opts ...cleaner.Option) CleanOption {
	return func(uc *cleanUseCase) {
		uc.options = append(uc.options, opts...)
	}
}

// NewClean creates a new instance of CleanUseCase
func NewClean(extractors cleaner.Extractors, opts ...CleanOption) interfaces.CleanUseCase {
	uc := &cleanUseCase{extractors: extractors}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run cleans every transaction read from in and writes the ledger to out
func (uc *cleanUseCase) Run(ctx context.Context, in io.Reader, out io.Writer) (*model.CleanResult, error) {
	result := &model.CleanResult{RunID: uuid.NewString()}
	logger := ctxlog.From(ctx).With("run_id", result.RunID)

	if err := seedUsage(ctx, uc.store, uc.extractors); err != nil {
		return nil, err
	}

	directives, err := ledger.Parse(in)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse ledger", goerr.V("run_id", result.RunID))
	}
	result.Directives = len(directives)

	for i, d := range directives {
		txn, ok := d.(*model.Transaction)
		if !ok {
			continue
		}
		result.Transactions++

		cleaned := cleaner.Clean(txn, uc.extractors, uc.options...)
		// unchanged transactions keep their original text
		if ledger.Format(cleaned) == ledger.Format(txn) {
			continue
		}
		result.Modified++
		logger.Debug("Transaction cleaned",
			"date", txn.Date.Format(time.DateOnly),
			"payee", cleaned.Payee,
		)
		directives[i] = cleaned
	}

	if err := ledger.Write(out, directives); err != nil {
		return nil, goerr.Wrap(err, "failed to write ledger", goerr.V("run_id", result.RunID))
	}

	if err := uc.saveUsage(ctx, result.RunID); err != nil {
		return nil, err
	}

	logger.Info("Ledger cleaned",
		"directives", result.Directives,
		"transactions", result.Transactions,
		"modified", result.Modified,
	)
	return result, nil
}

func seedUsage(ctx context.Context, store interfaces.UsageStore, extractors cleaner.Extractors) error {
	if store == nil {
		return nil
	}
	dates, err := store.Load(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load extractor usage")
	}
	extractors.Seed(dates)
	return nil
}

// usedOnly drops extractors that never matched
func usedOnly(report model.UsageReport) model.UsageReport {
	var used model.UsageReport
	for _, u := range report {
		if u.Date.After(cleaner.AgesAgo) {
			used = append(used, u)
		}
	}
	return used
}

func (uc *cleanUseCase) saveUsage(ctx context.Context, runID string) error {
	if uc.store == nil {
		return nil
	}
	report := usedOnly(cleaner.Usage(uc.extractors))
	save := func(ctx context.Context) error {
		if err := uc.store.Save(ctx, report); err != nil {
			return goerr.Wrap(err, "failed to save extractor usage", goerr.V("run_id", runID))
		}
		return nil
	}

	if uc.background != nil {
		uc.background.Dispatch(ctx, "save usage", save)
		return nil
	}
	return save(ctx)
}
