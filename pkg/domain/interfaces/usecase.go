package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// CleanUseCase cleans every transaction of a ledger
type CleanUseCase interface {
	// Run reads a ledger from in and writes the cleaned ledger to out
	Run(ctx context.Context, in io.Reader, out io.Writer) (*model.CleanResult, error)
}

// ReportUseCase builds extractor usage reports
type ReportUseCase interface {
	// Run returns the usage report. Extractors unused for longer than staleAfter are flagged; zero disables flagging.
	Run(ctx context.Context, staleAfter time.Duration) (model.UsageReport, error)
}
