package cleaner

import (
	"cmp"
	"slices"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// Usage reports, for every extractor, the date of the most recent transaction
// it matched. Entries are sorted by date, then description.
func Usage(extractors Extractors) model.UsageReport {
	report := make(model.UsageReport, 0, len(extractors))
	for _, e := range extractors {
		report = append(report, model.ExtractorUsage{
			Date: e.LastUsed(),
			Rule: e.Description,
		})
	}
	slices.SortStableFunc(report, func(a, b model.ExtractorUsage) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Rule, b.Rule)
	})
	return report
}
