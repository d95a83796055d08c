// Package usage implements interfaces.UsageStore on a local file, Firestore or memory.
package usage

import (
	"time"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// merge folds report into dates, keeping the most recent date per rule.
// It reports whether dates changed.
func merge(dates map[string]time.Time, report model.UsageReport) bool {
	changed := false
	for _, u := range report {
		if prev, ok := dates[u.Rule]; !ok || u.Date.After(prev) {
			dates[u.Rule] = u.Date
			changed = true
		}
	}
	return changed
}
