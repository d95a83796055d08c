package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

func TestUsageReport_String(t *testing.T) {
	report := model.UsageReport{
		{Date: model.Date(1900, 1, 1), Rule: "never used"},
		{Date: model.Date(2071, 3, 14), Rule: "card number", Stale: true},
	}
	gt.Equal(t, report.String(), "1900-01-01: never used\n2071-03-14: card number")
	gt.Equal(t, report.Stale(), model.UsageReport{report[1]})
	gt.Equal(t, model.UsageReport{}.String(), "")
}
