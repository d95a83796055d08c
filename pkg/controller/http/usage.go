package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

type usageHandler struct {
	uc        interfaces.ReportUseCase
	staleDays *openapi3.Schema
}

type usageResponse struct {
	Extractors model.UsageReport `json:"extractors"`
	Stale      int               `json:"stale"`
}

// Handle responds with the extractor usage report. Query parameter
// stale_days flags extractors unused for that many days.
func (h *usageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var staleAfter time.Duration
	if v := r.URL.Query().Get("stale_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err == nil {
			err = h.staleDays.VisitJSON(float64(days))
		}
		if err != nil {
			writeError(w, goerr.Wrap(err, "invalid stale_days", goerr.V("stale_days", v)), http.StatusBadRequest)
			return
		}
		staleAfter = time.Duration(days) * 24 * time.Hour
	}

	report, err := h.uc.Run(ctx, staleAfter)
	if err != nil {
		ctxlog.From(ctx).Error("Failed to build usage report", "error", err)
		writeError(w, goerr.New("failed to build usage report"), http.StatusInternalServerError)
		return
	}

	if report == nil {
		report = model.UsageReport{}
	}
	writeJSON(ctx, w, http.StatusOK, &usageResponse{
		Extractors: report,
		Stale:      len(report.Stale()),
	})
}
