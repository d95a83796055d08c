package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
)

// Response headers of the clean endpoint
const (
	HeaderRunID    = "X-Txcleanup-Run-Id"
	HeaderModified = "X-Txcleanup-Modified"
)

type cleanHandler struct {
	uc      interfaces.CleanUseCase
	maxSize int64
}

// Handle reads a ledger from the request body and responds with the cleaned ledger
func (h *cleanHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, h.maxSize)

	var out bytes.Buffer
	result, err := h.uc.Run(ctx, body, &out)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, goerr.New("ledger too large", goerr.V("limit", tooLarge.Limit)), http.StatusRequestEntityTooLarge)
			return
		}
		ctxlog.From(ctx).Error("Failed to clean ledger", "error", err)
		writeError(w, goerr.New("failed to clean ledger"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(HeaderRunID, result.RunID)
	w.Header().Set(HeaderModified, strconv.Itoa(result.Modified))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Bytes()); err != nil {
		ctxlog.From(ctx).Error("Failed to write cleaned ledger", "error", err)
	}
}
