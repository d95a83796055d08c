package http

import (
	"net/http"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
	"github.com/ledgerkit/txcleanup/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "txcleanup",
		Version: types.Version,
	}
	writeJSON(r.Context(), w, http.StatusOK, status)
}
