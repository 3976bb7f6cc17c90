package api

import (
	"net/http"
)

// GetStatus returns the build version and the status of every managed daemon.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.services.StatusAll(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeJSONData(w, StatusResponse{
		Version:  h.version,
		Services: statuses,
	})
}
