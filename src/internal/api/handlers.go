package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

var logger = log.Prefixed("api")

// Handler manages all API endpoints and dependencies.
type Handler struct {
	services   domain.ConfigService
	interfaces hostnet.Lister
	version    VersionInfo
}

// NewHandler creates a new API handler.
func NewHandler(services domain.ConfigService, interfaces hostnet.Lister, version VersionInfo) *Handler {
	return &Handler{
		services:   services,
		interfaces: interfaces,
		version:    version,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(DataResponse{Data: data}); err != nil {
		logger.Warnf("Failed to encode response: %v", err)
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// readBody reads the request body. It writes the error response itself and
// reports false when the body cannot be read.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteInvalidRequest(w, "Failed to read request body")
		return nil, false
	}
	if len(body) == 0 {
		WriteInvalidRequest(w, "Request body must be a JSON document")
		return nil, false
	}
	return body, true
}

// serviceKind resolves the {kind} URL parameter to a managed service.
func (h *Handler) serviceKind(w http.ResponseWriter, r *http.Request) (models.ServiceKind, bool) {
	kind, err := models.ParseServiceKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteNotFound(w, "Service")
		return "", false
	}
	for _, managed := range h.services.Kinds() {
		if managed == kind {
			return kind, true
		}
	}
	WriteNotFound(w, "Service "+string(kind))
	return "", false
}
