package api

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// GetConfig returns the last configuration committed for a service.
// GET /api/v1/services/{kind}/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}

	record, _, err := h.services.CurrentConfig(kind)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeJSONData(w, record)
}

// PutConfig runs an apply cycle with the request body.
// PUT /api/v1/services/{kind}/config?force=true
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	opts := apply.Options{}
	if raw := r.URL.Query().Get("force"); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			WriteInvalidRequest(w, "force must be a boolean")
			return
		}
		opts.Force = force
	}

	outcome, err := h.services.Apply(r.Context(), kind, body, opts)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if !outcome.Succeeded() {
		status, code := statusFor(outcome.Reason)
		details := map[string]interface{}{"outcome": outcome}
		if len(outcome.Diagnostics) > 0 {
			details["diagnostics"] = outcome.Diagnostics
		}
		if outcome.SyntaxCheck != nil && !outcome.SyntaxCheck.OK {
			details["diagnostics"] = outcome.SyntaxCheck.Diagnostics
		}
		if outcome.Status != nil {
			details["status"] = outcome.Status
		}
		WriteError(w, status, NewAPIError(code, outcome.Message).WithDetails(details))
		return
	}

	writeJSONData(w, ApplyResponse{Outcome: outcome})
}

// ValidateConfig validates the request body without side effects.
// POST /api/v1/services/{kind}/validate
func (h *Handler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	writeJSONData(w, h.services.Validate(kind, body))
}

// PreviewConfig generates the request body and diffs it against the live files.
// POST /api/v1/services/{kind}/preview
func (h *Handler) PreviewConfig(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	preview, err := h.services.Preview(kind, body)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeJSONData(w, preview)
}

// GetServiceStatus returns the status of one daemon.
// GET /api/v1/services/{kind}/status
func (h *Handler) GetServiceStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}

	status, err := h.services.Status(r.Context(), kind)
	if err != nil {
		writeServiceError(w, status, err)
		return
	}

	writeJSONData(w, status)
}

// ControlService runs a lifecycle action on a daemon.
// POST /api/v1/services/{kind}/actions/{action}
func (h *Handler) ControlService(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}
	action, ok := models.ParseServiceAction(chi.URLParam(r, "action"))
	if !ok {
		WriteInvalidRequest(w, "action must be one of: start, stop, restart, reload, status")
		return
	}

	status, err := h.services.Control(r.Context(), kind, action)
	if err != nil {
		writeServiceError(w, status, err)
		return
	}

	writeJSONData(w, status)
}

// GetBackups lists the retained backups of a service's live file.
// GET /api/v1/services/{kind}/backups
func (h *Handler) GetBackups(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.serviceKind(w, r)
	if !ok {
		return
	}

	backups, err := h.services.Backups(kind)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	response := BackupsResponse{
		Kind:    kind,
		Backups: make([]BackupInfo, 0, len(backups)),
	}
	for _, b := range backups {
		response.Backups = append(response.Backups, BackupInfo{
			Name:      filepath.Base(b.Path),
			CreatedAt: b.CreatedAt,
			Size:      b.Size,
		})
	}

	writeJSONData(w, response)
}

// writeServiceError writes a service manager failure together with the
// status that was observed.
func writeServiceError(w http.ResponseWriter, status models.ServiceStatus, err error) {
	code, apiCode := statusFor(errors.CodeOf(err))
	if code >= http.StatusInternalServerError {
		logger.Warnf("Service %s: %v", status.Kind, err)
	}
	WriteError(w, code, NewAPIError(apiCode, errors.PublicMessage(err)).WithDetails(map[string]interface{}{
		"status": status,
	}))
}
