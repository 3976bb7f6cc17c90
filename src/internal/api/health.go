package api

import (
	"fmt"
	"net/http"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

// CheckHealth reports whether every managed daemon is reachable through the
// service manager and its last syntax check passed.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	statuses, err := h.services.StatusAll(r.Context())
	if err != nil {
		logger.Warnf("Health check failed: %v", err)
		response.Healthy = false
		response.Checks["service_manager"] = CheckResult{
			Passed:  false,
			Message: "Failed to query service manager",
		}
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	for _, status := range statuses {
		result := CheckResult{Passed: true, Message: fmt.Sprintf("%s is %s", status.Kind, status.State)}

		switch {
		case status.State == models.StateFailed || status.State == models.StateUnknown:
			result.Passed = false
		case status.LastSyntaxCheck != nil && !status.LastSyntaxCheck.OK:
			result.Passed = false
			result.Message = fmt.Sprintf("%s: last syntax check failed", status.Kind)
		}

		if !result.Passed {
			response.Healthy = false
		}
		response.Checks[string(status.Kind)] = result
	}

	statusCode := http.StatusOK
	if !response.Healthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}
