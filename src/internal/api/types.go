package api

import (
	"time"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ApplyResponse returns the outcome of an apply cycle.
type ApplyResponse struct {
	Outcome *apply.Outcome `json:"outcome"`
}

// BackupInfo describes one retained backup. The directory is not exposed.
type BackupInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
}

// BackupsResponse lists the retained backups of a service's live file.
type BackupsResponse struct {
	Kind    models.ServiceKind `json:"kind"`
	Backups []BackupInfo       `json:"backups"`
}

// StatusResponse returns system status information.
type StatusResponse struct {
	Version  VersionInfo            `json:"version"`
	Services []models.ServiceStatus `json:"services"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// InterfacesResponse represents the response for the interfaces list endpoint.
type InterfacesResponse struct {
	Interfaces []hostnet.Interface `json:"interfaces"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}
