// Package domain defines core interfaces for dependency injection and abstraction.
//
// This package contains the interfaces the outer layers (CLI commands and the
// HTTP API) depend on, and the container that wires their production
// implementations from the settings file.
package domain

import (
	"context"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/state"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

// ConfigService defines the operations on managed service configurations.
//
// It is implemented by *apply.Orchestrator. Bodies are raw JSON documents in
// the shape of the service's configuration model.
type ConfigService interface {
	// Kinds returns the managed service kinds in canonical order.
	Kinds() []models.ServiceKind

	// Apply validates, generates, checks, commits and reloads a configuration.
	Apply(ctx context.Context, kind models.ServiceKind, body []byte, opts apply.Options) (*apply.Outcome, error)

	// Validate checks a configuration without side effects.
	Validate(kind models.ServiceKind, body []byte) *apply.Validation

	// Preview generates a configuration and diffs it against the live files.
	Preview(kind models.ServiceKind, body []byte) (*apply.Preview, error)

	// CurrentConfig returns the last committed configuration.
	CurrentConfig(kind models.ServiceKind) (*state.Record, *models.ServiceConfig, error)

	// Backups lists the retained backups of the live configuration file.
	Backups(kind models.ServiceKind) ([]writer.Backup, error)

	// Control runs a lifecycle action and returns the resulting status.
	Control(ctx context.Context, kind models.ServiceKind, action models.ServiceAction) (models.ServiceStatus, error)

	// Status queries one daemon; StatusAll queries every managed daemon.
	Status(ctx context.Context, kind models.ServiceKind) (models.ServiceStatus, error)
	StatusAll(ctx context.Context) ([]models.ServiceStatus, error)
}

var _ ConfigService = (*apply.Orchestrator)(nil)
