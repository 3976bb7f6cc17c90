package apply

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/schema"
	"github.com/maksimkurb/hostconf/src/internal/state"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

// Validation is the result of a validate-only request.
type Validation struct {
	Valid       bool               `json:"valid"`
	Diagnostics schema.Diagnostics `json:"diagnostics,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// Preview is a generated document compared with the live files.
type Preview struct {
	Document *models.GeneratedDocument `json:"document"`
	// Changed is false when applying the document would be a no-op.
	Changed  bool     `json:"changed"`
	Diff     string   `json:"diff"`
	Warnings []string `json:"warnings,omitempty"`
	// Stale lists files deployed by the last committed configuration that the
	// document no longer produces or references. They are left in place.
	Stale []string `json:"stale,omitempty"`
}

// Validate checks body against the schema of kind without touching any file.
func (o *Orchestrator) Validate(kind models.ServiceKind, body []byte) *Validation {
	result := schema.ValidateJSON(kind, body)
	if !result.Valid() {
		return &Validation{Diagnostics: result.Diagnostics}
	}
	return &Validation{Valid: true, Warnings: o.warnings(result.Config)}
}

// Preview validates and generates body and diffs it against the live files.
// Nothing is staged.
func (o *Orchestrator) Preview(kind models.ServiceKind, body []byte) (*Preview, error) {
	path, err := o.path(kind)
	if err != nil {
		return nil, err
	}

	result := schema.ValidateJSON(kind, body)
	if !result.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("%s configuration is invalid", kind), result.Diagnostics)
	}

	doc, err := o.generator.Generate(result.Config, path)
	if err != nil {
		return nil, err
	}

	var diff strings.Builder
	for _, file := range doc.Files() {
		live, _, err := o.writer.Read(file.Path)
		if err != nil {
			return nil, err
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(live)),
			B:        difflib.SplitLines(file.Content),
			FromFile: file.Path,
			ToFile:   file.Path + " (generated)",
			Context:  3,
		})
		if err != nil {
			return nil, errors.NewInternalError("failed to compute diff", err)
		}
		diff.WriteString(text)
	}

	stale := o.staleFiles(kind, doc)
	for _, p := range stale {
		fmt.Fprintf(&diff, "Only in %s: %s\n", filepath.Dir(p), filepath.Base(p))
	}

	return &Preview{
		Document: doc,
		Changed:  diff.Len() > 0,
		Diff:     diff.String(),
		Warnings: append(o.warnings(result.Config), staleWarnings(stale)...),
		Stale:    stale,
	}, nil
}

// staleFiles returns the existing files of the last committed configuration
// of kind that doc neither deploys nor mentions, such as the zone file of a
// removed master zone.
func (o *Orchestrator) staleFiles(kind models.ServiceKind, doc *models.GeneratedDocument) []string {
	if o.store == nil {
		return nil
	}
	_, previous, err := o.store.Load(kind)
	if err != nil || previous == nil {
		return nil
	}
	prevDoc, err := o.generator.Generate(previous, doc.Path)
	if err != nil {
		logger.Warnf("Failed to regenerate the committed %s configuration: %v", kind, err)
		return nil
	}

	current := make(map[string]bool)
	for _, file := range doc.Files() {
		current[file.Path] = true
	}

	var stale []string
	for _, file := range prevDoc.Files() {
		// Slave zones keep their file under the same name.
		if current[file.Path] || strings.Contains(doc.Content, file.Path) {
			continue
		}
		if _, exists, err := o.writer.Checksum(file.Path); err != nil || !exists {
			continue
		}
		stale = append(stale, file.Path)
	}
	return stale
}

func staleWarnings(stale []string) []string {
	warnings := make([]string, 0, len(stale))
	for _, p := range stale {
		warnings = append(warnings, fmt.Sprintf("%s is no longer used by the configuration and can be removed", filepath.Base(p)))
	}
	return warnings
}

// CurrentConfig returns the last configuration committed for kind.
func (o *Orchestrator) CurrentConfig(kind models.ServiceKind) (*state.Record, *models.ServiceConfig, error) {
	if _, err := o.path(kind); err != nil {
		return nil, nil, err
	}
	if o.store == nil {
		return nil, nil, errors.NewNotFoundError(fmt.Sprintf("no configuration has been applied to %s yet", kind))
	}
	return o.store.Load(kind)
}

// Backups lists the retained backups of the live configuration file of kind.
func (o *Orchestrator) Backups(kind models.ServiceKind) ([]writer.Backup, error) {
	path, err := o.path(kind)
	if err != nil {
		return nil, err
	}
	return o.writer.Backups(path)
}

// Control runs a lifecycle action. Mutating actions take the service's apply
// lock, so they never interleave with an apply cycle.
func (o *Orchestrator) Control(ctx context.Context, kind models.ServiceKind, action models.ServiceAction) (models.ServiceStatus, error) {
	if _, err := o.path(kind); err != nil {
		return models.ServiceStatus{Kind: kind, State: models.StateUnknown}, err
	}
	if !action.Mutates() {
		return o.Status(ctx, kind)
	}

	var (
		status    models.ServiceStatus
		actionErr error
	)
	err := o.detached(ctx, func(ctx context.Context) {
		lock := o.locks[kind]
		lock.Lock()
		defer lock.Unlock()
		logger.Infof("Running %s on %s", action, kind)
		status, actionErr = o.controller.Control(ctx, kind, action)
	})
	if err != nil {
		return models.ServiceStatus{Kind: kind, State: models.StateUnknown}, err
	}
	status.LastSyntaxCheck = o.lastCheck(kind)
	return status, actionErr
}

// Status queries the daemon of kind and attaches its last syntax check.
func (o *Orchestrator) Status(ctx context.Context, kind models.ServiceKind) (models.ServiceStatus, error) {
	if _, err := o.path(kind); err != nil {
		return models.ServiceStatus{Kind: kind, State: models.StateUnknown}, err
	}
	status, err := o.controller.Status(ctx, kind)
	status.LastSyntaxCheck = o.lastCheck(kind)
	return status, err
}

// StatusAll queries every managed daemon in parallel.
func (o *Orchestrator) StatusAll(ctx context.Context) ([]models.ServiceStatus, error) {
	statuses, err := o.controller.StatusAll(ctx)
	if err != nil {
		return nil, err
	}

	managed := statuses[:0]
	for _, status := range statuses {
		if _, ok := o.paths[status.Kind]; !ok {
			continue
		}
		status.LastSyntaxCheck = o.lastCheck(status.Kind)
		managed = append(managed, status)
	}
	return managed, nil
}
