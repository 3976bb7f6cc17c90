// Package apply runs the apply cycle of a service configuration: validate,
// generate, stage, syntax check, commit and reload.
//
// Cycles of one service kind are serialized; different kinds run in parallel.
// A cycle that has started always runs to a terminal state even if the caller
// goes away, so a staged or committed file is never left half-done.
package apply

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maksimkurb/hostconf/src/internal/checker"
	"github.com/maksimkurb/hostconf/src/internal/controller"
	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/generator"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/metrics"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/schema"
	"github.com/maksimkurb/hostconf/src/internal/state"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

var logger = log.Prefixed("apply")

// Options controls a single apply cycle.
type Options struct {
	// Force reloads the daemon even when the configuration did not change.
	Force bool
}

// Orchestrator owns the live configuration files of the managed services.
type Orchestrator struct {
	paths      map[models.ServiceKind]string
	generator  *generator.Generator
	writer     *writer.Writer
	checker    *checker.Checker
	controller *controller.Controller
	store      *state.Store
	interfaces hostnet.Lister

	locks map[models.ServiceKind]*sync.Mutex

	checksMu   sync.RWMutex
	lastChecks map[models.ServiceKind]models.SyntaxCheckOutcome

	now func() time.Time
}

// NewOrchestrator creates an orchestrator.
//
// Parameters:
//   - paths: live configuration path of every managed service kind
//   - gen: renders validated configurations
//   - w: stages, commits and backs up files
//   - chk: runs the daemons' syntax checkers
//   - ctl: drives the daemons through the service manager
//   - store: remembers the last committed configuration (optional, can be nil)
//   - interfaces: host interface inventory for DHCP warnings (optional, can be nil)
func NewOrchestrator(
	paths map[models.ServiceKind]string,
	gen *generator.Generator,
	w *writer.Writer,
	chk *checker.Checker,
	ctl *controller.Controller,
	store *state.Store,
	interfaces hostnet.Lister,
) *Orchestrator {
	locks := make(map[models.ServiceKind]*sync.Mutex, len(paths))
	for kind := range paths {
		locks[kind] = &sync.Mutex{}
	}
	return &Orchestrator{
		paths:      paths,
		generator:  gen,
		writer:     w,
		checker:    chk,
		controller: ctl,
		store:      store,
		interfaces: interfaces,
		locks:      locks,
		lastChecks: make(map[models.ServiceKind]models.SyntaxCheckOutcome),
		now:        time.Now,
	}
}

// Kinds returns the managed service kinds in canonical order.
func (o *Orchestrator) Kinds() []models.ServiceKind {
	var kinds []models.ServiceKind
	for _, kind := range models.AllKinds() {
		if _, ok := o.paths[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func (o *Orchestrator) path(kind models.ServiceKind) (string, error) {
	path, ok := o.paths[kind]
	if !ok {
		return "", errors.NewNotFoundError(fmt.Sprintf("service %s is not managed", kind))
	}
	return path, nil
}

// Apply runs one apply cycle for the JSON configuration in body.
//
// The workflow is:
//  1. Validates the body against the schema of kind
//  2. Generates the daemon's configuration files
//  3. Stages them beside the live files (skipped when nothing changed)
//  4. Runs the daemon's syntax checker on the staged files
//  5. Commits the staged files, keeping a backup of the previous ones
//  6. Reloads the daemon, or stops it if the configuration disables it
//
// Failures end the cycle in StateRejected; the returned error is only set when
// kind is not managed or ctx is done before the cycle finishes. In the latter
// case the cycle keeps running in the background.
func (o *Orchestrator) Apply(ctx context.Context, kind models.ServiceKind, body []byte, opts Options) (*Outcome, error) {
	path, err := o.path(kind)
	if err != nil {
		return nil, err
	}

	var outcome *Outcome
	err = o.detached(ctx, func(ctx context.Context) {
		lock := o.locks[kind]
		lock.Lock()
		defer lock.Unlock()
		outcome = o.run(ctx, kind, path, body, opts)
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// detached runs fn on a context that ignores the caller's cancellation and
// waits for it unless ctx is done first.
func (o *Orchestrator) detached(ctx context.Context, fn func(context.Context)) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(context.WithoutCancel(ctx))
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		select {
		case <-done:
			return nil
		default:
		}
		logger.Warnf("Caller left before the operation finished; it continues in the background")
		return ctx.Err()
	}
}

func (o *Orchestrator) run(ctx context.Context, kind models.ServiceKind, path string, body []byte, opts Options) *Outcome {
	out := &Outcome{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: o.now(),
	}
	out.advance(StateReceived)
	defer o.finish(out)

	result := schema.ValidateJSON(kind, body)
	if !result.Valid() {
		out.Diagnostics = result.Diagnostics
		out.reject(errors.NewValidationError(fmt.Sprintf("%s configuration is invalid", kind), result.Diagnostics))
		return out
	}
	cfg := result.Config
	out.advance(StateValidated)
	out.Warnings = o.warnings(cfg)

	doc, err := o.generator.Generate(cfg, path)
	if err != nil {
		out.reject(err)
		return out
	}
	out.Checksum = doc.Checksum
	out.Warnings = append(out.Warnings, staleWarnings(o.staleFiles(out.Kind, doc))...)
	out.advance(StateGenerated)

	live, err := o.isLive(doc)
	if err != nil {
		out.reject(err)
		return out
	}

	if live {
		out.Noop = true
		out.advance(StateCommitted)
		metrics.Get().ApplyNoop.WithLabelValues(string(kind)).Inc()
		o.remember(out, cfg)
		if !opts.Force {
			logger.Infof("Apply %s (%s): configuration unchanged, nothing to do", out.ID, kind)
			return out
		}
	} else {
		if !o.deploy(ctx, out, doc) {
			return out
		}
		o.remember(out, cfg)
	}

	action := models.ActionReload
	if !cfg.IsEnabled() {
		action = models.ActionStop
	}
	status, err := o.controller.Control(ctx, kind, action)
	out.Status = &status
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeTimeout) {
			err = errors.NewServiceControlError(fmt.Sprintf("configuration was saved but %s could not %s", kind, action), err)
		}
		out.reject(err)
		return out
	}
	out.advance(StateReloaded)
	return out
}

// deploy stages, checks and commits doc. It reports whether the files were committed.
func (o *Orchestrator) deploy(ctx context.Context, out *Outcome, doc *models.GeneratedDocument) bool {
	staged, err := o.writer.Stage(doc)
	if err != nil {
		out.reject(err)
		return false
	}
	out.advance(StateStaged)

	check, err := o.checker.CheckStaged(ctx, out.Kind, staged)
	if err != nil {
		o.writer.Discard(staged)
		out.reject(err)
		return false
	}
	o.setLastCheck(out.Kind, check)
	out.SyntaxCheck = &check
	if !check.OK {
		o.writer.Discard(staged)
		out.reject(errors.NewSyntaxCheckError(fmt.Sprintf("%s rejected the generated configuration", out.Kind), nil))
		return false
	}
	out.advance(StateChecked)

	backups, err := o.writer.Commit(staged)
	if err != nil {
		out.reject(err)
		return false
	}
	for _, b := range backups {
		logger.Debugf("Apply %s (%s): previous file kept as %s", out.ID, out.Kind, b)
	}
	out.advance(StateCommitted)
	return true
}

// isLive reports whether every file of doc already has the generated content.
func (o *Orchestrator) isLive(doc *models.GeneratedDocument) (bool, error) {
	for _, file := range doc.Files() {
		sum, exists, err := o.writer.Checksum(file.Path)
		if err != nil {
			return false, err
		}
		if !exists || sum != file.Checksum {
			return false, nil
		}
	}
	return true, nil
}

func (o *Orchestrator) remember(out *Outcome, cfg *models.ServiceConfig) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(cfg, out.ID, out.Checksum, o.now()); err != nil {
		logger.Errorf("Apply %s (%s): failed to record committed configuration: %v", out.ID, out.Kind, err)
		out.Warnings = append(out.Warnings, "configuration was committed but could not be recorded as current")
	}
}

func (o *Orchestrator) warnings(cfg *models.ServiceConfig) []string {
	if cfg.Kind != models.KindDHCP || o.interfaces == nil || !cfg.IsEnabled() {
		return nil
	}
	ifaces, err := o.interfaces.Interfaces()
	if err != nil {
		logger.Warnf("Failed to list host interfaces: %v", err)
		return []string{"host interfaces could not be inspected"}
	}
	return hostnet.SubnetWarnings(cfg.DHCP, ifaces)
}

func (o *Orchestrator) finish(out *Outcome) {
	out.FinishedAt = o.now()
	m := metrics.Get()
	m.ApplyTotal.WithLabelValues(string(out.Kind), string(out.State)).Inc()
	m.ApplyDuration.WithLabelValues(string(out.Kind)).Observe(out.FinishedAt.Sub(out.StartedAt).Seconds())

	if out.State == StateRejected {
		logger.Warnf("Apply %s (%s) rejected: %v", out.ID, out.Kind, out.err)
		return
	}
	logger.Infof("Apply %s (%s) finished in state %s", out.ID, out.Kind, out.State)
}

func (o *Orchestrator) setLastCheck(kind models.ServiceKind, outcome models.SyntaxCheckOutcome) {
	o.checksMu.Lock()
	defer o.checksMu.Unlock()
	o.lastChecks[kind] = outcome
}

func (o *Orchestrator) lastCheck(kind models.ServiceKind) *models.SyntaxCheckOutcome {
	o.checksMu.RLock()
	defer o.checksMu.RUnlock()
	outcome, ok := o.lastChecks[kind]
	if !ok {
		return nil
	}
	return &outcome
}
