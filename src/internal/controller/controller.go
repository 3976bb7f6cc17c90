// Package controller drives daemon lifecycles through the platform service
// manager and normalizes its output into models.ServiceStatus.
//
// Status classification looks at the service manager's words first (systemd's
// "Active:" line when present) and falls back to LSB init script exit codes.
// Anything that fits neither is reported as unknown.
package controller

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/metrics"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// maxMessages caps the output lines quoted in a failed action's error.
const maxMessages = 5

var (
	logger     = log.Prefixed("controller")
	wordRegexp = regexp.MustCompile(`[a-z]+`)
	activeLine = regexp.MustCompile(`(?m)^\s*Active:\s*(.*)$`)
	resultWord = regexp.MustCompile(`result:\s*([a-z-]+)`)
)

// Service describes how to control one daemon.
type Service struct {
	// Unit is the service manager's name for the daemon.
	Unit string
	// Command is run with {{action}} and {{unit}} substituted.
	Command execrunner.CommandTemplate
	// SupportsReload enables reload; otherwise reload requests restart.
	SupportsReload bool
}

// Controller issues lifecycle commands through an execrunner.Runner.
type Controller struct {
	runner   execrunner.Runner
	timeout  time.Duration
	services map[models.ServiceKind]Service
	now      func() time.Time
}

// New creates a Controller.
func New(runner execrunner.Runner, timeout time.Duration, services map[models.ServiceKind]Service) *Controller {
	return &Controller{
		runner:   runner,
		timeout:  timeout,
		services: services,
		now:      time.Now,
	}
}

// Kinds returns the service kinds the controller manages, in canonical order.
func (c *Controller) Kinds() []models.ServiceKind {
	var kinds []models.ServiceKind
	for _, kind := range models.AllKinds() {
		if _, ok := c.services[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Control runs action and returns the daemon's status afterwards.
// A failed mutating action returns the status together with a SERVICE_CONTROL_ERROR.
func (c *Controller) Control(ctx context.Context, kind models.ServiceKind, action models.ServiceAction) (models.ServiceStatus, error) {
	switch action {
	case models.ActionStatus:
		return c.Status(ctx, kind)
	case models.ActionReload:
		return c.ReloadOrRestart(ctx, kind)
	case models.ActionStart, models.ActionStop, models.ActionRestart:
	default:
		return c.unknown(kind, ""), errors.NewValidationError(fmt.Sprintf("unsupported action %q", action), nil)
	}

	if err := c.act(ctx, kind, action); err != nil {
		return c.statusAfterFailure(ctx, kind, err)
	}
	return c.Status(ctx, kind)
}

// ReloadOrRestart reloads the daemon if it supports reload, restarting it when
// reload is unsupported or fails.
func (c *Controller) ReloadOrRestart(ctx context.Context, kind models.ServiceKind) (models.ServiceStatus, error) {
	svc, ok := c.services[kind]
	if !ok {
		return c.unknown(kind, ""), errors.NewNotFoundError(fmt.Sprintf("service %s is not managed", kind))
	}

	if svc.SupportsReload {
		err := c.act(ctx, kind, models.ActionReload)
		if err == nil {
			return c.Status(ctx, kind)
		}
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return c.statusAfterFailure(ctx, kind, err)
		}
		logger.Warnf("Reload of %s failed, restarting instead: %v", kind, err)
	}

	if err := c.act(ctx, kind, models.ActionRestart); err != nil {
		return c.statusAfterFailure(ctx, kind, err)
	}
	return c.Status(ctx, kind)
}

// Status queries the daemon state. It never changes it.
func (c *Controller) Status(ctx context.Context, kind models.ServiceKind) (models.ServiceStatus, error) {
	svc, ok := c.services[kind]
	if !ok {
		return c.unknown(kind, ""), errors.NewNotFoundError(fmt.Sprintf("service %s is not managed", kind))
	}

	name, args := svc.Command.Render(map[string]string{"action": string(models.ActionStatus), "unit": svc.Unit})
	res, err := c.runner.Run(ctx, name, args, c.timeout)
	if err != nil {
		status := c.unknown(kind, errors.PublicMessage(err))
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return status, err
		}
		return status, nil
	}

	state := Classify(res.Output(), res.ExitCode)
	status := models.ServiceStatus{
		Kind:      kind,
		State:     state,
		Message:   statusMessage(svc.Unit, state),
		Output:    strings.TrimSpace(res.Output()),
		CheckedAt: c.now(),
	}

	up := 0.0
	if state == models.StateRunning {
		up = 1
	}
	metrics.Get().ServiceUp.WithLabelValues(string(kind)).Set(up)
	return status, nil
}

// StatusAll queries every managed service in parallel.
func (c *Controller) StatusAll(ctx context.Context) ([]models.ServiceStatus, error) {
	kinds := c.Kinds()
	statuses := make([]models.ServiceStatus, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			status, err := c.Status(gctx, kind)
			statuses[i] = status
			if err != nil && !errors.HasCode(err, errors.ErrCodeTimeout) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// act runs a mutating action and turns a non-zero exit into a SERVICE_CONTROL_ERROR.
func (c *Controller) act(ctx context.Context, kind models.ServiceKind, action models.ServiceAction) error {
	svc, ok := c.services[kind]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("service %s is not managed", kind))
	}

	name, args := svc.Command.Render(map[string]string{"action": string(action), "unit": svc.Unit})
	logger.Infof("Running %s for %s (%s)", action, kind, svc.Unit)

	res, err := c.runner.Run(ctx, name, args, c.timeout)
	if err != nil {
		metrics.Get().ServiceActions.WithLabelValues(string(kind), string(action), "error").Inc()
		return err
	}
	if res.ExitCode != 0 {
		metrics.Get().ServiceActions.WithLabelValues(string(kind), string(action), "failed").Inc()
		msg := fmt.Sprintf("%s %s exited with status %d", action, svc.Unit, res.ExitCode)
		if out := firstLines(res.Output(), maxMessages); out != "" {
			msg += ": " + out
		}
		return errors.NewServiceControlError(msg, nil)
	}
	metrics.Get().ServiceActions.WithLabelValues(string(kind), string(action), "ok").Inc()
	return nil
}

// statusAfterFailure attaches the current status to a failed action.
func (c *Controller) statusAfterFailure(ctx context.Context, kind models.ServiceKind, actionErr error) (models.ServiceStatus, error) {
	status, err := c.Status(ctx, kind)
	if err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
		logger.Warnf("Status of %s after failed action is unavailable: %v", kind, err)
	}
	if status.State == models.StateRunning || status.State == models.StateStopped {
		status.Message = fmt.Sprintf("%s; last action failed", status.Message)
	}
	return status, actionErr
}

func (c *Controller) unknown(kind models.ServiceKind, message string) models.ServiceStatus {
	if message == "" {
		message = "Unable to determine service status"
	}
	return models.ServiceStatus{Kind: kind, State: models.StateUnknown, Message: message, CheckedAt: c.now()}
}

// Classify maps service manager output and exit code onto a ServiceState.
func Classify(output string, exitCode int) models.ServiceState {
	text := strings.ToLower(output)
	if m := activeLine.FindStringSubmatch(output); m != nil {
		text = strings.ToLower(m[1])
	}

	words := map[string]bool{}
	for _, w := range wordRegexp.FindAllString(text, -1) {
		words[w] = true
	}

	result := ""
	if m := resultWord.FindStringSubmatch(text); m != nil {
		result = m[1]
	}

	switch {
	case words["failed"] || strings.Contains(text, "auto-restart") || (result != "" && result != "success"):
		return models.StateFailed
	// LSB "dead but pid file exists" (1) and "dead but subsys locked" (2).
	case words["dead"] && (exitCode == 1 || exitCode == 2):
		return models.StateFailed
	case words["inactive"] || words["dead"] || words["stopped"] || strings.Contains(text, "not running"):
		return models.StateStopped
	case words["active"] || words["running"] || words["alive"]:
		return models.StateRunning
	}

	// LSB init script status codes.
	switch exitCode {
	case 0:
		return models.StateRunning
	case 1, 2:
		return models.StateFailed
	case 3:
		return models.StateStopped
	default:
		return models.StateUnknown
	}
}

func statusMessage(unit string, state models.ServiceState) string {
	switch state {
	case models.StateRunning:
		return fmt.Sprintf("Service %s is running", unit)
	case models.StateStopped:
		return fmt.Sprintf("Service %s is not running", unit)
	case models.StateFailed:
		return fmt.Sprintf("Service %s has failed", unit)
	default:
		return fmt.Sprintf("Unable to determine status of %s", unit)
	}
}

func firstLines(output string, n int) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "; ")
}
