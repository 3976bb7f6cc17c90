// Package checker runs each daemon's own offline configuration checker against
// staged files and classifies the result.
//
// The exit status decides the outcome: zero passes, anything else fails with the
// checker's output lines as diagnostics. A checker that cannot be started also
// fails the check, so a missing tool never lets an unverified file go live.
// Exceeding the time bound is returned as a TIMEOUT error instead of an outcome.
package checker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/metrics"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/utils"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

// maxDiagnostics caps the lines kept from a checker's output.
const maxDiagnostics = 50

var logger = log.Prefixed("checker")

// Commands are the checker command templates of one service.
type Commands struct {
	// Check validates the main configuration file; {{path}} is the staged file.
	Check execrunner.CommandTemplate
	// ZoneCheck validates one zone file; {{zone}} is the zone name, {{path}} the staged file.
	ZoneCheck execrunner.CommandTemplate
}

// Checker runs syntax checks through an execrunner.Runner.
type Checker struct {
	runner   execrunner.Runner
	timeout  time.Duration
	commands map[models.ServiceKind]Commands
	now      func() time.Time
}

// New creates a Checker.
func New(runner execrunner.Runner, timeout time.Duration, commands map[models.ServiceKind]Commands) *Checker {
	return &Checker{
		runner:   runner,
		timeout:  timeout,
		commands: commands,
		now:      time.Now,
	}
}

// Check runs the service checker against the file at path.
func (c *Checker) Check(ctx context.Context, kind models.ServiceKind, path string) (models.SyntaxCheckOutcome, error) {
	cmds, ok := c.commands[kind]
	if !ok || cmds.Check.IsZero() {
		return c.failed(fmt.Sprintf("no syntax checker configured for %s", kind)), nil
	}

	outcome, err := c.run(ctx, cmds.Check, map[string]string{"path": path})
	c.record(kind, outcome, err)
	return outcome, err
}

// CheckZone parses a zone file in-process and then runs the zone checker, if configured.
func (c *Checker) CheckZone(ctx context.Context, zone, path string) (models.SyntaxCheckOutcome, error) {
	if diags := parseZone(zone, path); len(diags) > 0 {
		outcome := c.failed(diags...)
		c.record(models.KindDNS, outcome, nil)
		return outcome, nil
	}

	cmds := c.commands[models.KindDNS]
	if cmds.ZoneCheck.IsZero() {
		return c.passed(), nil
	}

	outcome, err := c.run(ctx, cmds.ZoneCheck, map[string]string{"zone": zone, "path": path})
	c.record(models.KindDNS, outcome, err)
	return outcome, err
}

// CheckStaged checks every staged file of a document, companions first.
// Diagnostics refer to live paths rather than staged temporary names.
func (c *Checker) CheckStaged(ctx context.Context, kind models.ServiceKind, staged *writer.Staged) (models.SyntaxCheckOutcome, error) {
	var diags []string

	for _, file := range staged.Companions() {
		outcome, err := c.CheckZone(ctx, file.Label, file.StagedPath)
		if err != nil {
			return models.SyntaxCheckOutcome{}, err
		}
		for _, d := range outcome.Diagnostics {
			diags = append(diags, fmt.Sprintf("zone %s: %s", file.Label, livePaths(d, file)))
		}
	}

	primary := staged.Primary()
	outcome, err := c.Check(ctx, kind, primary.StagedPath)
	if err != nil {
		return models.SyntaxCheckOutcome{}, err
	}
	for _, d := range outcome.Diagnostics {
		diags = append(diags, livePaths(d, primary))
	}

	if len(diags) > 0 {
		return c.failed(diags...), nil
	}
	return c.passed(), nil
}

func (c *Checker) run(ctx context.Context, tmpl execrunner.CommandTemplate, values map[string]string) (models.SyntaxCheckOutcome, error) {
	name, args := tmpl.Render(values)
	res, err := c.runner.Run(ctx, name, args, c.timeout)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return models.SyntaxCheckOutcome{}, err
		}
		logger.Warnf("Syntax checker %s could not be run: %v", name, err)
		return c.failed(fmt.Sprintf("syntax checker %s is unavailable", name)), nil
	}

	if res.ExitCode == 0 {
		return c.passed(), nil
	}

	diags := outputLines(res.Output())
	if len(diags) == 0 {
		diags = []string{fmt.Sprintf("%s exited with status %d", name, res.ExitCode)}
	}
	return c.failed(diags...), nil
}

func (c *Checker) record(kind models.ServiceKind, outcome models.SyntaxCheckOutcome, err error) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case !outcome.OK:
		result = "failed"
	}
	metrics.Get().SyntaxChecks.WithLabelValues(string(kind), result).Inc()
}

func (c *Checker) passed() models.SyntaxCheckOutcome {
	return models.SyntaxCheckOutcome{OK: true, CheckedAt: c.now()}
}

func (c *Checker) failed(diags ...string) models.SyntaxCheckOutcome {
	return models.SyntaxCheckOutcome{OK: false, Diagnostics: diags, CheckedAt: c.now()}
}

// parseZone runs the zone through the miekg/dns parser and returns its errors.
func parseZone(zone, path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("cannot read zone file: %v", err)}
	}
	defer utils.CloseOrWarn(f)

	zp := dns.NewZoneParser(f, dns.Fqdn(zone), path)
	for {
		if _, ok := zp.Next(); !ok {
			break
		}
	}
	if err := zp.Err(); err != nil {
		return []string{err.Error()}
	}
	return nil
}

// outputLines returns the non-empty trimmed lines of checker output.
func outputLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxDiagnostics {
			break
		}
	}
	return lines
}

func livePaths(diag string, file writer.StagedFile) string {
	return strings.ReplaceAll(diag, file.StagedPath, file.LivePath)
}
