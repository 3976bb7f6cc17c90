package domain

import (
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/checker"
	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/controller"
	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/generator"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/state"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// This container provides a centralized place to manage dependencies and enables:
//   - Easy testing with a fake process runner and interface lister
//   - Configuration-driven dependency creation
//   - Explicit dependency management instead of global state
//
// Usage:
//
//	deps, err := domain.NewAppDependencies(cfg)
//	if err != nil {
//	    return err
//	}
//	outcome, err := deps.ConfigService().Apply(ctx, models.KindDHCP, body, apply.Options{})
type AppDependencies struct {
	settings *config.Config

	interfaces   hostnet.Lister
	orchestrator *apply.Orchestrator
}

// NewAppDependencies creates a new dependency container with production implementations.
//
// External processes are spawned for real and interfaces are read through netlink.
// For testing, use NewTestDependencies.
func NewAppDependencies(cfg *config.Config) (*AppDependencies, error) {
	return build(cfg, execrunner.NewProcessRunner(), hostnet.NewNetlinkLister())
}

// NewTestDependencies creates a dependency container around the given adapters.
func NewTestDependencies(cfg *config.Config, runner execrunner.Runner, interfaces hostnet.Lister) (*AppDependencies, error) {
	return build(cfg, runner, interfaces)
}

func build(cfg *config.Config, runner execrunner.Runner, interfaces hostnet.Lister) (*AppDependencies, error) {
	paths := make(map[models.ServiceKind]string)
	commands := make(map[models.ServiceKind]checker.Commands)
	services := make(map[models.ServiceKind]controller.Service)
	genOpts := generator.Options{}

	for _, kind := range cfg.ManagedKinds() {
		svc := cfg.Services.Service(kind)

		check, err := parseTemplate(kind, "check_command", svc.CheckCommand)
		if err != nil {
			return nil, err
		}
		control, err := parseTemplate(kind, "control_command", svc.ControlCommand)
		if err != nil {
			return nil, err
		}
		cmds := checker.Commands{Check: check}

		switch kind {
		case models.KindDNS:
			genOpts.ZoneDir = svc.ZoneDir
			if svc.ZoneCheckCommand != "" {
				if cmds.ZoneCheck, err = parseTemplate(kind, "zone_check_command", svc.ZoneCheckCommand); err != nil {
					return nil, err
				}
			}
		case models.KindHTTP:
			genOpts.SSLModulePath = svc.SSLModulePath
		}

		paths[kind] = svc.ConfigPath
		commands[kind] = cmds
		services[kind] = controller.Service{
			Unit:           svc.Unit,
			Command:        control,
			SupportsReload: svc.CanReload(),
		}
	}

	timeout := cfg.ExecTimeout()
	orchestrator := apply.NewOrchestrator(
		paths,
		generator.New(genOpts),
		writer.New(cfg.General.BackupRetention),
		checker.New(runner, timeout, commands),
		controller.New(runner, timeout, services),
		state.NewStore(cfg.GetAbsStateDir()),
		interfaces,
	)

	return &AppDependencies{
		settings:     cfg,
		interfaces:   interfaces,
		orchestrator: orchestrator,
	}, nil
}

func parseTemplate(kind models.ServiceKind, field, command string) (execrunner.CommandTemplate, error) {
	tmpl, err := execrunner.ParseCommandTemplate(command)
	if err != nil {
		return tmpl, errors.NewConfigError(fmt.Sprintf("invalid services.%s.%s", kind, field), err)
	}
	return tmpl, nil
}

// Settings returns the settings the container was built from.
func (d *AppDependencies) Settings() *config.Config {
	return d.settings
}

// ConfigService returns the apply orchestrator.
func (d *AppDependencies) ConfigService() ConfigService {
	return d.orchestrator
}

// Interfaces returns the host interface lister.
func (d *AppDependencies) Interfaces() hostnet.Lister {
	return d.interfaces
}
