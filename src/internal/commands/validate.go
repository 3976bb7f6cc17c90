package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
)

// CreateValidateCommand validates the settings file and, with -service,
// a configuration document for that service.
func CreateValidateCommand() *ValidateCommand {
	gc := &ValidateCommand{
		fs: flag.NewFlagSet("validate", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, true)

	return gc
}

type ValidateCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags
}

func (g *ValidateCommand) Name() string {
	return g.fs.Name()
}

func (g *ValidateCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	if g.svc.kind == "" {
		return nil
	}
	g.deps, err = ctx.dependencies(cfg)
	return err
}

func (g *ValidateCommand) Run() error {
	out := g.ctx.stdout()

	if g.deps == nil {
		fmt.Fprintf(out, "Settings file %s is valid (managed services: %v)\n", g.ctx.ConfigPath, g.cfg.ManagedKinds())
		return nil
	}

	kind, err := g.svc.serviceKind()
	if err != nil {
		return err
	}
	body, err := g.svc.readDocument(g.ctx)
	if err != nil {
		return err
	}

	result := g.deps.ConfigService().Validate(kind, body)
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintf(out, "%s configuration is invalid:\n", kind)
		fmt.Fprint(out, formatDiagnostics(result.Diagnostics))
		return fmt.Errorf("%s configuration is invalid", kind)
	}

	fmt.Fprintf(out, "%s configuration is valid\n", kind)
	return nil
}
