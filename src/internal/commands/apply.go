package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

func CreateApplyCommand() *ApplyCommand {
	gc := &ApplyCommand{
		fs: flag.NewFlagSet("apply", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, true)
	gc.fs.BoolVar(&gc.Force, "force", false, "Reload the service even if the generated configuration is unchanged")

	return gc
}

type ApplyCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags

	kind models.ServiceKind
	body []byte

	Force bool
}

func (g *ApplyCommand) Name() string {
	return g.fs.Name()
}

func (g *ApplyCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	kind, err := g.svc.serviceKind()
	if err != nil {
		return err
	}
	g.kind = kind

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	if g.body, err = g.svc.readDocument(ctx); err != nil {
		return err
	}

	g.deps, err = ctx.dependencies(g.cfg)
	return err
}

func (g *ApplyCommand) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := g.deps.ConfigService().Apply(ctx, g.kind, g.body, apply.Options{Force: g.Force})
	if err != nil {
		return fmt.Errorf("failed to apply %s configuration: %v", g.kind, err)
	}

	fmt.Fprint(g.ctx.stdout(), formatOutcome(outcome))

	if !outcome.Succeeded() {
		return fmt.Errorf("%s configuration was rejected: %s", g.kind, outcome.Message)
	}
	return nil
}
