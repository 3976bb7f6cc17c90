package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// CreateControlCommand runs a lifecycle action: control -service dns restart
func CreateControlCommand() *ControlCommand {
	gc := &ControlCommand{
		fs: flag.NewFlagSet("control", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, false)

	return gc
}

type ControlCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags

	kind   models.ServiceKind
	action models.ServiceAction
}

func (g *ControlCommand) Name() string {
	return g.fs.Name()
}

func (g *ControlCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	kind, err := g.svc.serviceKind()
	if err != nil {
		return err
	}
	g.kind = kind

	if g.fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one action: start, stop, restart, reload or status")
	}
	action, ok := models.ParseServiceAction(g.fs.Arg(0))
	if !ok {
		return fmt.Errorf("unknown action %q (supported: start, stop, restart, reload, status)", g.fs.Arg(0))
	}
	g.action = action

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	g.deps, err = ctx.dependencies(g.cfg)
	return err
}

func (g *ControlCommand) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	status, err := g.deps.ConfigService().Control(ctx, g.kind, g.action)
	fmt.Fprint(g.ctx.stdout(), formatStatus(status))
	if err != nil {
		return fmt.Errorf("failed to %s %s: %v", g.action, g.kind, err)
	}
	return nil
}
