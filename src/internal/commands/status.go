package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

func CreateStatusCommand() *StatusCommand {
	gc := &StatusCommand{
		fs: flag.NewFlagSet("status", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, false)

	return gc
}

type StatusCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags
}

func (g *StatusCommand) Name() string {
	return g.fs.Name()
}

func (g *StatusCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.svc.kind != "" {
		if _, err := g.svc.serviceKind(); err != nil {
			return err
		}
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	g.deps, err = ctx.dependencies(cfg)
	return err
}

func (g *StatusCommand) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	svc := g.deps.ConfigService()

	var statuses []models.ServiceStatus
	if g.svc.kind != "" {
		kind, _ := g.svc.serviceKind()
		status, err := svc.Status(ctx, kind)
		if err != nil {
			return fmt.Errorf("failed to get %s status: %v", kind, err)
		}
		statuses = append(statuses, status)
	} else {
		all, err := svc.StatusAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to get service status: %v", err)
		}
		statuses = all
	}

	for _, status := range statuses {
		fmt.Fprint(g.ctx.stdout(), formatStatus(status))
	}
	return nil
}
