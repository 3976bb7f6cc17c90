package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

func CreateBackupsCommand() *BackupsCommand {
	gc := &BackupsCommand{
		fs: flag.NewFlagSet("backups", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, false)

	return gc
}

type BackupsCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags

	kind models.ServiceKind
}

func (g *BackupsCommand) Name() string {
	return g.fs.Name()
}

func (g *BackupsCommand) Init(args []string, ctx *AppContext) error {
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

	g.deps, err = ctx.dependencies(g.cfg)
	return err
}

func (g *BackupsCommand) Run() error {
	backups, err := g.deps.ConfigService().Backups(g.kind)
	if err != nil {
		return fmt.Errorf("failed to list %s backups: %v", g.kind, err)
	}

	fmt.Fprint(g.ctx.stdout(), formatBackups(backups))
	return nil
}
