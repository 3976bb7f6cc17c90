package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
)

func CreateInterfacesCommand() *InterfacesCommand {
	gc := &InterfacesCommand{
		fs: flag.NewFlagSet("interfaces", flag.ExitOnError),
	}
	return gc
}

type InterfacesCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
}

func (g *InterfacesCommand) Name() string {
	return g.fs.Name()
}

func (g *InterfacesCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	g.deps, err = ctx.dependencies(cfg)
	return err
}

func (g *InterfacesCommand) Run() error {
	interfaces, err := g.deps.Interfaces().Interfaces()
	if err != nil {
		return fmt.Errorf("failed to get interfaces: %v", err)
	}

	fmt.Fprint(g.ctx.stdout(), formatInterfaces(interfaces))
	return nil
}
