package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// CreateGenerateCommand prints the daemon configuration a document compiles to,
// or its diff against the live files, without touching them.
func CreateGenerateCommand() *GenerateCommand {
	gc := &GenerateCommand{
		fs: flag.NewFlagSet("generate", flag.ExitOnError),
	}

	gc.svc.register(gc.fs, true)
	gc.fs.BoolVar(&gc.Diff, "diff", false, "Print a unified diff against the live configuration instead of the full text")

	return gc
}

type GenerateCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies
	svc  serviceFlags

	kind models.ServiceKind
	body []byte

	Diff bool
}

func (g *GenerateCommand) Name() string {
	return g.fs.Name()
}

func (g *GenerateCommand) Init(args []string, ctx *AppContext) error {
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

func (g *GenerateCommand) Run() error {
	out := g.ctx.stdout()

	preview, err := g.deps.ConfigService().Preview(g.kind, g.body)
	if err != nil {
		fmt.Fprint(out, formatDiagnosticsOf(err))
		return fmt.Errorf("failed to generate %s configuration: %v", g.kind, err)
	}

	for _, w := range preview.Warnings {
		fmt.Fprintf(out, "# Warning: %s\n", w)
	}

	if g.Diff {
		if !preview.Changed {
			fmt.Fprintln(out, "# No changes")
			return nil
		}
		fmt.Fprint(out, preview.Diff)
		return nil
	}

	for _, file := range preview.Document.Files() {
		fmt.Fprintf(out, "# ---- %s ----\n", file.Path)
		fmt.Fprint(out, file.Content)
	}
	return nil
}
