package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

// DependencyFactory builds the dependency container from loaded settings.
type DependencyFactory func(cfg *config.Config) (*domain.AppDependencies, error)

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Build version, reported by serve
	Version string
	Commit  string
	Date    string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer

	// NewDependencies defaults to domain.NewAppDependencies.
	NewDependencies DependencyFactory
}

func (c *AppContext) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *AppContext) stdin() io.Reader {
	if c.Stdin == nil {
		return os.Stdin
	}
	return c.Stdin
}

func (c *AppContext) dependencies(cfg *config.Config) (*domain.AppDependencies, error) {
	factory := c.NewDependencies
	if factory == nil {
		factory = domain.NewAppDependencies
	}
	deps, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return deps, nil
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// serviceFlags holds the -service and -file flags shared by the document commands.
type serviceFlags struct {
	kind string
	file string
}

func (f *serviceFlags) register(fs *flag.FlagSet, withFile bool) {
	fs.StringVar(&f.kind, "service", "", "Service kind: dns, dhcp or http")
	if withFile {
		fs.StringVar(&f.file, "file", "-", "JSON configuration document (\"-\" reads stdin)")
	}
}

func (f *serviceFlags) serviceKind() (models.ServiceKind, error) {
	if f.kind == "" {
		return "", fmt.Errorf("-service is required")
	}
	return models.ParseServiceKind(f.kind)
}

// readDocument reads the configuration document named by -file.
func (f *serviceFlags) readDocument(ctx *AppContext) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if f.file == "-" {
		data, err = io.ReadAll(ctx.stdin())
	} else {
		data, err = os.ReadFile(f.file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration document: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration document is empty")
	}
	return data, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
