package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/api"
	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/log"
)

// ServeCommand runs the HTTP API until SIGINT or SIGTERM.
type ServeCommand struct {
	fs   *flag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	deps *domain.AppDependencies

	// Command-specific flags
	bindAddr string

	httpServer *http.Server
	apiRunner  *RestartableRunner
}

// CreateServeCommand creates a new serve command.
func CreateServeCommand() *ServeCommand {
	c := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	c.fs.StringVar(&c.bindAddr, "listen", "", "Address to bind the HTTP API (overrides [general.api] listen)")

	return c
}

// Name returns the command name.
func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

// Init initializes the serve command with arguments.
func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.bindAddr == "" {
		if cfg.General.API == nil || !cfg.General.API.Enabled {
			return fmt.Errorf("HTTP API is disabled in [general.api], nothing to serve")
		}
		c.bindAddr = cfg.General.API.Listen
	}
	if _, _, err := net.SplitHostPort(c.bindAddr); err != nil {
		return fmt.Errorf("invalid listen address %q: %v", c.bindAddr, err)
	}

	c.deps, err = ctx.dependencies(cfg)
	return err
}

// Run starts the HTTP API server and blocks until a shutdown signal.
func (c *ServeCommand) Run() error {
	log.Infof("Starting hostconf %s", c.ctx.Version)
	log.Infof("Configuration loaded from: %s", c.ctx.ConfigPath)
	log.Infof("Managed services: %v", c.cfg.ManagedKinds())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	defer signal.Stop(sigChan)

	if err := c.startAPIServer(ctx); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	log.Infof("Send SIGUSR1 to log the status of every managed service")

	for sig := range sigChan {
		switch sig {
		case syscall.SIGUSR1:
			c.logStatus(ctx)

		case syscall.SIGINT, syscall.SIGTERM:
			log.Infof("Received signal %v, shutting down...", sig)
			return c.shutdown()
		}
	}
	return nil
}

// startAPIServer starts the HTTP API server under a restartable runner.
func (c *ServeCommand) startAPIServer(ctx context.Context) error {
	router := api.NewRouter(c.deps, api.VersionInfo{
		Version: c.ctx.Version,
		Commit:  c.ctx.Commit,
		Date:    c.ctx.Date,
	})

	c.httpServer = &http.Server{
		Addr:              c.bindAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		// Apply cycles run external checkers and the service manager.
		WriteTimeout: c.cfg.ExecTimeout()*4 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c.apiRunner = NewRestartableRunner(RunnerConfig{
		Name:           "api",
		MaxRestarts:    0, // Unlimited restarts
		RestartBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
	}, func(runCtx context.Context) error {
		log.Infof("API server listening on http://%s", c.bindAddr)
		err := c.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil // Clean shutdown
		}
		return err
	})

	return c.apiRunner.Start(ctx)
}

func (c *ServeCommand) logStatus(ctx context.Context) {
	statusCtx, cancel := context.WithTimeout(ctx, c.cfg.ExecTimeout()+time.Second)
	defer cancel()

	statuses, err := c.deps.ConfigService().StatusAll(statusCtx)
	if err != nil {
		log.Errorf("Failed to get service status: %v", err)
		return
	}
	for _, status := range statuses {
		log.Infof("%s: %s (%s)", status.Kind, status.State, status.Message)
	}
}

// shutdown stops the API server gracefully.
func (c *ServeCommand) shutdown() error {
	if c.httpServer != nil {
		log.Infof("Stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := c.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Error during API server shutdown: %v", err)
			if err := c.httpServer.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
	}

	if c.apiRunner != nil {
		if err := c.apiRunner.Stop(10 * time.Second); err != nil {
			log.Errorf("Failed to stop API runner: %v", err)
		}
	}

	log.Infof("Server stopped gracefully")
	return nil
}
