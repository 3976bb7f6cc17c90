package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/hostconf/src/internal/commands"
	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "DNS, DHCP and HTTP service configuration manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [command options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the HTTP API\n")
		fmt.Fprintf(os.Stderr, "  validate                Validate the settings file, or a service document with -service\n")
		fmt.Fprintf(os.Stderr, "  generate                Print the daemon configuration generated from a document\n")
		fmt.Fprintf(os.Stderr, "  apply                   Validate, check, commit and reload a service document\n")
		fmt.Fprintf(os.Stderr, "  status                  Show the status of managed services\n")
		fmt.Fprintf(os.Stderr, "  control                 Run start, stop, restart or reload on a service\n")
		fmt.Fprintf(os.Stderr, "  interfaces              List host network interfaces\n")
		fmt.Fprintf(os.Stderr, "  backups                 List backups of a service's configuration file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	cmds := []commands.Runner{
		commands.CreateServeCommand(),
		commands.CreateValidateCommand(),
		commands.CreateGenerateCommand(),
		commands.CreateApplyCommand(),
		commands.CreateStatusCommand(),
		commands.CreateControlCommand(),
		commands.CreateInterfacesCommand(),
		commands.CreateBackupsCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
