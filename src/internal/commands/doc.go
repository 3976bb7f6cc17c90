// Package commands implements CLI command handlers for hostconf.
//
// Each command implements the Runner interface and delegates to the
// domain.ConfigService built from the settings file:
//   - Init(): parse arguments, load settings and build dependencies
//   - Run(): execute the command
//   - Name(): return the command name for routing
//
// # Available Commands
//
//   - serve: run the HTTP API until SIGINT/SIGTERM
//   - validate: validate the settings file, or a service document with -service
//   - generate: print the generated daemon configuration, or its diff with -diff
//   - apply: run a full apply cycle for a service document
//   - status: show the status of one or all managed daemons
//   - control: start, stop, restart or reload a daemon
//   - interfaces: list the host network interfaces
//   - backups: list retained backups of a service's live file
//
// # Example Usage
//
//	cmd := commands.CreateApplyCommand()
//	ctx := &commands.AppContext{ConfigPath: "/opt/etc/hostconf/hostconf.conf"}
//	if err := cmd.Init([]string{"-service", "dhcp", "-file", "dhcp.json"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
