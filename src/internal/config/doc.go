// Package config handles the hostconf settings file.
//
// The settings file is TOML. It names the state directory, the backup retention
// and the external process timeout, and describes every managed service: where
// its live configuration file is, how to syntax check it and how to drive the
// daemon through the service manager.
//
// # Example
//
//	[general]
//	state_dir = "/opt/var/lib/hostconf"
//	backup_retention = 5
//
//	[general.api]
//	enabled = true
//	listen = "127.0.0.1:12121"
//
//	[services.dhcp]
//	config_path = "/etc/dhcp/dhcpd.conf"
//	unit = "isc-dhcp-server"
//
// Omitted settings are filled with defaults by LoadConfig. A service section
// that is absent leaves that service unmanaged.
//
// Loading and validating:
//
//	cfg, err := config.LoadConfig("/opt/etc/hostconf/hostconf.conf")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package config
