package config

import (
	"path/filepath"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/utils"
)

type Config struct {
	// General holds general configuration.
	General *GeneralConfig `toml:"general"`
	// Services describes the managed daemons. A missing section leaves the daemon unmanaged.
	Services *ServicesConfig `toml:"services"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// StateDir keeps the last committed configuration of every service. Relative paths are resolved against the settings file.
	StateDir string `toml:"state_dir" json:"state_dir" validate:"required"`
	// BackupRetention is how many previous versions of each configuration file are kept (default: 5, min: 1).
	BackupRetention int `toml:"backup_retention" json:"backup_retention" validate:"min=1"`
	// ExecTimeoutMs bounds every syntax checker and service manager run (default: 5000).
	ExecTimeoutMs int `toml:"exec_timeout_ms" json:"exec_timeout_ms" validate:"min=100,max=600000"`
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose" json:"verbose"`

	API *APIConfig `toml:"api" json:"api"`
}

type APIConfig struct {
	// Enabled starts the HTTP API in "serve" mode (default: true).
	Enabled bool `toml:"enabled" json:"enabled"`
	// Listen is the host:port the API binds to (default: 127.0.0.1:12121).
	Listen string `toml:"listen" json:"listen" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

type ServicesConfig struct {
	DNS  *ServiceConfig `toml:"dns" json:"dns,omitempty"`
	DHCP *ServiceConfig `toml:"dhcp" json:"dhcp,omitempty"`
	HTTP *ServiceConfig `toml:"http" json:"http,omitempty"`
}

type ServiceConfig struct {
	// Enabled turns management of the service on or off without removing its section (default: true).
	Enabled *bool `toml:"enabled" json:"enabled"`
	// ConfigPath is the live configuration file hostconf owns.
	ConfigPath string `toml:"config_path" json:"config_path" validate:"required,abs_path"`
	// ZoneDir is where zone files are written (dns only).
	ZoneDir string `toml:"zone_dir" json:"zone_dir,omitempty" validate:"omitempty,abs_path"`
	// SSLModulePath is loaded when a virtual host enables SSL (http only).
	SSLModulePath string `toml:"ssl_module_path" json:"ssl_module_path,omitempty"`
	// Unit is the service manager's name for the daemon.
	Unit string `toml:"unit" json:"unit" validate:"required,unit_name"`
	// ControlCommand drives the daemon. Available variables: {{action}}, {{unit}}.
	ControlCommand string `toml:"control_command" json:"control_command" validate:"required,command_template"`
	// CheckCommand syntax checks a configuration file. Available variables: {{path}}.
	CheckCommand string `toml:"check_command" json:"check_command" validate:"required,command_template"`
	// ZoneCheckCommand syntax checks a zone file (dns only). Available variables: {{zone}}, {{path}}.
	ZoneCheckCommand string `toml:"zone_check_command" json:"zone_check_command,omitempty" validate:"omitempty,command_template"`
	// SupportsReload makes applies reload the daemon instead of restarting it.
	SupportsReload *bool `toml:"supports_reload" json:"supports_reload"`
}

// IsEnabled reports whether the service is managed.
func (s *ServiceConfig) IsEnabled() bool {
	return s != nil && (s.Enabled == nil || *s.Enabled)
}

// CanReload reports whether the daemon reloads its configuration without a restart.
func (s *ServiceConfig) CanReload() bool {
	return s.SupportsReload != nil && *s.SupportsReload
}

// Service returns the section of kind, or nil.
func (s *ServicesConfig) Service(kind models.ServiceKind) *ServiceConfig {
	if s == nil {
		return nil
	}
	switch kind {
	case models.KindDNS:
		return s.DNS
	case models.KindDHCP:
		return s.DHCP
	case models.KindHTTP:
		return s.HTTP
	}
	return nil
}

// ManagedKinds returns the kinds of the enabled services in canonical order.
func (c *Config) ManagedKinds() []models.ServiceKind {
	var kinds []models.ServiceKind
	for _, kind := range models.AllKinds() {
		if c.Services.Service(kind).IsEnabled() {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsStateDir resolves the state directory against the settings file location.
func (c *Config) GetAbsStateDir() string {
	return utils.GetAbsolutePath(c.General.StateDir, c.GetConfigDir())
}

// ExecTimeout returns the bound applied to external processes.
func (c *Config) ExecTimeout() time.Duration {
	return time.Duration(c.General.ExecTimeoutMs) * time.Millisecond
}
