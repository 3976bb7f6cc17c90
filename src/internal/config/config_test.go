package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "hostconf.conf")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return configFile
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/file.toml")
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if !errors.HasCode(err, errors.ErrCodeConfig) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	configFile := writeConfig(t, `[general
	state_dir = "/tmp"`)

	_, err := LoadConfig(configFile)
	if err == nil {
		t.Fatal("Expected error for invalid TOML")
	}
	if !errors.HasCode(err, errors.ErrCodeConfig) {
		t.Errorf("Expected CONFIG_ERROR, got %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	configFile := writeConfig(t, `[services.dns]
[services.dhcp]
unit = "isc-dhcp-server"
`)

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("Expected no error for valid config: %v", err)
	}

	if config.General.StateDir != defaultStateDir {
		t.Errorf("Expected state_dir %s, got %s", defaultStateDir, config.General.StateDir)
	}
	if config.General.BackupRetention != 5 {
		t.Errorf("Expected backup_retention 5, got %d", config.General.BackupRetention)
	}
	if config.ExecTimeout().Seconds() != 5 {
		t.Errorf("Expected 5s exec timeout, got %v", config.ExecTimeout())
	}
	if !config.General.API.Enabled || config.General.API.Listen != defaultAPIListen {
		t.Errorf("Expected enabled API on %s, got %+v", defaultAPIListen, config.General.API)
	}

	dns := config.Services.DNS
	if dns.ConfigPath != "/etc/named.conf" || dns.ZoneDir != "/var/named" {
		t.Errorf("Unexpected dns paths: %s, %s", dns.ConfigPath, dns.ZoneDir)
	}
	if dns.ZoneCheckCommand != "named-checkzone {{zone}} {{path}}" {
		t.Errorf("Unexpected zone check command: %s", dns.ZoneCheckCommand)
	}
	if !dns.CanReload() {
		t.Error("Expected dns to support reload")
	}

	dhcp := config.Services.DHCP
	if dhcp.Unit != "isc-dhcp-server" {
		t.Errorf("Expected unit to be kept, got %s", dhcp.Unit)
	}
	if dhcp.CanReload() {
		t.Error("Expected dhcp not to support reload")
	}
	if dhcp.ZoneDir != "" {
		t.Errorf("Expected no zone_dir for dhcp, got %s", dhcp.ZoneDir)
	}

	if config.Services.HTTP != nil {
		t.Error("Expected http to stay unmanaged")
	}

	kinds := config.ManagedKinds()
	if len(kinds) != 2 || kinds[0] != models.KindDNS || kinds[1] != models.KindDHCP {
		t.Errorf("Unexpected managed kinds: %v", kinds)
	}

	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected defaults to validate: %v", err)
	}
}

func TestLoadConfig_ExplicitValues(t *testing.T) {
	configFile := writeConfig(t, `[general]
state_dir = "state"
backup_retention = 2
exec_timeout_ms = 1500
verbose = true

[general.api]
enabled = false

[services.http]
enabled = false

[services.dhcp]
config_path = "/srv/dhcpd.conf"
control_command = "/etc/init.d/{{unit}} {{action}}"
supports_reload = true
`)

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("Expected no error: %v", err)
	}

	expectedStateDir := filepath.Join(filepath.Dir(configFile), "state")
	if config.GetAbsStateDir() != expectedStateDir {
		t.Errorf("Expected state dir %s, got %s", expectedStateDir, config.GetAbsStateDir())
	}
	if config.General.BackupRetention != 2 || !config.General.Verbose {
		t.Errorf("Unexpected general section: %+v", config.General)
	}
	if config.ExecTimeout().Milliseconds() != 1500 {
		t.Errorf("Expected 1500ms, got %v", config.ExecTimeout())
	}
	if config.General.API.Enabled {
		t.Error("Expected API to be disabled")
	}
	if config.Services.HTTP.IsEnabled() {
		t.Error("Expected http to be disabled")
	}
	if !config.Services.DHCP.CanReload() {
		t.Error("Expected supports_reload to be kept")
	}

	kinds := config.ManagedKinds()
	if len(kinds) != 1 || kinds[0] != models.KindDHCP {
		t.Errorf("Unexpected managed kinds: %v", kinds)
	}
}

func TestLoadConfig_HTTPCheckCommand(t *testing.T) {
	configFile := writeConfig(t, `[general]
state_dir = "state"

[services.http]
enabled = true
`)

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("Expected no error: %v", err)
	}
	if err := config.ValidateConfig(); err != nil {
		t.Fatalf("Expected defaults to validate: %v", err)
	}

	tmpl, err := execrunner.ParseCommandTemplate(config.Services.HTTP.CheckCommand)
	if err != nil {
		t.Fatalf("Expected default check command to parse: %v", err)
	}
	program, args := tmpl.Render(map[string]string{"path": "/etc/httpd/conf.d/.hostconf.conf.staged-1"})
	if program != "httpd" {
		t.Errorf("Expected httpd, got %s", program)
	}
	expected := []string{"-t", "-f", "/etc/httpd/conf/httpd.conf", "-c", `Include "/etc/httpd/conf.d/.hostconf.conf.staged-1"`}
	if strings.Join(args, "|") != strings.Join(expected, "|") {
		t.Errorf("Expected args %q, got %q", expected, args)
	}
}
