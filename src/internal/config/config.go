package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// DefaultConfigPath is where the settings file is looked up when no -config flag is given.
const DefaultConfigPath = "/opt/etc/hostconf/hostconf.conf"

const (
	defaultStateDir        = "/opt/var/lib/hostconf"
	defaultBackupRetention = 5
	defaultExecTimeoutMs   = 5000
	defaultAPIListen       = "127.0.0.1:12121"
	defaultControlCommand  = "systemctl {{action}} {{unit}}"
)

// serviceDefaults are the settings of a service section that leaves them out.
var serviceDefaults = map[models.ServiceKind]ServiceConfig{
	models.KindDNS: {
		ConfigPath:       "/etc/named.conf",
		ZoneDir:          "/var/named",
		Unit:             "named",
		ControlCommand:   defaultControlCommand,
		CheckCommand:     "named-checkconf {{path}}",
		ZoneCheckCommand: "named-checkzone {{zone}} {{path}}",
		SupportsReload:   boolPtr(true),
	},
	models.KindDHCP: {
		ConfigPath:     "/etc/dhcp/dhcpd.conf",
		Unit:           "dhcpd",
		ControlCommand: defaultControlCommand,
		CheckCommand:   "dhcpd -t -cf {{path}}",
		SupportsReload: boolPtr(false),
	},
	models.KindHTTP: {
		ConfigPath:     "/etc/httpd/conf.d/hostconf.conf",
		SSLModulePath:  "modules/mod_ssl.so",
		Unit:           "httpd",
		ControlCommand: defaultControlCommand,
		// The staged vhosts are checked inside the main config so MPM and
		// module directives resolve.
		CheckCommand:   `httpd -t -f /etc/httpd/conf/httpd.conf -c 'Include "{{path}}"'`,
		SupportsReload: boolPtr(true),
	},
}

func boolPtr(b bool) *bool {
	return &b
}

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, errors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		log.Errorf("Configuration file not found: %s", configFile)
		return nil, errors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), nil)
	}
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file (line %d, column %d)", row, col), err)
		}
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	config._absConfigFilePath = configFile
	config.applyDefaults()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("State directory: %s", config.GetAbsStateDir())

	return &config, nil
}

// applyDefaults fills every setting that the file left out.
func (c *Config) applyDefaults() {
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	g := c.General
	if g.StateDir == "" {
		g.StateDir = defaultStateDir
	}
	if g.BackupRetention == 0 {
		g.BackupRetention = defaultBackupRetention
	}
	if g.ExecTimeoutMs == 0 {
		g.ExecTimeoutMs = defaultExecTimeoutMs
	}
	if g.API == nil {
		g.API = &APIConfig{Enabled: true}
	}
	if g.API.Listen == "" {
		g.API.Listen = defaultAPIListen
	}

	if c.Services == nil {
		c.Services = &ServicesConfig{}
	}
	for _, kind := range models.AllKinds() {
		svc := c.Services.Service(kind)
		if svc == nil {
			continue
		}
		def := serviceDefaults[kind]
		if svc.ConfigPath == "" {
			svc.ConfigPath = def.ConfigPath
		}
		if svc.ZoneDir == "" {
			svc.ZoneDir = def.ZoneDir
		}
		if svc.SSLModulePath == "" {
			svc.SSLModulePath = def.SSLModulePath
		}
		if svc.Unit == "" {
			svc.Unit = def.Unit
		}
		if svc.ControlCommand == "" {
			svc.ControlCommand = def.ControlCommand
		}
		if svc.CheckCommand == "" {
			svc.CheckCommand = def.CheckCommand
		}
		if svc.ZoneCheckCommand == "" {
			svc.ZoneCheckCommand = def.ZoneCheckCommand
		}
		if svc.SupportsReload == nil {
			svc.SupportsReload = boolPtr(*def.SupportsReload)
		}
	}
}
