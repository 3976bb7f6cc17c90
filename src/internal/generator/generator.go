package generator

import (
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

const (
	DefaultZoneDir       = "/var/named"
	DefaultSSLModulePath = "modules/mod_ssl.so"
)

// Options control file placement inside generated documents.
type Options struct {
	// ZoneDir holds the zone files of master zones.
	ZoneDir string
	// SSLModulePath is the mod_ssl object loaded when a virtual host enables SSL.
	SSLModulePath string
}

// Generator renders configurations with fixed Options.
type Generator struct {
	opts Options
}

// New creates a Generator, filling empty options with defaults.
func New(opts Options) *Generator {
	if opts.ZoneDir == "" {
		opts.ZoneDir = DefaultZoneDir
	}
	if opts.SSLModulePath == "" {
		opts.SSLModulePath = DefaultSSLModulePath
	}
	return &Generator{opts: opts}
}

// Generate renders cfg as the document that will replace the file at path.
func (g *Generator) Generate(cfg *models.ServiceConfig, path string) (*models.GeneratedDocument, error) {
	if cfg == nil || cfg.Variant() == nil {
		return nil, errors.NewGenerationError("configuration has no service variant", nil)
	}

	switch cfg.Kind {
	case models.KindDNS:
		return g.generateDNS(cfg.DNS, path)
	case models.KindDHCP:
		return g.generateDHCP(cfg.DHCP, path)
	case models.KindHTTP:
		return g.generateHTTP(cfg.HTTP, path)
	default:
		return nil, errors.NewGenerationError(fmt.Sprintf("unsupported service kind %q", cfg.Kind), nil)
	}
}
