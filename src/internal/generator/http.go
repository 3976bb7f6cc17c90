package generator

import (
	"strconv"
	"strings"

	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/sanitize"
)

const virtualHostStanza = `<VirtualHost *:{{port}}>`

func (g *Generator) generateHTTP(cfg *models.HTTPConfig, path string) (*models.GeneratedDocument, error) {
	b := newConfBuilder("    ", "#")

	if needsSSL(cfg) {
		b.blank()
		b.open("<IfModule !ssl_module>")
		b.linef("LoadModule ssl_module %s", sanitize.Quote(g.opts.SSLModulePath))
		b.close("</IfModule>")
	}

	if len(cfg.ListenPorts) > 0 {
		b.blank()
		for _, port := range cfg.ListenPorts {
			b.linef("Listen %d", port)
		}
	}

	if cfg.ServerAdmin != "" || len(cfg.Directives) > 0 {
		b.blank()
		if cfg.ServerAdmin != "" {
			b.linef("ServerAdmin %s", sanitize.Quote(cfg.ServerAdmin))
		}
		writeDirectives(b, cfg.Directives)
	}

	for _, vhost := range cfg.VirtualHosts {
		b.blank()
		b.comment("#", "virtual host "+vhost.ID)
		b.open(stanza(virtualHostStanza, map[string]interface{}{"port": strconv.Itoa(vhost.EffectivePort())}))
		b.linef("ServerName %s", sanitize.Host(vhost.ServerName))
		if len(vhost.ServerAliases) > 0 {
			aliases := make([]string, 0, len(vhost.ServerAliases))
			for _, alias := range vhost.ServerAliases {
				aliases = append(aliases, sanitize.Host(alias))
			}
			b.linef("ServerAlias %s", strings.Join(aliases, " "))
		}
		if vhost.ServerAdmin != "" {
			b.linef("ServerAdmin %s", sanitize.Quote(vhost.ServerAdmin))
		}
		b.linef("DocumentRoot %s", sanitize.Quote(vhost.DocumentRoot))
		if vhost.SSL {
			b.line("SSLEngine on")
			b.linef("SSLCertificateFile %s", sanitize.Quote(vhost.SSLCertificateFile))
			b.linef("SSLCertificateKeyFile %s", sanitize.Quote(vhost.SSLCertificateKeyFile))
		}
		writeDirectives(b, vhost.Directives)
		b.close("</VirtualHost>")
	}

	return models.NewGeneratedDocument(models.KindHTTP, path, b.String()), nil
}

func needsSSL(cfg *models.HTTPConfig) bool {
	for _, vhost := range cfg.VirtualHosts {
		if vhost.SSL {
			return true
		}
	}
	return false
}

// writeDirectives emits each directive with quoted arguments. Names are
// restricted to identifiers by validation and escaped here as bare words.
func writeDirectives(b *confBuilder, directives []models.HTTPDirective) {
	for _, d := range directives {
		parts := make([]string, 0, len(d.Args)+1)
		parts = append(parts, sanitize.Bare(d.Name))
		for _, arg := range d.Args {
			parts = append(parts, sanitize.Quote(arg))
		}
		b.line(strings.Join(parts, " "))
	}
}
