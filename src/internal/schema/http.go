package schema

import (
	"fmt"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

func readHTTP(r *reader, obj map[string]interface{}) *models.HTTPConfig {
	cfg := &models.HTTPConfig{
		Enabled:     r.boolean(obj, "enabled", ""),
		ListenPorts: r.integers(obj, "listenPorts", ""),
		ServerAdmin: r.str(obj, "serverAdmin", ""),
		Directives:  readDirectives(r, obj, ""),
	}

	r.objects(obj, "virtualHosts", "", func(_ int, v map[string]interface{}, p string) {
		cfg.VirtualHosts = append(cfg.VirtualHosts, models.HTTPVirtualHost{
			ID:                    r.str(v, "id", p),
			ServerName:            r.str(v, "serverName", p),
			ServerAliases:         r.strings(v, "serverAliases", p),
			ServerAdmin:           r.str(v, "serverAdmin", p),
			Port:                  r.integer(v, "port", p),
			DocumentRoot:          r.str(v, "documentRoot", p),
			SSL:                   r.boolean(v, "ssl", p),
			SSLCertificateFile:    r.str(v, "sslCertificateFile", p),
			SSLCertificateKeyFile: r.str(v, "sslCertificateKeyFile", p),
			Directives:            readDirectives(r, v, p),
		})
	})

	return cfg
}

func readDirectives(r *reader, obj map[string]interface{}, parent string) []models.HTTPDirective {
	var directives []models.HTTPDirective
	r.objects(obj, "directives", parent, func(_ int, d map[string]interface{}, p string) {
		directives = append(directives, models.HTTPDirective{
			ID:   r.str(d, "id", p),
			Name: r.str(d, "name", p),
			Args: r.strings(d, "args", p),
		})
	})
	return directives
}

func checkHTTP(r *reader, cfg *models.HTTPConfig) {
	ports := map[int]bool{}
	for i, port := range cfg.ListenPorts {
		if ports[port] {
			r.report(index("listenPorts", i), fmt.Sprintf("duplicate port %d", port))
		}
		ports[port] = true
	}

	checkDirectiveIDs(r, cfg.Directives, "directives")

	hostIDs := newUniqueSet()
	names := newUniqueSet()
	for i, vhost := range cfg.VirtualHosts {
		vp := index("virtualHosts", i)
		hostIDs.check(r, vhost.ID, join(vp, "id"), "duplicate id %q")
		if vhost.ServerName != "" {
			key := fmt.Sprintf("%s:%d", vhost.ServerName, vhost.EffectivePort())
			names.check(r, key, join(vp, "serverName"), "duplicate virtual host %s")
		}
		checkDirectiveIDs(r, vhost.Directives, join(vp, "directives"))
	}
}

func checkDirectiveIDs(r *reader, directives []models.HTTPDirective, parent string) {
	ids := newUniqueSet()
	for i, d := range directives {
		ids.check(r, d.ID, join(index(parent, i), "id"), "duplicate id %q")
	}
}
