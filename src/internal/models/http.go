package models

// HTTPConfig is the desired virtual host configuration of Apache httpd.
type HTTPConfig struct {
	Enabled bool `json:"enabled"`
	// ListenPorts adds "Listen" directives; leave empty when the main httpd.conf already listens.
	ListenPorts  []int             `json:"listenPorts" validate:"dive,min=1,max=65535"`
	ServerAdmin  string            `json:"serverAdmin" validate:"omitempty,email"`
	Directives   []HTTPDirective   `json:"directives" validate:"dive"`
	VirtualHosts []HTTPVirtualHost `json:"virtualHosts" validate:"dive"`
}

// HTTPVirtualHost is one <VirtualHost> section.
type HTTPVirtualHost struct {
	ID            string   `json:"id" validate:"required"`
	ServerName    string   `json:"serverName" validate:"required,server_name"`
	ServerAliases []string `json:"serverAliases" validate:"dive,server_name"`
	ServerAdmin   string   `json:"serverAdmin" validate:"omitempty,email"`
	// Port defaults to 443 with SSL and 80 without.
	Port         int    `json:"port" validate:"omitempty,min=1,max=65535"`
	DocumentRoot string `json:"documentRoot" validate:"required,abs_path"`
	SSL          bool   `json:"ssl"`
	// Certificate paths are required when SSL is enabled.
	SSLCertificateFile    string          `json:"sslCertificateFile" validate:"required_if=SSL true,omitempty,abs_path"`
	SSLCertificateKeyFile string          `json:"sslCertificateKeyFile" validate:"required_if=SSL true,omitempty,abs_path"`
	Directives            []HTTPDirective `json:"directives" validate:"dive"`
}

// EffectivePort returns the configured port or the scheme default.
func (v *HTTPVirtualHost) EffectivePort() int {
	if v.Port != 0 {
		return v.Port
	}
	if v.SSL {
		return 443
	}
	return 80
}

// HTTPDirective is a single directive line; every argument is emitted quoted.
type HTTPDirective struct {
	ID   string   `json:"id" validate:"required"`
	Name string   `json:"name" validate:"required,directive_name"`
	Args []string `json:"args"`
}
