package models

import (
	"encoding/json"
	"fmt"
)

// ServiceConfig is the canonical, validated configuration of one service.
// Exactly one of DNS, DHCP and HTTP is set, matching Kind.
type ServiceConfig struct {
	Kind ServiceKind
	DNS  *DNSConfig
	DHCP *DHCPConfig
	HTTP *HTTPConfig
}

// NewDNSConfig wraps a DNS variant.
func NewDNSConfig(c *DNSConfig) *ServiceConfig {
	return &ServiceConfig{Kind: KindDNS, DNS: c}
}

// NewDHCPConfig wraps a DHCP variant.
func NewDHCPConfig(c *DHCPConfig) *ServiceConfig {
	return &ServiceConfig{Kind: KindDHCP, DHCP: c}
}

// NewHTTPConfig wraps an HTTP variant.
func NewHTTPConfig(c *HTTPConfig) *ServiceConfig {
	return &ServiceConfig{Kind: KindHTTP, HTTP: c}
}

// Variant returns the populated variant, or nil if the union is inconsistent.
func (c *ServiceConfig) Variant() interface{} {
	switch c.Kind {
	case KindDNS:
		if c.DNS != nil {
			return c.DNS
		}
	case KindDHCP:
		if c.DHCP != nil {
			return c.DHCP
		}
	case KindHTTP:
		if c.HTTP != nil {
			return c.HTTP
		}
	}
	return nil
}

// IsEnabled reports the variant's server-enabled flag.
func (c *ServiceConfig) IsEnabled() bool {
	switch c.Kind {
	case KindDNS:
		return c.DNS != nil && c.DNS.Enabled
	case KindDHCP:
		return c.DHCP != nil && c.DHCP.Enabled
	case KindHTTP:
		return c.HTTP != nil && c.HTTP.Enabled
	}
	return false
}

// MarshalJSON encodes the populated variant only.
func (c *ServiceConfig) MarshalJSON() ([]byte, error) {
	v := c.Variant()
	if v == nil {
		return nil, fmt.Errorf("service config for %q has no %s variant", c.Kind, c.Kind)
	}
	return json.Marshal(v)
}

// DecodeServiceConfig decodes a variant previously encoded with MarshalJSON.
// It performs no validation and must only be used on trusted data (the state store).
func DecodeServiceConfig(kind ServiceKind, data []byte) (*ServiceConfig, error) {
	switch kind {
	case KindDNS:
		var c DNSConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return NewDNSConfig(&c), nil
	case KindDHCP:
		var c DHCPConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return NewDHCPConfig(&c), nil
	case KindHTTP:
		var c HTTPConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return NewHTTPConfig(&c), nil
	default:
		return nil, fmt.Errorf("unknown service kind %q", kind)
	}
}
