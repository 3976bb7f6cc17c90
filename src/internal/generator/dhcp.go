package generator

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/rfc1035label"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/sanitize"
)

const (
	subnetStanza = `subnet {{network}} netmask {{netmask}} {`
	hostStanza   = `host {{name}} {`
)

func (g *Generator) generateDHCP(cfg *models.DHCPConfig, path string) (*models.GeneratedDocument, error) {
	b := newConfBuilder("\t", "#")
	b.blank()

	if cfg.Authoritative {
		b.line("authoritative;")
	}
	if cfg.DDNSUpdateStyle != "" {
		b.linef("ddns-update-style %s;", sanitize.Bare(cfg.DDNSUpdateStyle))
	}
	writeLeaseTimes(b, cfg.DefaultLeaseTime, cfg.MaxLeaseTime)
	if cfg.DomainName != "" {
		b.linef("option domain-name %s;", sanitize.Quote(cfg.DomainName))
	}
	writeOptionList(b, "domain-name-servers", cfg.DomainNameServers)
	if err := writeDHCPOptions(b, cfg.Options); err != nil {
		return nil, err
	}

	for _, subnet := range cfg.Subnets {
		ip, network, err := net.ParseCIDR(subnet.Network)
		if err != nil || ip.To4() == nil {
			return nil, errors.NewGenerationError(fmt.Sprintf("subnet %s: invalid network %q", subnet.ID, subnet.Network), err)
		}

		b.blank()
		b.comment("#", "subnet "+subnet.ID)
		b.open(stanza(subnetStanza, map[string]interface{}{
			"network": sanitize.Bare(network.IP.String()),
			"netmask": sanitize.Bare(net.IP(network.Mask).String()),
		}))
		writeOptionList(b, "routers", subnet.Routers)
		writeOptionList(b, "domain-name-servers", subnet.DomainNameServers)
		writeLeaseTimes(b, subnet.DefaultLeaseTime, subnet.MaxLeaseTime)
		if err := writeDHCPOptions(b, subnet.Options); err != nil {
			return nil, err
		}

		for _, pool := range subnet.Pools {
			b.comment("#", "pool "+pool.ID)
			b.open("pool {")
			b.linef("range %s %s;", sanitize.Bare(pool.Range.Start), sanitize.Bare(pool.Range.End))
			b.close("}")
		}

		for _, res := range subnet.Reservations {
			b.comment("#", "reservation "+res.ID)
			b.open(stanza(hostStanza, map[string]interface{}{"name": sanitize.Host(res.Hostname)}))
			b.linef("hardware ethernet %s;", sanitize.Bare(normalizeMAC(res.MAC)))
			b.linef("fixed-address %s;", sanitize.Bare(res.IP))
			b.linef("option host-name %s;", sanitize.Quote(res.Hostname))
			b.close("}")
		}
		b.close("}")
	}

	return models.NewGeneratedDocument(models.KindDHCP, path, b.String()), nil
}

func writeLeaseTimes(b *confBuilder, defaultLease, maxLease int) {
	if defaultLease > 0 {
		b.linef("default-lease-time %d;", defaultLease)
	}
	if maxLease > 0 {
		b.linef("max-lease-time %d;", maxLease)
	}
}

func writeOptionList(b *confBuilder, name string, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	escaped := make([]string, 0, len(addrs))
	for _, a := range addrs {
		escaped = append(escaped, sanitize.Bare(strings.TrimSpace(a)))
	}
	b.linef("option %s %s;", name, strings.Join(escaped, ", "))
}

func writeDHCPOptions(b *confBuilder, options []models.DHCPOption) error {
	for _, opt := range options {
		def, ok := models.LookupDHCPOption(opt.Name)
		if !ok {
			return errors.NewGenerationError(fmt.Sprintf("option %s: unsupported option %q", opt.ID, opt.Name), nil)
		}

		encoded, err := def.Encode(opt.Value)
		if err != nil {
			return errors.NewGenerationError(fmt.Sprintf("option %s", opt.ID), err)
		}
		value, err := formatOptionValue(encoded)
		if err != nil {
			return errors.NewGenerationError(fmt.Sprintf("option %s", opt.ID), err)
		}
		b.linef("option %s %s;", opt.Name, value)
	}
	return nil
}

// formatOptionValue renders a parsed option value in dhcpd.conf syntax.
func formatOptionValue(opt dhcpv4.Option) (string, error) {
	switch v := opt.Value.(type) {
	case dhcpv4.IP:
		return net.IP(v).String(), nil
	case dhcpv4.IPs:
		parts := make([]string, 0, len(v))
		for _, ip := range v {
			parts = append(parts, ip.String())
		}
		return strings.Join(parts, ", "), nil
	case dhcpv4.Uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case dhcpv4.String:
		return sanitize.Quote(string(v)), nil
	case *rfc1035label.Labels:
		parts := make([]string, 0, len(v.Labels))
		for _, name := range v.Labels {
			parts = append(parts, sanitize.Quote(name))
		}
		return strings.Join(parts, ", "), nil
	}
	if n, ok := models.OptionInt32Value(opt); ok {
		return strconv.FormatInt(int64(n), 10), nil
	}
	return "", fmt.Errorf("no dhcpd.conf encoding for %s", opt.Code)
}

// normalizeMAC renders a hardware address in the colon form dhcpd expects.
func normalizeMAC(mac string) string {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return mac
	}
	return hw.String()
}
