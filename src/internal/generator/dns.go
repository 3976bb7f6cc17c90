package generator

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/miekg/dns"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/sanitize"
)

const (
	defaultZoneTTL = 3600
	defaultRefresh = 3600
	defaultRetry   = 900
	defaultExpire  = 604800
	defaultMinimum = 300
	txtChunkSize   = 255
)

const zoneStanza = `zone {{name}} IN {`

func (g *Generator) generateDNS(cfg *models.DNSConfig, path string) (*models.GeneratedDocument, error) {
	b := newConfBuilder("\t", "//")
	b.blank()

	b.open("options {")
	writeAddressList(b, "listen-on", filterFamily(cfg.Options.ListenOn, false))
	writeAddressList(b, "listen-on-v6", filterFamily(cfg.Options.ListenOn, true))
	writeAddressList(b, "forwarders", cfg.Options.Forwarders)
	b.linef("recursion %s;", yesNo(cfg.Options.Recursion))
	writeAddressList(b, "allow-query", cfg.Options.AllowQuery)
	if cfg.Options.DNSSECValidation != "" {
		b.linef("dnssec-validation %s;", sanitize.Bare(cfg.Options.DNSSECValidation))
	}
	b.close("};")

	var companions []*models.GeneratedDocument
	for _, zone := range cfg.Zones {
		name := zoneName(zone.Name)
		zoneFile := filepath.Join(g.opts.ZoneDir, "db."+sanitize.Host(name))

		b.blank()
		b.comment("//", "zone "+zone.ID)
		b.open(stanza(zoneStanza, map[string]interface{}{"name": sanitize.Quote(name)}))
		b.linef("type %s;", sanitize.Bare(zone.Type))

		switch zone.Type {
		case models.ZoneTypeMaster:
			b.linef("file %s;", sanitize.Quote(zoneFile))
			writeAddressList(b, "allow-update", zone.AllowUpdate)

			content, err := renderZoneFile(zone)
			if err != nil {
				return nil, err
			}
			companions = append(companions, models.NewCompanionDocument(models.KindDNS, zoneFile, name, content))
		case models.ZoneTypeSlave:
			b.linef("file %s;", sanitize.Quote(zoneFile))
			writeAddressList(b, "masters", zone.Masters)
		case models.ZoneTypeForward:
			b.line("forward only;")
			writeAddressList(b, "forwarders", zone.Forwarders)
		}
		b.close("};")
	}

	return models.NewGeneratedDocument(models.KindDNS, path, b.String(), companions...), nil
}

// writeAddressList writes `keyword { a; b; };`, skipping empty lists.
func writeAddressList(b *confBuilder, keyword string, entries []string) {
	if len(entries) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString(keyword)
	sb.WriteString(" {")
	for _, e := range entries {
		sb.WriteString(" ")
		sb.WriteString(sanitize.Bare(e))
		sb.WriteString(";")
	}
	sb.WriteString(" };")
	b.line(sb.String())
}

func filterFamily(addrs []string, v6 bool) []string {
	var out []string
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip == nil {
			continue
		}
		if (ip.To4() == nil) == v6 {
			out = append(out, a)
		}
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func zoneName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// renderZoneFile renders the SOA, NS and user records of a master zone.
func renderZoneFile(zone models.DNSZone) (string, error) {
	origin := dns.Fqdn(zoneName(zone.Name))
	ttl := zone.TTL
	if ttl == 0 {
		ttl = defaultZoneTTL
	}

	b := newConfBuilder("", ";")
	b.linef("$ORIGIN %s", origin)
	b.linef("$TTL %d", ttl)

	primaryNS := zone.SOA.PrimaryNS
	if primaryNS == "" {
		primaryNS = "ns1." + origin
	}
	primaryNS = qualify(primaryNS, origin)

	soa := &dns.SOA{
		Hdr:     header(origin, dns.TypeSOA, ttl),
		Ns:      primaryNS,
		Mbox:    mailbox(zone.SOA.AdminEmail, origin),
		Serial:  orDefault(zone.SOA.Serial, 1),
		Refresh: orDefault(zone.SOA.Refresh, defaultRefresh),
		Retry:   orDefault(zone.SOA.Retry, defaultRetry),
		Expire:  orDefault(zone.SOA.Expire, defaultExpire),
		Minttl:  orDefault(zone.SOA.Minimum, defaultMinimum),
	}
	b.line(soa.String())

	if !hasApexNS(zone, origin) {
		b.line((&dns.NS{Hdr: header(origin, dns.TypeNS, ttl), Ns: primaryNS}).String())
	}

	for _, rec := range zone.Records {
		rr, err := buildRR(rec, origin, ttl)
		if err != nil {
			return "", errors.NewGenerationError(fmt.Sprintf("zone %s record %s", origin, rec.ID), err)
		}
		b.line(rr.String())
	}

	return b.String(), nil
}

func hasApexNS(zone models.DNSZone, origin string) bool {
	for _, rec := range zone.Records {
		if strings.EqualFold(rec.Type, "NS") && strings.EqualFold(ownerName(rec.Name, origin), origin) {
			return true
		}
	}
	return false
}

func buildRR(rec models.DNSRecord, origin string, zoneTTL uint32) (dns.RR, error) {
	ttl := orDefault(rec.TTL, zoneTTL)
	owner := ownerName(rec.Name, origin)
	rrType, ok := dns.StringToType[strings.ToUpper(rec.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q", rec.Type)
	}
	hdr := header(owner, rrType, ttl)

	switch rrType {
	case dns.TypeA:
		ip := net.ParseIP(rec.Value)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("invalid IPv4 address %q", rec.Value)
		}
		return &dns.A{Hdr: hdr, A: ip.To4()}, nil
	case dns.TypeAAAA:
		ip := net.ParseIP(rec.Value)
		if ip == nil || ip.To4() != nil {
			return nil, fmt.Errorf("invalid IPv6 address %q", rec.Value)
		}
		return &dns.AAAA{Hdr: hdr, AAAA: ip}, nil
	case dns.TypeCNAME:
		return &dns.CNAME{Hdr: hdr, Target: qualify(rec.Value, origin)}, nil
	case dns.TypeNS:
		return &dns.NS{Hdr: hdr, Ns: qualify(rec.Value, origin)}, nil
	case dns.TypePTR:
		return &dns.PTR{Hdr: hdr, Ptr: qualify(rec.Value, origin)}, nil
	case dns.TypeMX:
		return &dns.MX{Hdr: hdr, Preference: rec.Priority, Mx: qualify(rec.Value, origin)}, nil
	case dns.TypeSRV:
		return &dns.SRV{Hdr: hdr, Priority: rec.Priority, Weight: rec.Weight, Port: rec.Port, Target: qualify(rec.Value, origin)}, nil
	case dns.TypeTXT:
		return &dns.TXT{Hdr: hdr, Txt: chunk(rec.Value, txtChunkSize)}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %s", rec.Type)
	}
}

func header(name string, rrType uint16, ttl uint32) dns.RR_Header {
	return dns.RR_Header{Name: name, Rrtype: rrType, Class: dns.ClassINET, Ttl: ttl}
}

// ownerName resolves "@" and relative names against origin.
func ownerName(name, origin string) string {
	if name == "" || name == "@" {
		return origin
	}
	return qualify(name, origin)
}

func qualify(name, origin string) string {
	if dns.IsFqdn(name) {
		return strings.ToLower(name)
	}
	return strings.ToLower(name) + "." + origin
}

// mailbox converts an email address into SOA RNAME form.
func mailbox(email, origin string) string {
	if email == "" {
		return "hostmaster." + origin
	}
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return qualify(email, origin)
	}
	return strings.ReplaceAll(local, ".", `\.`) + "." + dns.Fqdn(strings.ToLower(domain))
}

func orDefault(v, def uint32) uint32 {
	if v == 0 {
		return def
	}
	return v
}

func chunk(s string, size int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}
