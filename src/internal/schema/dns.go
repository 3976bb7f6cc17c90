package schema

import (
	"fmt"
	"net"
	"strings"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

func readDNS(r *reader, obj map[string]interface{}) *models.DNSConfig {
	cfg := &models.DNSConfig{
		Enabled: r.boolean(obj, "enabled", ""),
	}

	opts := r.child(obj, "options", "")
	cfg.Options = models.DNSOptions{
		ListenOn:         r.strings(opts, "listenOn", "options"),
		Forwarders:       r.strings(opts, "forwarders", "options"),
		Recursion:        r.boolean(opts, "recursion", "options"),
		AllowQuery:       r.strings(opts, "allowQuery", "options"),
		DNSSECValidation: r.str(opts, "dnssecValidation", "options"),
	}

	r.objects(obj, "zones", "", func(_ int, z map[string]interface{}, p string) {
		zone := models.DNSZone{
			ID:          r.str(z, "id", p),
			Name:        r.str(z, "name", p),
			Type:        r.str(z, "type", p),
			Masters:     r.strings(z, "masters", p),
			Forwarders:  r.strings(z, "forwarders", p),
			AllowUpdate: r.strings(z, "allowUpdate", p),
			TTL:         r.uint32(z, "ttl", p),
		}

		soaPath := join(p, "soa")
		soa := r.child(z, "soa", p)
		zone.SOA = models.DNSSOA{
			PrimaryNS:  r.str(soa, "primaryNs", soaPath),
			AdminEmail: r.str(soa, "adminEmail", soaPath),
			Serial:     r.uint32(soa, "serial", soaPath),
			Refresh:    r.uint32(soa, "refresh", soaPath),
			Retry:      r.uint32(soa, "retry", soaPath),
			Expire:     r.uint32(soa, "expire", soaPath),
			Minimum:    r.uint32(soa, "minimum", soaPath),
		}

		r.objects(z, "records", p, func(_ int, rec map[string]interface{}, rp string) {
			zone.Records = append(zone.Records, models.DNSRecord{
				ID:       r.str(rec, "id", rp),
				Name:     r.str(rec, "name", rp),
				Type:     strings.ToUpper(r.str(rec, "type", rp)),
				Value:    r.str(rec, "value", rp),
				TTL:      r.uint32(rec, "ttl", rp),
				Priority: r.uint16(rec, "priority", rp),
				Weight:   r.uint16(rec, "weight", rp),
				Port:     r.uint16(rec, "port", rp),
			})
		})

		cfg.Zones = append(cfg.Zones, zone)
	})

	return cfg
}

func checkDNS(r *reader, cfg *models.DNSConfig) {
	zoneIDs := newUniqueSet()
	zoneNames := newUniqueSet()

	for i, zone := range cfg.Zones {
		zp := index("zones", i)

		zoneIDs.check(r, zone.ID, join(zp, "id"), "duplicate id %q")
		zoneNames.check(r, canonicalZone(zone.Name), join(zp, "name"), "duplicate zone %q")

		switch zone.Type {
		case models.ZoneTypeSlave:
			if len(zone.Masters) == 0 {
				r.report(join(zp, "masters"), "slave zones require at least one master")
			}
		case models.ZoneTypeForward:
			if len(zone.Forwarders) == 0 {
				r.report(join(zp, "forwarders"), "forward zones require at least one forwarder")
			}
		}

		if zone.Type != models.ZoneTypeMaster && len(zone.Records) > 0 {
			r.report(join(zp, "records"), "records are only allowed in master zones")
			continue
		}

		recordIDs := newUniqueSet()
		for j, rec := range zone.Records {
			rp := index(join(zp, "records"), j)
			recordIDs.check(r, rec.ID, join(rp, "id"), "duplicate id %q")
			checkRecord(r, rec, rp)
		}
	}
}

func checkRecord(r *reader, rec models.DNSRecord, p string) {
	if !isSupportedRecordType(rec.Type) || rec.Value == "" {
		return
	}

	valuePath := join(p, "value")
	switch rec.Type {
	case "A":
		if ip := net.ParseIP(rec.Value); ip == nil || ip.To4() == nil {
			r.report(valuePath, "A records require an IPv4 address")
		}
	case "AAAA":
		if ip := net.ParseIP(rec.Value); ip == nil || ip.To4() != nil {
			r.report(valuePath, "AAAA records require an IPv6 address")
		}
	case "CNAME", "NS", "PTR", "MX", "SRV":
		if !isDomainName(rec.Value) {
			r.report(valuePath, fmt.Sprintf("%s records require a domain name", rec.Type))
		}
	case "TXT":
		if len(rec.Value) > 4096 {
			r.report(valuePath, "must be at most 4096 characters")
		}
	}

	if rec.Type == "CNAME" && rec.Name == "@" {
		r.report(join(p, "name"), "CNAME records cannot be placed at the zone apex")
	}
}

func canonicalZone(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// uniqueSet reports repeated non-empty values in a collection.
type uniqueSet map[string]bool

func newUniqueSet() uniqueSet {
	return uniqueSet{}
}

func (s uniqueSet) check(r *reader, value, path, format string) {
	if value == "" {
		return
	}
	if s[value] {
		r.report(path, fmt.Sprintf(format, value))
		return
	}
	s[value] = true
}
