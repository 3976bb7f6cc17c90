package models

// DNSConfig is the desired configuration of the BIND name server.
type DNSConfig struct {
	// Enabled is the server-enabled flag; a disabled service is still generated but kept stopped.
	Enabled bool       `json:"enabled"`
	Options DNSOptions `json:"options"`
	// Zones are emitted in the given order.
	Zones []DNSZone `json:"zones" validate:"dive"`
}

// DNSOptions are the global "options { }" statements.
type DNSOptions struct {
	ListenOn   []string `json:"listenOn" validate:"dive,ip"`
	Forwarders []string `json:"forwarders" validate:"dive,ip"`
	Recursion  bool     `json:"recursion"`
	// AllowQuery entries are IP addresses, CIDR prefixes or one of any/none/localhost/localnets.
	AllowQuery       []string `json:"allowQuery" validate:"dive,acl_entry"`
	DNSSECValidation string   `json:"dnssecValidation" validate:"omitempty,oneof=auto yes no"`
}

const (
	ZoneTypeMaster  = "master"
	ZoneTypeSlave   = "slave"
	ZoneTypeForward = "forward"
)

// DNSZone is one zone statement. Records are only meaningful for master zones.
type DNSZone struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required,dns_name"`
	Type string `json:"type" validate:"required,oneof=master slave forward"`
	// Masters are the primaries a slave zone transfers from.
	Masters []string `json:"masters" validate:"dive,ip"`
	// Forwarders are used by forward zones.
	Forwarders []string `json:"forwarders" validate:"dive,ip"`
	// AllowUpdate enables dynamic updates for the listed clients when non-empty.
	AllowUpdate []string    `json:"allowUpdate" validate:"dive,acl_entry"`
	TTL         uint32      `json:"ttl"`
	SOA         DNSSOA      `json:"soa"`
	Records     []DNSRecord `json:"records" validate:"dive"`
}

// DNSSOA holds the start-of-authority values of a master zone.
// Zero values are replaced with defaults by the generator.
type DNSSOA struct {
	PrimaryNS  string `json:"primaryNs" validate:"omitempty,dns_name"`
	AdminEmail string `json:"adminEmail" validate:"omitempty,email"`
	Serial     uint32 `json:"serial"`
	Refresh    uint32 `json:"refresh"`
	Retry      uint32 `json:"retry"`
	Expire     uint32 `json:"expire"`
	Minimum    uint32 `json:"minimum"`
}

// DNSRecord is a single resource record, relative to its zone.
type DNSRecord struct {
	ID string `json:"id" validate:"required"`
	// Name is "@" for the zone apex, a relative name, or an absolute name ending with a dot.
	Name  string `json:"name" validate:"required,record_name"`
	Type  string `json:"type" validate:"required,rr_type"`
	Value string `json:"value" validate:"required"`
	TTL   uint32 `json:"ttl"`
	// Priority is used by MX and SRV records.
	Priority uint16 `json:"priority"`
	// Weight and Port are used by SRV records.
	Weight uint16 `json:"weight"`
	Port   uint16 `json:"port"`
}

// SupportedRecordTypes lists the resource record types the generator can render.
var SupportedRecordTypes = []string{"A", "AAAA", "CNAME", "MX", "NS", "PTR", "SRV", "TXT"}
