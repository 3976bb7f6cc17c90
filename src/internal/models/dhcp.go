package models

// DHCPConfig is the desired configuration of the ISC DHCP server.
type DHCPConfig struct {
	Enabled       bool `json:"enabled"`
	Authoritative bool `json:"authoritative"`
	// Lease times are in seconds; zero leaves the daemon default in place.
	DefaultLeaseTime  int          `json:"defaultLeaseTime" validate:"gte=0"`
	MaxLeaseTime      int          `json:"maxLeaseTime" validate:"gte=0"`
	DDNSUpdateStyle   string       `json:"ddnsUpdateStyle" validate:"omitempty,oneof=interim standard none"`
	DomainName        string       `json:"domainName" validate:"omitempty,dns_name"`
	DomainNameServers []string     `json:"domainNameServers" validate:"dive,ipv4"`
	Options           []DHCPOption `json:"options" validate:"dive"`
	Subnets           []DHCPSubnet `json:"subnets" validate:"dive"`
}

// DHCPSubnet is one "subnet ... netmask ... { }" declaration.
type DHCPSubnet struct {
	ID string `json:"id" validate:"required"`
	// Network is an IPv4 prefix such as 10.0.0.0/24.
	Network           string                `json:"network" validate:"required,cidrv4"`
	Routers           []string              `json:"routers" validate:"dive,ipv4"`
	DomainNameServers []string              `json:"domainNameServers" validate:"dive,ipv4"`
	DefaultLeaseTime  int                   `json:"defaultLeaseTime" validate:"gte=0"`
	MaxLeaseTime      int                   `json:"maxLeaseTime" validate:"gte=0"`
	Pools             []DHCPPool            `json:"pools" validate:"dive"`
	Reservations      []DHCPHostReservation `json:"reservations" validate:"dive"`
	Options           []DHCPOption          `json:"options" validate:"dive"`
}

// DHCPPool is a dynamic address pool inside a subnet.
type DHCPPool struct {
	ID    string    `json:"id" validate:"required"`
	Range DHCPRange `json:"range"`
}

// DHCPRange is an inclusive address range.
type DHCPRange struct {
	Start string `json:"start" validate:"required,ipv4"`
	End   string `json:"end" validate:"required,ipv4"`
}

// DHCPHostReservation pins an address to a hardware address.
type DHCPHostReservation struct {
	ID       string `json:"id" validate:"required"`
	Hostname string `json:"hostname" validate:"required,hostname_rfc1123"`
	MAC      string `json:"mac" validate:"required,mac"`
	IP       string `json:"ip" validate:"required,ipv4"`
}

// DHCPOption sets a named DHCP option, see DHCPOptionSpecs.
type DHCPOption struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,dhcp_option"`
	Value string `json:"value" validate:"required"`
}
