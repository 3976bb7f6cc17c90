package models

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/rfc1035label"
)

// MaxDHCPOptionLength is the largest value a single DHCP option can carry on the wire.
const MaxDHCPOptionLength = 255

// DHCPOptionType is the value encoding of a DHCP option in dhcpd.conf.
type DHCPOptionType int

const (
	// OptionIPList is a comma separated list of IPv4 addresses.
	OptionIPList DHCPOptionType = iota
	// OptionIP is a single IPv4 address.
	OptionIP
	// OptionText is a quoted string.
	OptionText
	// OptionUint16 is an unsigned 16-bit integer.
	OptionUint16
	// OptionInt32 is a signed 32-bit integer.
	OptionInt32
	// OptionDomainList is a comma separated list of domain names, written as quoted strings.
	OptionDomainList
)

// DHCPOptionSpec describes an option that may be set through DHCPOption.
type DHCPOptionSpec struct {
	Code dhcpv4.OptionCode
	Type DHCPOptionType
}

// DHCPOptionSpecs maps dhcpd.conf option names onto their RFC 2132 codes.
// Options that the generator emits from dedicated fields (routers,
// domain-name-servers, domain-name) are accepted here as well; the later
// declaration wins in dhcpd, matching the order they are written.
var DHCPOptionSpecs = map[string]DHCPOptionSpec{
	"subnet-mask":          {Code: dhcpv4.OptionSubnetMask, Type: OptionIP},
	"time-offset":          {Code: dhcpv4.OptionTimeOffset, Type: OptionInt32},
	"routers":              {Code: dhcpv4.OptionRouter, Type: OptionIPList},
	"time-servers":         {Code: dhcpv4.OptionTimeServer, Type: OptionIPList},
	"ien116-name-servers":  {Code: dhcpv4.OptionNameServer, Type: OptionIPList},
	"domain-name-servers":  {Code: dhcpv4.OptionDomainNameServer, Type: OptionIPList},
	"log-servers":          {Code: dhcpv4.OptionLogServer, Type: OptionIPList},
	"host-name":            {Code: dhcpv4.OptionHostName, Type: OptionText},
	"domain-name":          {Code: dhcpv4.OptionDomainName, Type: OptionText},
	"root-path":            {Code: dhcpv4.OptionRootPath, Type: OptionText},
	"interface-mtu":        {Code: dhcpv4.OptionInterfaceMTU, Type: OptionUint16},
	"broadcast-address":    {Code: dhcpv4.OptionBroadcastAddress, Type: OptionIP},
	"ntp-servers":          {Code: dhcpv4.OptionNTPServers, Type: OptionIPList},
	"netbios-name-servers": {Code: dhcpv4.OptionNetBIOSOverTCPIPNameServer, Type: OptionIPList},
	"tftp-server-name":     {Code: dhcpv4.OptionTFTPServerName, Type: OptionText},
	"bootfile-name":        {Code: dhcpv4.OptionBootfileName, Type: OptionText},
	"domain-search":        {Code: dhcpv4.OptionDNSDomainSearchList, Type: OptionDomainList},
}

// LookupDHCPOption returns the definition of a supported option name.
func LookupDHCPOption(name string) (DHCPOptionSpec, bool) {
	def, ok := DHCPOptionSpecs[name]
	return def, ok
}

// Encode parses value into the DHCP option it configures.
func (s DHCPOptionSpec) Encode(value string) (dhcpv4.Option, error) {
	value = strings.TrimSpace(value)
	switch s.Type {
	case OptionIP:
		ip, err := netip.ParseAddr(value)
		if err != nil || !ip.Is4() {
			return dhcpv4.Option{}, fmt.Errorf("must be a valid IPv4 address")
		}
		return dhcpv4.Option{Code: s.Code, Value: dhcpv4.IP(ip.AsSlice())}, nil

	case OptionIPList:
		var ips dhcpv4.IPs
		for _, item := range SplitOptionList(value) {
			ip, err := netip.ParseAddr(item)
			if err != nil || !ip.Is4() {
				return dhcpv4.Option{}, fmt.Errorf("must be a comma-separated list of IPv4 addresses")
			}
			ips = append(ips, ip.AsSlice())
		}
		return dhcpv4.Option{Code: s.Code, Value: ips}, nil

	case OptionUint16:
		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return dhcpv4.Option{}, fmt.Errorf("must be an integer between 0 and 65535")
		}
		return dhcpv4.Option{Code: s.Code, Value: dhcpv4.Uint16(n)}, nil

	case OptionInt32:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return dhcpv4.Option{}, fmt.Errorf("must be a 32-bit integer")
		}
		data := make([]byte, 4)
		binary.BigEndian.PutUint32(data, uint32(int32(n)))
		return dhcpv4.OptGeneric(s.Code, data), nil

	case OptionDomainList:
		labels := rfc1035label.NewLabels()
		for _, item := range SplitOptionList(value) {
			if item == "" {
				return dhcpv4.Option{}, fmt.Errorf("must be a comma-separated list of domain names")
			}
			labels.Labels = append(labels.Labels, item)
		}
		return dhcpv4.OptDomainSearch(labels), nil

	default:
		return dhcpv4.Option{Code: s.Code, Value: dhcpv4.String(value)}, nil
	}
}

// SplitOptionList splits a comma-separated option value, trimming blanks.
func SplitOptionList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// OptionInt32Value decodes the value of an OptionInt32 option.
func OptionInt32Value(opt dhcpv4.Option) (int32, bool) {
	data := opt.Value.ToBytes()
	if len(data) != 4 {
		return 0, false
	}
	return int32(binary.BigEndian.Uint32(data)), true
}
