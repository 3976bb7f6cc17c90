// Package hostnet inspects the host's network interfaces through netlink.
//
// The DHCP apply cycle uses it to warn about subnets that no local interface is
// attached to, which dhcpd accepts but never serves.
package hostnet

import (
	"fmt"
	"net"
	"net/netip"
	"sort"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

// Interface is a snapshot of one network link.
type Interface struct {
	Name         string   `json:"name"`
	Index        int      `json:"index"`
	Up           bool     `json:"up"`
	Loopback     bool     `json:"loopback"`
	MTU          int      `json:"mtu"`
	HardwareAddr string   `json:"hardwareAddr,omitempty"`
	Addresses    []string `json:"addresses"`
}

// Lister provides the host interface inventory.
type Lister interface {
	Interfaces() ([]Interface, error)
}

// NetlinkLister reads interfaces from the kernel.
type NetlinkLister struct{}

// NewNetlinkLister creates a NetlinkLister.
func NewNetlinkLister() *NetlinkLister {
	return &NetlinkLister{}
}

// Interfaces lists all links with their addresses, ordered by index.
func (l *NetlinkLister) Interfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	interfaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		iface := Interface{
			Name:     attrs.Name,
			Index:    attrs.Index,
			Up:       attrs.Flags&net.FlagUp != 0,
			Loopback: attrs.Flags&net.FlagLoopback != 0,
			MTU:      attrs.MTU,
		}
		if len(attrs.HardwareAddr) > 0 {
			iface.HardwareAddr = attrs.HardwareAddr.String()
		}

		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses of %s: %w", attrs.Name, err)
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				iface.Addresses = append(iface.Addresses, addr.IPNet.String())
			}
		}
		interfaces = append(interfaces, iface)
	}

	sort.Slice(interfaces, func(i, j int) bool {
		return interfaces[i].Index < interfaces[j].Index
	})
	return interfaces, nil
}

// SubnetWarnings reports DHCP subnets that no up interface has an address in.
func SubnetWarnings(cfg *models.DHCPConfig, interfaces []Interface) []string {
	var warnings []string
	for _, subnet := range cfg.Subnets {
		network, err := netip.ParsePrefix(subnet.Network)
		if err != nil {
			continue
		}
		if !attached(network.Masked(), interfaces) {
			warnings = append(warnings, fmt.Sprintf("subnet %s (%s) is not attached to any up interface and will not be served", subnet.ID, network.Masked()))
		}
	}
	return warnings
}

func attached(network netip.Prefix, interfaces []Interface) bool {
	for _, iface := range interfaces {
		if !iface.Up || iface.Loopback {
			continue
		}
		for _, addr := range iface.Addresses {
			prefix, err := netip.ParsePrefix(addr)
			if err != nil {
				continue
			}
			if network.Contains(prefix.Addr()) {
				return true
			}
		}
	}
	return false
}
