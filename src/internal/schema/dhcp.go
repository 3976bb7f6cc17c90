package schema

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

func readDHCP(r *reader, obj map[string]interface{}) *models.DHCPConfig {
	cfg := &models.DHCPConfig{
		Enabled:           r.boolean(obj, "enabled", ""),
		Authoritative:     r.boolean(obj, "authoritative", ""),
		DefaultLeaseTime:  r.integer(obj, "defaultLeaseTime", ""),
		MaxLeaseTime:      r.integer(obj, "maxLeaseTime", ""),
		DDNSUpdateStyle:   r.str(obj, "ddnsUpdateStyle", ""),
		DomainName:        r.str(obj, "domainName", ""),
		DomainNameServers: r.strings(obj, "domainNameServers", ""),
		Options:           readDHCPOptions(r, obj, ""),
	}

	r.objects(obj, "subnets", "", func(_ int, s map[string]interface{}, p string) {
		subnet := models.DHCPSubnet{
			ID:                r.str(s, "id", p),
			Network:           r.str(s, "network", p),
			Routers:           r.strings(s, "routers", p),
			DomainNameServers: r.strings(s, "domainNameServers", p),
			DefaultLeaseTime:  r.integer(s, "defaultLeaseTime", p),
			MaxLeaseTime:      r.integer(s, "maxLeaseTime", p),
			Options:           readDHCPOptions(r, s, p),
		}

		r.objects(s, "pools", p, func(_ int, pool map[string]interface{}, pp string) {
			rangePath := join(pp, "range")
			rng := r.child(pool, "range", pp)
			subnet.Pools = append(subnet.Pools, models.DHCPPool{
				ID: r.str(pool, "id", pp),
				Range: models.DHCPRange{
					Start: r.str(rng, "start", rangePath),
					End:   r.str(rng, "end", rangePath),
				},
			})
		})

		r.objects(s, "reservations", p, func(_ int, res map[string]interface{}, rp string) {
			subnet.Reservations = append(subnet.Reservations, models.DHCPHostReservation{
				ID:       r.str(res, "id", rp),
				Hostname: r.str(res, "hostname", rp),
				MAC:      r.str(res, "mac", rp),
				IP:       r.str(res, "ip", rp),
			})
		})

		cfg.Subnets = append(cfg.Subnets, subnet)
	})

	return cfg
}

func readDHCPOptions(r *reader, obj map[string]interface{}, parent string) []models.DHCPOption {
	var options []models.DHCPOption
	r.objects(obj, "options", parent, func(_ int, o map[string]interface{}, p string) {
		options = append(options, models.DHCPOption{
			ID:    r.str(o, "id", p),
			Name:  r.str(o, "name", p),
			Value: r.str(o, "value", p),
		})
	})
	return options
}

func checkDHCP(r *reader, cfg *models.DHCPConfig) {
	checkLeaseTimes(r, cfg.DefaultLeaseTime, cfg.MaxLeaseTime, "")
	checkDHCPOptions(r, cfg.Options, "options")

	subnetIDs := newUniqueSet()
	hostnames := newUniqueSet()
	macs := newUniqueSet()
	var networks []netip.Prefix
	var networkPaths []string

	for i, subnet := range cfg.Subnets {
		sp := index("subnets", i)
		subnetIDs.check(r, subnet.ID, join(sp, "id"), "duplicate id %q")
		checkLeaseTimes(r, subnet.DefaultLeaseTime, subnet.MaxLeaseTime, sp)
		checkDHCPOptions(r, subnet.Options, join(sp, "options"))

		network, ok := parseNetwork(subnet.Network)
		if ok {
			if network.Masked() != network {
				r.report(join(sp, "network"), fmt.Sprintf("must be a network address (did you mean %s?)", network.Masked()))
				ok = false
			}
		}
		if ok {
			for k, other := range networks {
				if other.Overlaps(network) {
					r.report(join(sp, "network"), fmt.Sprintf("overlaps %s", networkPaths[k]))
					break
				}
			}
			networks = append(networks, network)
			networkPaths = append(networkPaths, sp)
		}

		poolIDs := newUniqueSet()
		for j, pool := range subnet.Pools {
			pp := index(join(sp, "pools"), j)
			poolIDs.check(r, pool.ID, join(pp, "id"), "duplicate id %q")
			checkPool(r, pool, pp, network, ok)
		}

		reservationIDs := newUniqueSet()
		for j, res := range subnet.Reservations {
			rp := index(join(sp, "reservations"), j)
			reservationIDs.check(r, res.ID, join(rp, "id"), "duplicate id %q")
			hostnames.check(r, strings.ToLower(res.Hostname), join(rp, "hostname"), "duplicate host name %q")
			if mac, err := net.ParseMAC(res.MAC); err == nil {
				macs.check(r, mac.String(), join(rp, "mac"), "duplicate hardware address %s")
			}
			if ip, err := netip.ParseAddr(res.IP); err == nil && ip.Is4() && ok && !network.Contains(ip) {
				r.report(join(rp, "ip"), fmt.Sprintf("address %s is outside subnet %s", ip, network))
			}
		}
	}
}

func checkPool(r *reader, pool models.DHCPPool, p string, network netip.Prefix, haveNetwork bool) {
	rangePath := join(p, "range")
	start, startErr := netip.ParseAddr(pool.Range.Start)
	end, endErr := netip.ParseAddr(pool.Range.End)
	startOK := startErr == nil && start.Is4()
	endOK := endErr == nil && end.Is4()

	if startOK && endOK && end.Less(start) {
		r.report(rangePath, fmt.Sprintf("range start %s is after range end %s", start, end))
		return
	}
	if !haveNetwork {
		return
	}
	if startOK && !network.Contains(start) {
		r.report(join(rangePath, "start"), fmt.Sprintf("address %s is outside subnet %s", start, network))
	}
	if endOK && !network.Contains(end) {
		r.report(join(rangePath, "end"), fmt.Sprintf("address %s is outside subnet %s", end, network))
	}
}

func checkLeaseTimes(r *reader, defaultLease, maxLease int, parent string) {
	if maxLease > 0 && defaultLease > maxLease {
		r.report(join(parent, "defaultLeaseTime"), fmt.Sprintf("must not exceed maxLeaseTime (%d)", maxLease))
	}
}

func checkDHCPOptions(r *reader, options []models.DHCPOption, parent string) {
	ids := newUniqueSet()
	names := newUniqueSet()
	for i, opt := range options {
		op := index(parent, i)
		ids.check(r, opt.ID, join(op, "id"), "duplicate id %q")
		names.check(r, opt.Name, join(op, "name"), "option %q is set more than once")

		def, ok := models.LookupDHCPOption(opt.Name)
		if !ok || opt.Value == "" {
			continue
		}
		if msg := checkOptionValue(def, opt.Value); msg != "" {
			r.report(join(op, "value"), msg)
		}
	}
}

// checkOptionValue returns a diagnostic message, or "" when the value encodes
// into a DHCP option that fits on the wire.
func checkOptionValue(def models.DHCPOptionSpec, value string) string {
	encoded, err := def.Encode(value)
	if err != nil {
		return err.Error()
	}
	if def.Type == models.OptionDomainList {
		for _, name := range models.SplitOptionList(value) {
			if !isDomainName(name) {
				return fmt.Sprintf("%q is not a valid domain name", name)
			}
		}
	}
	if n := len(encoded.Value.ToBytes()); n > models.MaxDHCPOptionLength {
		return fmt.Sprintf("encodes to %d bytes as option %d (%s), at most %d fit",
			n, encoded.Code.Code(), encoded.Code, models.MaxDHCPOptionLength)
	}
	return ""
}

func parseNetwork(s string) (netip.Prefix, bool) {
	prefix, err := netip.ParsePrefix(s)
	if err != nil || !prefix.Addr().Is4() {
		return netip.Prefix{}, false
	}
	return prefix, true
}
