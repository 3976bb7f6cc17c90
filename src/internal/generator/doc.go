// Package generator renders validated service configurations into daemon
// configuration text: BIND named.conf plus one zone file per master zone, ISC
// dhcpd.conf, and an Apache httpd include with the virtual hosts.
//
// Generation is pure and deterministic. The same configuration always renders
// byte-identical text, and every user supplied string passes through the
// sanitize package for the syntactic position it lands in. Zone file records
// are rendered by github.com/miekg/dns, which applies the zone file escaping
// rules itself.
package generator
