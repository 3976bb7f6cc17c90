// Package models defines the canonical configuration model of the managed services
// and the values that flow through an apply cycle.
//
// A ServiceConfig is a tagged union with one variant per managed daemon:
//   - DNS: BIND 9 (zones and resource records)
//   - DHCP: ISC dhcpd (subnets, pools, host reservations, options)
//   - HTTP: Apache httpd (virtual hosts and directives)
//
// Values of these types are only ever produced by the schema package from
// untrusted input, or loaded back from the state store; string fields are still
// untrusted text and must pass through the sanitize package before being embedded
// into generated configuration.
package models
