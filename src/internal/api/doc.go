// Package api provides the REST API server for hostconf.
//
// The API is a thin adapter over domain.ConfigService. It provides:
//   - apply, validate and preview of DNS, DHCP and HTTP service configurations
//   - the last committed configuration and the retained backups of each service
//   - lifecycle control and status of the managed daemons
//   - host network interfaces, health and Prometheus metrics
//
// Successful responses are wrapped in {"data": ...}. Failures are returned as
// {"error": {"code", "message", "details"}} with a status code derived from the
// domain error code. Authentication and authorization are left to a reverse proxy.
package api
