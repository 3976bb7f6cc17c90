package models

import "fmt"

// ServiceKind identifies one of the managed services.
type ServiceKind string

const (
	KindDNS  ServiceKind = "dns"
	KindDHCP ServiceKind = "dhcp"
	KindHTTP ServiceKind = "http"
)

// AllKinds returns every managed service kind in a stable order.
func AllKinds() []ServiceKind {
	return []ServiceKind{KindDNS, KindDHCP, KindHTTP}
}

// ParseServiceKind converts a string into a ServiceKind.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch ServiceKind(s) {
	case KindDNS, KindDHCP, KindHTTP:
		return ServiceKind(s), nil
	default:
		return "", fmt.Errorf("unknown service kind %q (supported: dns, dhcp, http)", s)
	}
}

func (k ServiceKind) String() string {
	return string(k)
}
