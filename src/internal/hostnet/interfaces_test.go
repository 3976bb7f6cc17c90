package hostnet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maksimkurb/hostconf/src/internal/models"
)

func TestSubnetWarnings(t *testing.T) {
	interfaces := []Interface{
		{Name: "lo", Up: true, Loopback: true, Addresses: []string{"127.0.0.1/8", "10.9.0.1/32"}},
		{Name: "br0", Up: true, Addresses: []string{"192.168.1.1/24", "fe80::1/64"}},
		{Name: "eth1", Up: false, Addresses: []string{"10.0.0.1/24"}},
	}
	cfg := &models.DHCPConfig{
		Subnets: []models.DHCPSubnet{
			{ID: "lan", Network: "192.168.1.0/24"},
			{ID: "down", Network: "10.0.0.0/24"},
			{ID: "loop", Network: "10.9.0.0/16"},
			{ID: "bad", Network: "not-a-network"},
		},
	}

	warnings := SubnetWarnings(cfg, interfaces)
	assert.Equal(t, []string{
		"subnet down (10.0.0.0/24) is not attached to any up interface and will not be served",
		"subnet loop (10.9.0.0/16) is not attached to any up interface and will not be served",
	}, warnings)
}

func TestSubnetWarnings_NoSubnets(t *testing.T) {
	assert.Empty(t, SubnetWarnings(&models.DHCPConfig{}, nil))
}
