package models

import (
	"testing"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDHCPOptionSpec_Encode(t *testing.T) {
	tests := []struct {
		name  string
		value string
		code  uint8
		wire  []byte
	}{
		{"routers", "10.0.0.1, 10.0.0.2", 3, []byte{10, 0, 0, 1, 10, 0, 0, 2}},
		{"subnet-mask", "255.255.255.0", 1, []byte{255, 255, 255, 0}},
		{"interface-mtu", "1500", 26, []byte{0x05, 0xdc}},
		{"time-offset", "-1", 2, []byte{0xff, 0xff, 0xff, 0xff}},
		{"domain-name", "lan", 15, []byte("lan")},
		{"domain-search", "a.io, b.io", 119, []byte{1, 'a', 2, 'i', 'o', 0, 1, 'b', 2, 'i', 'o', 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := LookupDHCPOption(tt.name)
			require.True(t, ok)

			opt, err := def.Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.code, opt.Code.Code())
			assert.Equal(t, tt.wire, opt.Value.ToBytes())
		})
	}
}

func TestDHCPOptionSpec_EncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"routers", "10.0.0.1, ::1"},
		{"broadcast-address", "10.0.0"},
		{"interface-mtu", "65536"},
		{"time-offset", "9999999999"},
		{"domain-search", "a.io,,b.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := LookupDHCPOption(tt.name)
			require.True(t, ok)
			_, err := def.Encode(tt.value)
			assert.Error(t, err)
		})
	}
}

func TestDHCPOptionSpecs_NamedCodes(t *testing.T) {
	for name, def := range DHCPOptionSpecs {
		assert.NotContains(t, def.Code.String(), "unknown", "option %s has no registered code name", name)
	}
}

func TestOptionInt32Value(t *testing.T) {
	n, ok := OptionInt32Value(dhcpv4.OptGeneric(dhcpv4.OptionTimeOffset, []byte{0xff, 0xff, 0xf1, 0xf0}))
	require.True(t, ok)
	assert.Equal(t, int32(-3600), n)

	_, ok = OptionInt32Value(dhcpv4.OptGeneric(dhcpv4.OptionTimeOffset, []byte{1}))
	assert.False(t, ok)
}
