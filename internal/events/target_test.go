package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in       string
		isServer bool
		clientID string
	}{
		{"", true, "server"},
		{"server", true, "server"},
		{"  server ", true, "server"},
		{"C.1234", false, "C.1234"},
		{"client-123", false, "client-123"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target := ParseTarget(tt.in)
			assert.Equal(t, tt.isServer, target.IsServer())
			assert.Equal(t, tt.clientID, target.ClientID())
			assert.Equal(t, tt.clientID, target.String())
		})
	}
}

func TestTarget_ZeroValueIsServer(t *testing.T) {
	var target Target
	assert.True(t, target.IsServer())
	assert.Equal(t, KindServer, target.Kind())
	assert.Equal(t, ServerTarget(), target)
}

func TestEndpointTarget(t *testing.T) {
	target := EndpointTarget("C.1")
	assert.Equal(t, KindEndpoint, target.Kind())
	assert.NotEqual(t, ServerTarget(), target)
	assert.Equal(t, EndpointTarget("C.1"), target)
	assert.True(t, EndpointTarget("").IsServer())
}
