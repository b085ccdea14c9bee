package net

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		kind    FrameKind
		payload string
	}{
		{"empty", "", FrameNone, ""},
		{"whitespace", " \r\n", FrameNone, ""},
		{"request", "GET_SCRIPT", FrameRequest, ""},
		{"padded request", "\nGET_SCRIPT \n", FrameRequest, ""},
		{"lowercase is a script", "get_script", FrameScript, "get_script"},
		{"request prefix is a script", "GET_SCRIPT()", FrameScript, "GET_SCRIPT()"},
		{"script", "canvas.clear()", FrameScript, "canvas.clear()"},
		{"script is trimmed", "\n canvas.clear()\n", FrameScript, "canvas.clear()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, payload := Classify([]byte(tt.in))
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.payload, string(payload))
		})
	}
}

func TestRequestFrame(t *testing.T) {
	kind, _ := Classify(RequestFrame())
	assert.Equal(t, FrameRequest, kind)
	assert.Equal(t, "request", kind.String())
}

func TestEndpointEqualityIsStructural(t *testing.T) {
	a, err := ParseEndpoint("127.0.0.1", 45454)
	require.NoError(t, err)
	b, err := ParseEndpoint(" 127.0.0.1 ", 45454)
	require.NoError(t, err)
	assert.True(t, a == b)
	assert.True(t, a.Valid())

	seen := map[Endpoint]bool{a: true}
	assert.True(t, seen[b])

	mapped := EndpointFrom(netip.MustParseAddrPort("[::ffff:127.0.0.1]:45454"))
	assert.Equal(t, a, mapped)
}

func TestParseEndpointErrors(t *testing.T) {
	_, err := ParseEndpoint("", 1)
	assert.ErrorIs(t, err, ErrEmptyHost)

	_, err = ParseEndpoint("not an ip", 1)
	assert.Error(t, err)

	ep, err := ParseEndpoint("10.0.0.1", 0)
	require.NoError(t, err)
	assert.False(t, ep.Valid(), "port zero cannot be sent to")
}

func TestResolveEndpointLiteral(t *testing.T) {
	ep, err := ResolveEndpoint(context.Background(), "192.168.0.7", 45455)
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.7:45455", ep.String())

	_, err = ResolveEndpoint(context.Background(), "  ", 45455)
	assert.ErrorIs(t, err, ErrEmptyHost)
}
