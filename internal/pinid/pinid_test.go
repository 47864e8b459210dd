package pinid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "n1.out", Encode("n1", "out"))
	assert.Equal(t, "n1.", Encode("n1", ""))
}

func TestDecode_RoundTrip(t *testing.T) {
	testCases := []struct {
		node string
		pin  string
	}{
		{"n1", "out"},
		{"0b9e7c1a-2d3f-4c5b-9a8e-7f6d5c4b3a21", "sum"},
		{"const_1", "value"},
		{"a", "in-bad"},
	}

	for _, tc := range testCases {
		t.Run(tc.node+"/"+tc.pin, func(t *testing.T) {
			addr := Decode(Encode(tc.node, tc.pin))
			assert.Equal(t, tc.node, addr.Node)
			assert.Equal(t, tc.pin, addr.Pin)
			assert.Equal(t, Encode(tc.node, tc.pin), addr.String())
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	addr := Decode("nodeonly")
	assert.Equal(t, "nodeonly", addr.Node)
	assert.Empty(t, addr.Pin)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Address
	}{
		{name: "valid", raw: "n1.out", expected: Address{Node: "n1", Pin: "out"}},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - no separator", raw: "n1out", expectErr: true},
		{name: "error - empty node", raw: ".out", expectErr: true},
		{name: "error - empty pin", raw: "n1.", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, addr)
		})
	}
}
