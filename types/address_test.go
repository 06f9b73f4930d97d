// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"0x0000000000000000000000000000000000003333", ""},
		{"0X0000000000000000000000000000000000003333", ""},
		{"0000000000000000000000000000000000003333", ""},
		{"0x3333", "invalid length"},
		{"1x0000000000000000000000000000000000003333", "invalid prefix"},
		{"0x00000000000000000000000000000000000033zz", "encoding/hex: invalid byte: U+007A 'z'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, BytesToAddress([]byte{0x33, 0x33}), *addr)
		})
	}
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("user"))
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Panics(t, func() { MustParseAddress("0x12") })
}
