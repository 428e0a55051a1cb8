// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lss

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	addr2, err := ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, *addr, *addr2)

	_, err = ParseAddress("0x7567d83b")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("reporter"))
	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestVerdictAndClass(t *testing.T) {
	v, err := ParseVerdict("malicious")
	require.NoError(t, err)
	assert.Equal(t, VerdictMalicious, v)
	assert.True(t, v.IsValid())
	assert.False(t, VerdictNone.IsValid())

	_, err = ParseVerdict("guilty")
	assert.Error(t, err)

	c, err := ParseVoterClass("token-owners")
	require.NoError(t, err)
	assert.Equal(t, ClassTokenOwners, c)
	assert.Equal(t, uint8(1), uint8(c))
	assert.False(t, VoterClass(3).IsValid())
}

func TestBlake2b(t *testing.T) {
	a := Blake2b([]byte("a"), []byte("b"))
	b := Blake2b([]byte("ab"))
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, Uint64Key(256).Bytes())
}
