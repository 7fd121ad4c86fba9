package vault

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestVault_SealOpen(t *testing.T) {
	v := New(fastParams)

	sealed, err := v.Seal("correct horse", "dear diary")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "diary")

	got, err := v.Open("correct horse", sealed)
	require.NoError(t, err)
	assert.Equal(t, "dear diary", got)
}

func TestVault_SealIsRandomized(t *testing.T) {
	v := New(fastParams)
	a, err := v.Seal("pw", "same")
	require.NoError(t, err)
	b, err := v.Seal("pw", "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVault_WrongPassphrase(t *testing.T) {
	v := New(fastParams)
	sealed, err := v.Seal("right", "secret")
	require.NoError(t, err)

	_, err = v.Open("wrong", sealed)
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = v.Open("", sealed)
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
	_, err = v.Seal("", "x")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestVault_Tampered(t *testing.T) {
	v := New(fastParams)
	sealed, err := v.Seal("pw", "secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = v.Open("pw", base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = v.Open("pw", "!!not base64!!")
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = v.Open("pw", base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("pw"), []byte("salt-1"), fastParams)
	k2 := DeriveKey([]byte("pw"), []byte("salt-1"), fastParams)
	k3 := DeriveKey([]byte("pw"), []byte("salt-2"), fastParams)
	assert.True(t, bytes.Equal(k1, k2))
	assert.False(t, bytes.Equal(k1, k3))
	assert.Len(t, k1, 32)
}

func TestDecodeLegacy(t *testing.T) {
	got, err := DecodeLegacy(base64.StdEncoding.EncodeToString([]byte("old entry")))
	require.NoError(t, err)
	assert.Equal(t, "old entry", got)

	_, err = DecodeLegacy("%%%")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams.Validate())
	require.NoError(t, fastParams.Validate())

	for _, p := range []Params{{}, {Time: 1, Memory: 1024}, {Memory: 1024, Threads: 1}, {Time: 1, Threads: 1}} {
		assert.Error(t, p.Validate(), "%+v", p)
	}
}
