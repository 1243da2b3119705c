package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocert/internal/network"
	dErrors "vocert/pkg/domain-errors"
)

func TestNewCredentialID(t *testing.T) {
	id, err := NewCredentialID(network.Testnet)
	require.NoError(t, err)
	assert.Regexp(t, `^tst-[0-9a-z]{8}$`, id.String())

	id, err = NewCredentialID(network.Mainnet)
	require.NoError(t, err)
	assert.Regexp(t, `^iot-[0-9a-z]{8}$`, id.String())
}

func TestParseCredentialID(t *testing.T) {
	id, err := ParseCredentialID("tst-a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, CredentialID("tst-a1b2c3d4"), id)

	for _, bad := range []string{"", "  ", "abc-a1b2c3d4", "tst-short", "tst-A1B2C3D4", "tst-a1b2c3d4e5"} {
		_, err := ParseCredentialID(bad)
		require.Error(t, err, "expected %q to be rejected", bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func TestNewProofToken(t *testing.T) {
	tok, err := NewProofToken()
	require.NoError(t, err)
	assert.Regexp(t, `^proof-[0-9a-z]{8}$`, tok)
}
