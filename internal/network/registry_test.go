package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vocert/pkg/domain-errors"
)

func TestParse(t *testing.T) {
	n, err := Parse("testnet")
	require.NoError(t, err)
	assert.Equal(t, Testnet, n)

	n, err = Parse(" Mainnet ")
	require.NoError(t, err)
	assert.Equal(t, Mainnet, n)

	_, err = Parse("devnet")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "tst", Testnet.Prefix())
	assert.Equal(t, "iot", Mainnet.Prefix())
	// Unknown networks fall through to the mainnet prefix.
	assert.Equal(t, "iot", Network("devnet").Prefix())
}

func TestLookupFallsBackToDefault(t *testing.T) {
	assert.Equal(t, registry[Default], Lookup(Network("bogus")))
	assert.NotEmpty(t, Lookup(Mainnet).RPCURL)
}

func TestExplorerTxURL(t *testing.T) {
	url := ExplorerTxURL(Testnet, "tx-abc123")
	assert.Equal(t, "https://explorer.evm.iota.org/transaction/tx-abc123", url)
}
