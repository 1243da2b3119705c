// Package network holds the static registry of ledger environments a
// deployment can target. It is a pure lookup table: changing the active
// network never rewrites identifiers minted under another one.
package network

import (
	"strings"

	dErrors "vocert/pkg/domain-errors"
)

// Network selects which ledger environment transaction calls target.
type Network string

const (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"

	// Default is the network used when none is configured.
	Default = Testnet
)

// Parse validates a network name at trust boundaries (handlers, config).
func Parse(value string) (Network, error) {
	switch Network(strings.TrimSpace(strings.ToLower(value))) {
	case Testnet:
		return Testnet, nil
	case Mainnet:
		return Mainnet, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "network must be testnet or mainnet")
	}
}

// String returns the network name for logging and serialization.
func (n Network) String() string { return string(n) }

// Prefix returns the identifier prefix minted for credentials on this
// network: tst for testnet, iot otherwise.
func (n Network) Prefix() string {
	if n == Testnet {
		return "tst"
	}
	return "iot"
}

// Endpoint describes the RPC and explorer surface of one network.
type Endpoint struct {
	RPCURL        string
	BlockExplorer string
}

// registry is fixed at compile time; endpoints are environment facts, not
// runtime state.
var registry = map[Network]Endpoint{
	Testnet: {
		RPCURL:        "https://api.testnet.iota.cafe",
		BlockExplorer: "https://explorer.evm.iota.org",
	},
	Mainnet: {
		RPCURL:        "https://api.mainnet.iota.cafe",
		BlockExplorer: "https://explorer.evm.iota.org",
	},
}

// Lookup returns the endpoint for a network, falling back to the default
// network for unknown values.
func Lookup(n Network) Endpoint {
	if ep, ok := registry[n]; ok {
		return ep
	}
	return registry[Default]
}

// ExplorerTxURL builds a block-explorer link for a transaction identifier.
func ExplorerTxURL(n Network, txID string) string {
	return Lookup(n).BlockExplorer + "/transaction/" + txID
}
