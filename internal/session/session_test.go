package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vocert/internal/network"
)

func TestStateDefaults(t *testing.T) {
	s := New(network.Testnet)
	assert.Equal(t, network.Testnet, s.Network())
	assert.Equal(t, 0, s.Step())
	assert.Equal(t, TabIssue, s.Tab())
}

func TestStateReplacement(t *testing.T) {
	s := New(network.Testnet)

	s.SetNetwork(network.Mainnet)
	s.SetStep(2)
	s.SetTab(TabVerify)

	assert.Equal(t, network.Mainnet, s.Network())
	assert.Equal(t, 2, s.Step())
	assert.Equal(t, TabVerify, s.Tab())
}
