// Package session holds process-wide selection state shared by the role
// flows: the active network, the wizard step, and the selected tab. Setters
// replace fields without validation; validation happens at the transport
// boundary. Changing the network never rewrites identifiers minted under a
// previous one.
package session

import (
	"sync"

	"vocert/internal/network"
)

// Tab names the role view a client last selected.
const (
	TabIssue  = "issue"
	TabWallet = "wallet"
	TabVerify = "verify"
)

// State is the session selection state. Safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	step    int
	tab     string
	network network.Network
}

// New constructs session state starting on the given network, at step 0,
// with the issue tab selected.
func New(net network.Network) *State {
	return &State{tab: TabIssue, network: net}
}

// Network returns the active ledger network.
func (s *State) Network() network.Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network
}

// SetNetwork switches the active ledger network.
func (s *State) SetNetwork(net network.Network) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = net
}

// Step returns the current wizard step.
func (s *State) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// SetStep replaces the current wizard step.
func (s *State) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

// Tab returns the selected tab.
func (s *State) Tab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// SetTab replaces the selected tab.
func (s *State) SetTab(tab string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
}
