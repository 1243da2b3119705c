// Package ledger isolates all value-transfer interaction behind one seam so
// a real ledger backend can replace the simulated one without touching flow
// logic. Exactly one strategy is active per process, selected by config.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"vocert/internal/network"
)

// TxID identifies a submitted ledger transaction.
type TxID string

// String returns the transaction ID for logging and serialization.
func (id TxID) String() string { return string(id) }

// Payment is one value transfer within a batch.
type Payment struct {
	To     string
	Amount decimal.Decimal
}

// Ledger is the seam all flows submit transfers and balance queries through.
// The sending wallet is bound at construction. Implementations must honor
// context cancellation and deadlines; real ledger calls can hang.
type Ledger interface {
	// Transfer submits a single value transfer and returns its transaction ID.
	Transfer(ctx context.Context, to string, amount decimal.Decimal, net network.Network) (TxID, error)

	// TransferBatch submits several transfers as one atomic unit: either all
	// of them settle or none do. Verification charges two fees through this
	// so a failure between them cannot consume the first fee.
	TransferBatch(ctx context.Context, payments []Payment, net network.Network) ([]TxID, error)

	// Balance reports the bound wallet's spendable balance on the network.
	Balance(ctx context.Context, net network.Network) (decimal.Decimal, error)
}
