package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	lmetrics "vocert/internal/ledger/metrics"
	"vocert/internal/network"
	"vocert/internal/platform/tracer"
	dErrors "vocert/pkg/domain-errors"
	"vocert/pkg/token"
)

// Default simulated latencies. Testnet settles faster than mainnet so UI
// loading states can be exercised realistically.
const (
	defaultTestnetLatency = 150 * time.Millisecond
	defaultMainnetLatency = 400 * time.Millisecond
)

// SubmittedTransfer records one transfer accepted by the mock, for
// inspection in tests.
type SubmittedTransfer struct {
	TxID    TxID
	To      string
	Amount  decimal.Decimal
	Network network.Network
}

// Mock simulates a ledger in-process. It performs no network I/O: transfers
// are recorded after a simulated settlement delay and balance queries return
// a fixed configurable amount. Safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	balance   decimal.Decimal
	latency   map[network.Network]time.Duration
	transfers []SubmittedTransfer

	tracer  tracer.Tracer
	metrics *lmetrics.Metrics
}

// MockOption configures the mock ledger.
type MockOption func(*Mock)

// WithBalance sets the fixed balance reported by Balance.
func WithBalance(balance decimal.Decimal) MockOption {
	return func(m *Mock) { m.balance = balance }
}

// WithLatency overrides the simulated settlement delay for one network.
// Tests pass zero to run without sleeping.
func WithLatency(net network.Network, d time.Duration) MockOption {
	return func(m *Mock) { m.latency[net] = d }
}

// WithTracer configures span emission for ledger calls.
func WithTracer(t tracer.Tracer) MockOption {
	return func(m *Mock) { m.tracer = t }
}

// WithMetrics configures transfer and balance metrics.
func WithMetrics(mt *lmetrics.Metrics) MockOption {
	return func(m *Mock) { m.metrics = mt }
}

// NewMock constructs a mock ledger with the default balance of 10.5 and
// per-network settlement delays.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		balance: decimal.RequireFromString("10.5"),
		latency: map[network.Network]time.Duration{
			network.Testnet: defaultTestnetLatency,
			network.Mainnet: defaultMainnetLatency,
		},
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Transfer simulates a single value transfer.
func (m *Mock) Transfer(ctx context.Context, to string, amount decimal.Decimal, net network.Network) (TxID, error) {
	ids, err := m.TransferBatch(ctx, []Payment{{To: to, Amount: amount}}, net)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// TransferBatch simulates an atomic multi-transfer: after the settlement
// delay all payments are recorded under one lock, so no observer can see a
// partially applied batch.
func (m *Mock) TransferBatch(ctx context.Context, payments []Payment, net network.Network) ([]TxID, error) {
	ctx, span := m.tracer.Start(ctx, tracer.SpanLedgerBatch,
		tracer.String(tracer.AttrNetwork, net.String()),
		tracer.Int64(tracer.AttrTransferCount, int64(len(payments))),
	)
	var err error
	defer func() { span.End(err) }()

	if len(payments) == 0 {
		err = dErrors.New(dErrors.CodeValidation, "transfer batch is empty")
		return nil, err
	}
	for _, p := range payments {
		if p.To == "" {
			err = dErrors.New(dErrors.CodeValidation, "transfer recipient is required")
			return nil, err
		}
		if p.Amount.IsNegative() {
			err = dErrors.New(dErrors.CodeValidation, "transfer amount cannot be negative")
			return nil, err
		}
	}

	start := time.Now()
	if err = m.settle(ctx, net); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeTransaction, "transfer cancelled before settlement")
		return nil, err
	}

	ids := make([]TxID, 0, len(payments))
	m.mu.Lock()
	for _, p := range payments {
		id, tokenErr := newTxID()
		if tokenErr != nil {
			m.mu.Unlock()
			err = tokenErr
			return nil, err
		}
		m.transfers = append(m.transfers, SubmittedTransfer{
			TxID:    id,
			To:      p.To,
			Amount:  p.Amount,
			Network: net,
		})
		ids = append(ids, id)
	}
	m.mu.Unlock()

	if m.metrics != nil {
		for range payments {
			m.metrics.ObserveTransfer(net.String(), start)
		}
	}
	return ids, nil
}

// Balance reports the configured fixed balance after the settlement delay.
func (m *Mock) Balance(ctx context.Context, net network.Network) (decimal.Decimal, error) {
	ctx, span := m.tracer.Start(ctx, tracer.SpanLedgerBalance,
		tracer.String(tracer.AttrNetwork, net.String()),
	)
	var err error
	defer func() { span.End(err) }()

	if err = m.settle(ctx, net); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeTransaction, "balance query cancelled")
		return decimal.Zero, err
	}
	if m.metrics != nil {
		m.metrics.IncrementBalanceQueries()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, nil
}

// Transfers returns a snapshot of every transfer the mock has accepted.
func (m *Mock) Transfers() []SubmittedTransfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SubmittedTransfer, len(m.transfers))
	copy(out, m.transfers)
	return out
}

// settle blocks for the network's simulated latency or until the context is
// done, whichever comes first.
func (m *Mock) settle(ctx context.Context, net network.Network) error {
	d, ok := m.latency[net]
	if !ok {
		d = defaultTestnetLatency
	}
	if d == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newTxID() (TxID, error) {
	t, err := token.Base36(12)
	if err != nil {
		return "", err
	}
	return TxID("tx-" + t), nil
}

var _ Ledger = (*Mock)(nil)
