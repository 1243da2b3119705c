package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	lmetrics "vocert/internal/ledger/metrics"
	"vocert/internal/network"
	"vocert/internal/platform/tracer"
	dErrors "vocert/pkg/domain-errors"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RPC submits transfers to the active network's JSON-RPC endpoint. It is the
// production strategy behind the Ledger seam; endpoints come from the
// network registry.
type RPC struct {
	wallet  string
	client  HTTPDoer
	timeout time.Duration
	tracer  tracer.Tracer
	metrics *lmetrics.Metrics
}

// RPCOption configures the RPC ledger.
type RPCOption func(*RPC)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c HTTPDoer) RPCOption {
	return func(r *RPC) { r.client = c }
}

// WithRPCTracer configures span emission for ledger calls.
func WithRPCTracer(t tracer.Tracer) RPCOption {
	return func(r *RPC) { r.tracer = t }
}

// WithRPCMetrics configures transfer and balance metrics.
func WithRPCMetrics(m *lmetrics.Metrics) RPCOption {
	return func(r *RPC) { r.metrics = m }
}

// NewRPC constructs an RPC ledger bound to the given wallet address.
func NewRPC(wallet string, opts ...RPCOption) *RPC {
	r := &RPC{
		wallet:  wallet,
		timeout: 10 * time.Second,
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	return r
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type transferParams struct {
	From     string    `json:"from"`
	Payments []payment `json:"payments"`
}

type payment struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type transferResult struct {
	TransactionIDs []string `json:"transaction_ids"`
}

type balanceParams struct {
	Address string `json:"address"`
}

type balanceResult struct {
	Balance string `json:"balance"`
}

// Transfer submits a single value transfer.
func (r *RPC) Transfer(ctx context.Context, to string, amount decimal.Decimal, net network.Network) (TxID, error) {
	ids, err := r.TransferBatch(ctx, []Payment{{To: to, Amount: amount}}, net)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// TransferBatch submits all payments as one transaction block so settlement
// is atomic on the ledger side.
func (r *RPC) TransferBatch(ctx context.Context, payments []Payment, net network.Network) ([]TxID, error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanLedgerBatch,
		tracer.String(tracer.AttrNetwork, net.String()),
		tracer.Int64(tracer.AttrTransferCount, int64(len(payments))),
	)
	var err error
	defer func() { span.End(err) }()

	if len(payments) == 0 {
		err = dErrors.New(dErrors.CodeValidation, "transfer batch is empty")
		return nil, err
	}

	params := transferParams{From: r.wallet, Payments: make([]payment, 0, len(payments))}
	for _, p := range payments {
		if p.To == "" {
			err = dErrors.New(dErrors.CodeValidation, "transfer recipient is required")
			return nil, err
		}
		if p.Amount.IsNegative() {
			err = dErrors.New(dErrors.CodeValidation, "transfer amount cannot be negative")
			return nil, err
		}
		params.Payments = append(params.Payments, payment{To: p.To, Amount: p.Amount.String()})
	}

	start := time.Now()
	var result transferResult
	if err = r.call(ctx, net, "submitTransferBlock", params, &result); err != nil {
		return nil, err
	}
	if len(result.TransactionIDs) != len(payments) {
		err = dErrors.New(dErrors.CodeTransaction, "ledger returned an incomplete transaction set")
		return nil, err
	}

	ids := make([]TxID, 0, len(result.TransactionIDs))
	for _, raw := range result.TransactionIDs {
		ids = append(ids, TxID(raw))
	}
	if r.metrics != nil {
		for range ids {
			r.metrics.ObserveTransfer(net.String(), start)
		}
	}
	return ids, nil
}

// Balance queries the bound wallet's balance on the network.
func (r *RPC) Balance(ctx context.Context, net network.Network) (decimal.Decimal, error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanLedgerBalance,
		tracer.String(tracer.AttrNetwork, net.String()),
	)
	var err error
	defer func() { span.End(err) }()

	var result balanceResult
	if err = r.call(ctx, net, "getBalance", balanceParams{Address: r.wallet}, &result); err != nil {
		return decimal.Zero, err
	}
	balance, parseErr := decimal.NewFromString(result.Balance)
	if parseErr != nil {
		err = dErrors.Wrap(parseErr, dErrors.CodeTransaction, "ledger returned an unreadable balance")
		return decimal.Zero, err
	}
	if r.metrics != nil {
		r.metrics.IncrementBalanceQueries()
	}
	return balance, nil
}

// call performs one JSON-RPC 2.0 exchange against the network's endpoint.
func (r *RPC) call(ctx context.Context, net network.Network, method string, params, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal rpc request")
	}

	url := network.Lookup(net).RPCURL
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "ledger rpc timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeTransaction, "ledger rpc failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeTransaction, "failed to read rpc response")
	}
	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeTransaction, fmt.Sprintf("ledger rpc returned status %d", resp.StatusCode))
	}

	var envelope rpcResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTransaction, "failed to unmarshal rpc response")
	}
	if envelope.Error != nil {
		return dErrors.New(dErrors.CodeTransaction, fmt.Sprintf("ledger rejected call: %s", envelope.Error.Message))
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTransaction, "failed to unmarshal rpc result")
	}
	return nil
}

var _ Ledger = (*RPC)(nil)
