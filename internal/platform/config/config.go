package config

import (
	"os"
	"time"

	"github.com/shopspring/decimal"

	"vocert/internal/network"
)

// LedgerMode selects the strategy behind the ledger seam.
type LedgerMode string

const (
	// LedgerModeMock simulates transfers in-process with artificial latency.
	LedgerModeMock LedgerMode = "mock"
	// LedgerModeRPC submits transfers to the network's JSON-RPC endpoint.
	LedgerModeRPC LedgerMode = "rpc"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	Network       network.Network
	LedgerMode    LedgerMode
	WalletAddress string
	SystemAddress string
	DatabaseURL   string
	JWTSigningKey string
	TokenTTL      time.Duration
	AuditBuffer   int
	MockBalance   decimal.Decimal

	// Demo identities used when a request carries no bearer token. They
	// mirror the fixed session identities of the reference deployment.
	IssuerDID   string
	StudentDID  string
	EmployerDID string
}

var TokenTTL = 15 * time.Minute

// FeeAddress is the fixed system address verification fees are paid to.
const FeeAddress = "0xef63d9b7c6fd0be5af6b4a7c2d88331bbd096a302b1f0fecce8d0fb5a56d1b9b"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VOCERT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	net := network.Default
	if parsed, err := network.Parse(os.Getenv("VOCERT_NETWORK")); err == nil {
		net = parsed
	}

	mode := LedgerModeMock
	if os.Getenv("VOCERT_LEDGER_MODE") == string(LedgerModeRPC) {
		mode = LedgerModeRPC
	}

	tokenTTL := TokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if duration, err := time.ParseDuration(raw); err == nil {
			tokenTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	balance := decimal.RequireFromString("10.5")
	if raw := os.Getenv("VOCERT_MOCK_BALANCE"); raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil {
			balance = parsed
		}
	}

	return Server{
		Addr:          addr,
		Network:       net,
		LedgerMode:    mode,
		WalletAddress: envOr("VOCERT_WALLET_ADDRESS", "0x6f7a1aef9bcd42f3c7e2a9815d4e6f2b8c5d3a90e1f4b7c6d8a2e5f9031b4c7d"),
		SystemAddress: envOr("VOCERT_SYSTEM_ADDRESS", FeeAddress),
		DatabaseURL:   os.Getenv("VOCERT_DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
		AuditBuffer:   0,
		MockBalance:   balance,
		IssuerDID:     envOr("VOCERT_ISSUER_DID", "did:iota:issuer:123"),
		StudentDID:    envOr("VOCERT_STUDENT_DID", "did:iota:student:456"),
		EmployerDID:   envOr("VOCERT_EMPLOYER_DID", "did:iota:employer:789"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
