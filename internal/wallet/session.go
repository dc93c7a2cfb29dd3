// Package wallet tracks the connection to a user-controlled signing provider.
package wallet

import (
	"context"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"civiclink/internal/platform/metrics"
	dErrors "civiclink/pkg/domain-errors"
)

// Caller executes read-only contract calls on behalf of an account.
// *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Provider is a signing provider the user controls.
//
// RequestAccounts asks the user for account access. Implementations return
// user_rejected when the user declines; any other error is treated as a
// provider failure.
type Provider interface {
	Name() string
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Caller() Caller
}

// Signer is bound to one account and reads through the provider's backend.
type Signer struct {
	Address common.Address
	Caller  Caller
}

// Session owns the connection state. The signer is set iff the account is.
type Session struct {
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	account string
	signer  *Signer
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// NewSession creates a disconnected session. provider may be nil when no
// wallet is configured; Connect then reports provider_missing.
func NewSession(provider Provider, opts ...Option) *Session {
	s := &Session{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect runs the account handshake and binds a signer to the first
// returned account. A failed attempt leaves any previous connection intact.
// Each call repeats the full handshake.
func (s *Session) Connect(ctx context.Context) (account string, err error) {
	if s.provider == nil {
		return "", dErrors.New(dErrors.CodeProviderMissing, "no wallet provider configured")
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveBackendCall("wallet", "requestAccounts", metrics.Outcome(err), time.Since(start))
	}()

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUserRejected) || dErrors.HasCode(err, dErrors.CodeProviderError) {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeProviderError, "request accounts")
	}
	if len(accounts) == 0 {
		return "", dErrors.New(dErrors.CodeProviderError, "provider returned no accounts")
	}

	signer := &Signer{Address: accounts[0], Caller: s.provider.Caller()}
	account = signer.Address.Hex()

	s.mu.Lock()
	s.account = account
	s.signer = signer
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "wallet connected",
		"provider", s.provider.Name(),
		"account", ShortAddress(account),
	)
	return account, nil
}

// Signer returns the connected signer or not_connected.
func (s *Session) Signer() (*Signer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signer == nil {
		return nil, dErrors.New(dErrors.CodeNotConnected, "wallet is not connected")
	}
	return s.signer, nil
}

// Account returns the connected account address.
func (s *Session) Account() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.account != ""
}

// ShortAddress renders an address as its first 6 and last 4 characters.
func ShortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
