// Package contract queries the on-chain officials registry.
package contract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"civiclink/internal/officials"
	"civiclink/internal/platform/metrics"
	"civiclink/internal/wallet"
	dErrors "civiclink/pkg/domain-errors"
)

// DefaultAddress is the deployed CivicLink registry.
const DefaultAddress = "0xB3be2E51EdAeC9dB5CE98Db1C04b66895774Fd9a"

const searchMethod = "searchOfficials"

// registryABI describes the one entry point used here.
const registryABI = `[{
	"type": "function",
	"name": "searchOfficials",
	"stateMutability": "view",
	"inputs": [{"name": "term", "type": "string"}],
	"outputs": [{
		"name": "",
		"type": "tuple[]",
		"components": [
			{"name": "name", "type": "string"},
			{"name": "role", "type": "string"},
			{"name": "contactEmail", "type": "string"},
			{"name": "officeLine", "type": "string"}
		]
	}]
}]`

var parsedABI = mustParseABI(registryABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Client is bound to one signer. A nil *Client is valid and reports
// not_initialized on every call.
type Client struct {
	address common.Address
	abi     abi.ABI
	signer  *wallet.Signer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithAddress overrides the registry address.
func WithAddress(addr common.Address) Option {
	return func(c *Client) {
		c.address = addr
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New binds the registry to signer. Call it only after a successful connect.
func New(signer *wallet.Signer, opts ...Option) *Client {
	c := &Client{
		address: common.HexToAddress(DefaultAddress),
		abi:     parsedABI,
		signer:  signer,
		logger:  slog.Default(),
		tracer:  otel.Tracer("civiclink/contract"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchOfficials runs the registry search for term and returns records in
// contract order. There is no pagination and no timeout beyond ctx.
func (c *Client) SearchOfficials(ctx context.Context, term string) (records []officials.ContractRecord, err error) {
	if c == nil || c.signer == nil || c.signer.Caller == nil {
		return nil, dErrors.New(dErrors.CodeNotInitialized, "contract client is not initialized")
	}

	ctx, span := c.tracer.Start(ctx, "contract."+searchMethod,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("contract.address", c.address.Hex()),
			attribute.Int("search.term_length", len(term)),
		),
	)
	start := time.Now()
	defer func() {
		c.metrics.ObserveBackendCall("contract", searchMethod, metrics.Outcome(err), time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	input, err := c.abi.Pack(searchMethod, term)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeContractCallError, "pack "+searchMethod)
	}

	to := c.address
	output, err := c.signer.Caller.CallContract(ctx, ethereum.CallMsg{
		From: c.signer.Address,
		To:   &to,
		Data: input,
	}, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeContractCallError, searchMethod+" call failed")
	}

	if err := c.abi.UnpackIntoInterface(&records, searchMethod, output); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeContractCallError, "unpack "+searchMethod)
	}

	c.logger.DebugContext(ctx, "registry search complete",
		"results", len(records),
	)
	return records, nil
}
