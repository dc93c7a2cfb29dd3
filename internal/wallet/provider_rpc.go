package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	dErrors "civiclink/pkg/domain-errors"
)

// codeUserRejected is the EIP-1193 "user rejected the request" code.
const codeUserRejected = 4001

// RPCProvider talks to an external wallet over JSON-RPC.
type RPCProvider struct {
	client *rpc.Client
	eth    *ethclient.Client
}

// DialRPC connects to a wallet JSON-RPC endpoint.
func DialRPC(ctx context.Context, rawURL string) (*RPCProvider, error) {
	c, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "dial wallet rpc")
	}
	return NewRPCProvider(c), nil
}

// NewRPCProvider wraps an existing RPC client.
func NewRPCProvider(c *rpc.Client) *RPCProvider {
	return &RPCProvider{client: c, eth: ethclient.NewClient(c)}
}

func (p *RPCProvider) Name() string { return "rpc" }

// RequestAccounts calls eth_requestAccounts.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeUserRejected {
			return nil, dErrors.Wrap(err, dErrors.CodeUserRejected, "account request rejected")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "eth_requestAccounts")
	}
	return accounts, nil
}

// Caller reads through the same connection.
func (p *RPCProvider) Caller() Caller {
	return p.eth
}

// Close releases the connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}
