package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "civiclink/pkg/domain-errors"
)

// fakeWallet serves the eth namespace of an injected wallet.
type fakeWallet struct {
	accounts []common.Address
	err      error
}

func (w *fakeWallet) RequestAccounts() ([]common.Address, error) {
	return w.accounts, w.err
}

type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }

func newInProcProvider(t *testing.T, w *fakeWallet) *RPCProvider {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", w))
	t.Cleanup(srv.Stop)

	p := NewRPCProvider(rpc.DialInProc(srv))
	t.Cleanup(p.Close)
	return p
}

func TestRPCProvider(t *testing.T) {
	addr := common.HexToAddress("0x1234567890abcdef1234567890abcdef1234abcd")

	t.Run("returns requested accounts", func(t *testing.T) {
		p := newInProcProvider(t, &fakeWallet{accounts: []common.Address{addr}})

		got, err := p.RequestAccounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []common.Address{addr}, got)
		assert.NotNil(t, p.Caller())
	})

	t.Run("4001 maps to user rejected", func(t *testing.T) {
		p := newInProcProvider(t, &fakeWallet{err: codedError{code: 4001, msg: "User rejected the request."}})

		_, err := p.RequestAccounts(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUserRejected))
	})

	t.Run("other rpc errors map to provider error", func(t *testing.T) {
		p := newInProcProvider(t, &fakeWallet{err: codedError{code: -32002, msg: "Request already pending"}})

		_, err := p.RequestAccounts(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProviderError))
	})
}

func TestKeystoreProvider(t *testing.T) {
	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	acc, err := ks.NewAccount("correct horse")
	require.NoError(t, err)

	password := func(pass string, err error) PasswordFunc {
		return func(context.Context, accounts.Account) (string, error) { return pass, err }
	}

	t.Run("unlocks and returns accounts", func(t *testing.T) {
		p := NewKeystoreProvider(ks, nil, password("correct horse", nil))

		got, err := p.RequestAccounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []common.Address{acc.Address}, got)
	})

	t.Run("wrong password is a rejection", func(t *testing.T) {
		p := NewKeystoreProvider(ks, nil, password("wrong", nil))

		_, err := p.RequestAccounts(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUserRejected))
	})

	t.Run("declined prompt is a rejection", func(t *testing.T) {
		p := NewKeystoreProvider(ks, nil, password("", errors.New("interrupted")))

		_, err := p.RequestAccounts(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUserRejected))
	})

	t.Run("abandoned prompt is a provider error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := NewKeystoreProvider(ks, nil, func(ctx context.Context, _ accounts.Account) (string, error) {
			return readPassword(ctx, func() ([]byte, error) { select {} })
		})

		_, err := p.RequestAccounts(ctx)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProviderError))
	})

	t.Run("empty keystore is a provider error", func(t *testing.T) {
		empty := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
		p := NewKeystoreProvider(empty, nil, password("x", nil))

		_, err := p.RequestAccounts(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProviderError))
	})
}

func TestReadPassword(t *testing.T) {
	t.Run("returns the typed password", func(t *testing.T) {
		pass, err := readPassword(context.Background(), func() ([]byte, error) {
			return []byte("correct horse"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "correct horse", pass)
	})

	t.Run("empty input is refused", func(t *testing.T) {
		_, err := readPassword(context.Background(), func() ([]byte, error) { return nil, nil })
		assert.Error(t, err)
	})

	t.Run("returns when the context ends mid read", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		release := make(chan struct{})
		defer close(release)

		done := make(chan error, 1)
		go func() {
			_, err := readPassword(ctx, func() ([]byte, error) {
				<-release
				return []byte("late"), nil
			})
			done <- err
		}()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		case <-time.After(5 * time.Second):
			t.Fatal("password read ignored the context")
		}
	})
}
