package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/term"

	dErrors "civiclink/pkg/domain-errors"
)

// PasswordFunc obtains the unlock password for an account. Returning an
// error means the user declined.
type PasswordFunc func(ctx context.Context, account accounts.Account) (string, error)

// KeystoreProvider exposes accounts from a local keystore directory. The
// first account must be unlocked before it is handed out. The password
// prompt runs inside RequestAccounts, so a connect holds its caller until
// the password arrives or ctx ends.
type KeystoreProvider struct {
	ks       *keystore.KeyStore
	caller   Caller
	password PasswordFunc
}

// OpenKeystore opens dir with standard scrypt parameters.
func OpenKeystore(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewKeystoreProvider reads through caller and unlocks with password.
func NewKeystoreProvider(ks *keystore.KeyStore, caller Caller, password PasswordFunc) *KeystoreProvider {
	return &KeystoreProvider{ks: ks, caller: caller, password: password}
}

func (p *KeystoreProvider) Name() string { return "keystore" }

// RequestAccounts unlocks the first keystore account and returns all of them.
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	accs := p.ks.Accounts()
	if len(accs) == 0 {
		return nil, dErrors.New(dErrors.CodeProviderError, "keystore has no accounts")
	}

	pass, err := p.password(ctx, accs[0])
	if err != nil {
		if ctx.Err() != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "password prompt timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUserRejected, "password prompt declined")
	}
	if err := p.ks.Unlock(accs[0], pass); err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, dErrors.Wrap(err, dErrors.CodeUserRejected, "could not unlock account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "unlock account")
	}

	addrs := make([]common.Address, len(accs))
	for i, a := range accs {
		addrs[i] = a.Address
	}
	return addrs, nil
}

func (p *KeystoreProvider) Caller() Caller {
	return p.caller
}

// TerminalPassword prompts on the controlling terminal without echo. It
// gives up when ctx ends. The terminal read itself cannot be interrupted, so
// an abandoned read finishes with the next line typed and is discarded.
func TerminalPassword(ctx context.Context, account accounts.Account) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal: run the server interactively to unlock the keystore")
	}
	fmt.Fprintf(os.Stderr, "Unlock %s: ", account.Address.Hex())
	defer fmt.Fprintln(os.Stderr)

	return readPassword(ctx, func() ([]byte, error) { return term.ReadPassword(fd) })
}

func readPassword(ctx context.Context, read func() ([]byte, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("password prompt abandoned: %w", err)
	}

	type result struct {
		raw []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := read()
		if ctx.Err() != nil {
			clear(raw)
		}
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("password prompt abandoned: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("failed to read password: %w", r.err)
		}
		if len(r.raw) == 0 {
			return "", errors.New("password cannot be empty")
		}
		pass := string(r.raw)
		clear(r.raw)
		return pass, nil
	}
}
