package testing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/auth"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/market"
)

// Account represents a test user with a signing identity and token accounts.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Identity signs requests on behalf of the account.
	Identity *auth.Identity

	// Address is the signer address derived from the public key.
	Address types.Address
}

// NewAccount creates a test account with a deterministic key derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
func NewAccount(name string) *Account {
	seed := sha256.Sum256([]byte("vault test account " + name))
	id, err := auth.NewIdentityFromPrivateKey(hex.EncodeToString(seed[:]))
	if err != nil {
		panic("failed to derive key for account " + name + ": " + err.Error())
	}
	return &Account{Name: name, Identity: id, Address: id.Address()}
}

// TokenAccount is the account's token account for mint.
func (a *Account) TokenAccount(mint types.Address) types.Address {
	return market.DeriveAccount(a.Address, mint)
}

// String returns a string representation of the account.
func (a *Account) String() string {
	return fmt.Sprintf("Account{%s: %s}", a.Name, a.Address.Short())
}
