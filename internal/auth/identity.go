// Package auth signs and verifies vault admin requests with secp256k1 keys.
// A signer's vault address is the SHA-256 of its compressed public key.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

var (
	// ErrInvalidPrivateKey is returned when the private key is invalid
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned when the public key is invalid
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrSignatureFailed is returned when signing fails
	ErrSignatureFailed = errors.New("failed to sign request")
)

// Identity is a secp256k1 keypair that signs admin requests.
type Identity struct {
	privateKey *btcec.PrivateKey
	publicKey  *btcec.PublicKey
}

// NewIdentity creates a new random identity.
func NewIdentity() (*Identity, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	return &Identity{
		privateKey: privateKey,
		publicKey:  privateKey.PubKey(),
	}, nil
}

// NewIdentityFromPrivateKey creates an identity from a hex-encoded private key.
func NewIdentityFromPrivateKey(privKeyHex string) (*Identity, error) {
	privKeyHex = strings.TrimSpace(privKeyHex)
	if len(privKeyHex) != 64 {
		return nil, ErrInvalidPrivateKey
	}

	privKeyBytes, err := hex.DecodeString(privKeyHex)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}

	privateKey, _ := btcec.PrivKeyFromBytes(privKeyBytes)
	if privateKey == nil || privateKey.Key.IsZero() {
		return nil, ErrInvalidPrivateKey
	}

	return &Identity{
		privateKey: privateKey,
		publicKey:  privateKey.PubKey(),
	}, nil
}

// LoadIdentity reads a hex private key from path.
func LoadIdentity(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return NewIdentityFromPrivateKey(string(data))
}

// Save writes the private key to path, readable by the owner only.
func (i *Identity) Save(path string) error {
	return os.WriteFile(path, []byte(i.PrivateKeyHex()+"\n"), 0o600)
}

// PrivateKeyHex returns the private key as a hex string.
func (i *Identity) PrivateKeyHex() string {
	return hex.EncodeToString(i.privateKey.Serialize())
}

// PublicKey returns the raw compressed public key bytes.
func (i *Identity) PublicKey() []byte {
	return i.publicKey.SerializeCompressed()
}

// PublicKeyHex returns the public key as a hex string.
func (i *Identity) PublicKeyHex() string {
	return hex.EncodeToString(i.PublicKey())
}

// Address returns the vault address of this identity.
func (i *Identity) Address() types.Address {
	return AddressFromPublicKey(i.PublicKey())
}

// AddressFromPublicKey hashes a compressed public key into an address.
func AddressFromPublicKey(pub []byte) types.Address {
	return types.Address(sha256.Sum256(pub))
}

// Sign signs req, which must not be modified afterwards.
func (i *Identity) Sign(req Request) (*SignedRequest, error) {
	if i.privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	sig := ecdsa.Sign(i.privateKey, req.Digest())
	if sig == nil {
		return nil, ErrSignatureFailed
	}

	return &SignedRequest{
		Request:   req,
		PublicKey: i.PublicKey(),
		Signature: sig.Serialize(),
	}, nil
}
