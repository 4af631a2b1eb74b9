package auth

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

var (
	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrRequestMismatch is returned when a request names another vault or operation.
	ErrRequestMismatch = errors.New("request does not match operation")
	// ErrRequestExpired is returned for a request past its expiry.
	ErrRequestExpired = errors.New("request expired")
)

const requestDomain = "goYieldVault admin request\x00"

// Request is an admin action on a vault. Payload carries the action's
// arguments; its encoding is up to the operation.
type Request struct {
	Vault   types.Address
	Op      string
	Payload []byte
	// Expires is a unix timestamp; zero never expires.
	Expires uint64
}

// Digest is the first half of SHA-512 over the request's canonical bytes.
func (r Request) Digest() []byte {
	h := sha512.New()
	h.Write([]byte(requestDomain))
	h.Write(r.Vault[:])
	h.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(r.Op))))
	h.Write([]byte(r.Op))
	h.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(r.Payload))))
	h.Write(r.Payload)
	h.Write(binary.LittleEndian.AppendUint64(nil, r.Expires))
	return h.Sum(nil)[:32]
}

// SignedRequest is a request with the signer's public key and DER signature.
type SignedRequest struct {
	Request   Request
	PublicKey []byte
	Signature []byte
}

// Verify checks the signature and returns the signer's address.
func (s *SignedRequest) Verify() (types.Address, error) {
	pub, err := secp256k1.ParsePubKey(s.PublicKey)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	sig, err := decredecdsa.ParseDERSignature(s.Signature)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !sig.Verify(s.Request.Digest(), pub) {
		return types.Address{}, ErrInvalidSignature
	}
	return AddressFromPublicKey(pub.SerializeCompressed()), nil
}

// Authorize verifies s for op on vault at unix time now and returns the signer.
func (s *SignedRequest) Authorize(vault types.Address, op string, now uint64) (types.Address, error) {
	if s.Request.Vault != vault || s.Request.Op != op {
		return types.Address{}, fmt.Errorf("%w: signed %s on %s, executing %s on %s",
			ErrRequestMismatch, s.Request.Op, s.Request.Vault.Short(), op, vault.Short())
	}
	if s.Request.Expires != 0 && now > s.Request.Expires {
		return types.Address{}, fmt.Errorf("%w: expired at %d, now %d", ErrRequestExpired, s.Request.Expires, now)
	}
	return s.Verify()
}
