package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// KeyID is the RIPEMD-160 of the SHA-256 of a compressed public key. It is
// a short fingerprint printed by keygen so operators can compare keys.
type KeyID [20]byte

// String returns the key ID as lowercase hex.
func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

// KeyIDFromPublicKey computes the key ID of pub.
func KeyIDFromPublicKey(pub []byte) KeyID {
	sha := sha256.Sum256(pub)
	h := ripemd160.New()
	h.Write(sha[:])
	var id KeyID
	copy(id[:], h.Sum(nil))
	return id
}

// KeyID returns the fingerprint of this identity's public key.
func (i *Identity) KeyID() KeyID {
	return KeyIDFromPublicKey(i.PublicKey())
}
