package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

func testVault() types.Address {
	var a types.Address
	a[0] = 0x42
	return a
}

func TestIdentityRoundTrip(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)

	again, err := NewIdentityFromPrivateKey(id.PrivateKeyHex())
	require.NoError(t, err)
	assert.Equal(t, id.PublicKeyHex(), again.PublicKeyHex())
	assert.Equal(t, id.Address(), again.Address())
	assert.Len(t, id.PublicKey(), 33)
}

func TestNewIdentityFromPrivateKeyRejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"short", "abcd"},
		{"not hex", "zz" + "00000000000000000000000000000000000000000000000000000000000000"},
		{"zero", "0000000000000000000000000000000000000000000000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIdentityFromPrivateKey(tt.key)
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "admin.key")
	require.NoError(t, id.Save(path))

	loaded, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, id.Address(), loaded.Address())
}

func TestSignAndVerify(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)

	sr, err := id.Sign(Request{Vault: testVault(), Op: "accept_admin", Payload: []byte{1, 2}})
	require.NoError(t, err)

	signer, err := sr.Verify()
	require.NoError(t, err)
	assert.Equal(t, id.Address(), signer)
}

func TestVerifyRejectsTampering(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)
	other, err := NewIdentity()
	require.NoError(t, err)

	tests := []struct {
		name   string
		tamper func(sr *SignedRequest)
		want   error
	}{
		{"payload", func(sr *SignedRequest) { sr.Request.Payload = []byte{9} }, ErrInvalidSignature},
		{"op", func(sr *SignedRequest) { sr.Request.Op = "remove_allocation" }, ErrInvalidSignature},
		{"expiry", func(sr *SignedRequest) { sr.Request.Expires = 5 }, ErrInvalidSignature},
		{"other key", func(sr *SignedRequest) { sr.PublicKey = other.PublicKey() }, ErrInvalidSignature},
		{"garbage signature", func(sr *SignedRequest) { sr.Signature = []byte{0x30, 0x01} }, ErrInvalidSignature},
		{"garbage key", func(sr *SignedRequest) { sr.PublicKey = []byte{2, 3} }, ErrInvalidPublicKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr, err := id.Sign(Request{Vault: testVault(), Op: "update_config", Payload: []byte{1}})
			require.NoError(t, err)
			tt.tamper(sr)

			_, err = sr.Verify()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)
	sr, err := id.Sign(Request{Vault: testVault(), Op: "update_config", Expires: 1000})
	require.NoError(t, err)

	signer, err := sr.Authorize(testVault(), "update_config", 1000)
	require.NoError(t, err)
	assert.Equal(t, id.Address(), signer)

	_, err = sr.Authorize(testVault(), "update_config", 1001)
	assert.ErrorIs(t, err, ErrRequestExpired)

	_, err = sr.Authorize(testVault(), "accept_admin", 0)
	assert.ErrorIs(t, err, ErrRequestMismatch)

	_, err = sr.Authorize(types.Address{}, "update_config", 0)
	assert.ErrorIs(t, err, ErrRequestMismatch)
}

func TestKeyID(t *testing.T) {
	// secp256k1 generator point, private key 1.
	id, err := NewIdentityFromPrivateKey("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", id.KeyID().String())
	assert.Equal(t, id.KeyID(), KeyIDFromPublicKey(id.PublicKey()))
}
