package service

import (
	"github.com/LeJamon/goYieldVault/internal/auth"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Authorize verifies a signed request for op on this vault and returns the
// signer's address. Expiry is judged against the service clock.
func (s *Service) Authorize(sr *auth.SignedRequest, op string) (types.Address, error) {
	return sr.Authorize(s.addr, op, s.deps.Clock.Now().UnixTimestamp)
}
