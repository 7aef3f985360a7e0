package ports

import "ReferralHub/internal/core/domain"

// TokenService issues and verifies bearer tokens for the HTTP API.
type TokenService interface {
	Issue(actor domain.Actor) (string, error)
	// Verify returns domain.ErrUnauthorized for any malformed, expired or
	// foreign token.
	Verify(token string) (domain.Actor, error)
}
