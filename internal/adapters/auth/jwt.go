package auth

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const issuer = "referralhub"

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// jwtService signs HS256 tokens carrying the user id as subject.
type jwtService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

var _ ports.TokenService = (*jwtService)(nil)

func NewJWTService(signingKey string, ttl time.Duration, baseLogger *zerolog.Logger) (ports.TokenService, error) {
	if len(signingKey) < 32 {
		return nil, errors.New("signing key must be at least 32 characters")
	}
	return &jwtService{
		key: []byte(signingKey),
		ttl: ttl,
		now: time.Now,
		log: baseLogger.With().Str("component", "jwt").Logger(),
	}, nil
}

func (s *jwtService) Issue(actor domain.Actor) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: string(actor.Role),
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) Verify(tokenString string) (domain.Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.log.Debug().Err(err).Msg("Rejected bearer token")
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: bad role", domain.ErrUnauthorized)
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}
