package oauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateTTL bounds how long a user may take on the provider's consent screen.
const StateTTL = 10 * time.Minute

// ErrInvalidState is returned when the callback state is forged, stale or replayed elsewhere.
var ErrInvalidState = errors.New("invalid oauth state")

type stateClaims struct {
	jwt.RegisteredClaims
	Provider string `json:"provider"`
	Nonce    string `json:"nonce"`
}

// StateSigner issues the CSRF state parameter as a signed, short-lived token.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret []byte) *StateSigner {
	return &StateSigner{secret: secret, ttl: StateTTL, now: time.Now}
}

// Issue binds the state to a provider and a nonce kept in the user's session.
func (s *StateSigner) Issue(provider, nonce string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Provider: provider,
		Nonce:    nonce,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and that provider and nonce match.
func (s *StateSigner) Verify(state, provider, nonce string) error {
	if state == "" || nonce == "" {
		return ErrInvalidState
	}

	claims := &stateClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if !token.Valid || claims.Provider != provider || claims.Nonce != nonce {
		return ErrInvalidState
	}
	return nil
}
