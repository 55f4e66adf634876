package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "bhvr-api"
	tokenAudience = "bhvr-client"

	// DefaultTokenTTL is the lifetime of every issued token.
	DefaultTokenTTL = 24 * time.Hour
)

var ErrEmptySecret = errors.New("token signing secret must not be empty")

// Identity is the user identity a token speaks for.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Identity returns the identity encoded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Name: c.Name}
}

// InvalidReason says why a token was rejected.
type InvalidReason int

const (
	ReasonNone InvalidReason = iota
	ReasonMalformed
	ReasonSignature
	ReasonExpired
	ReasonClaims
)

func (r InvalidReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformed:
		return "malformed"
	case ReasonSignature:
		return "bad signature"
	case ReasonExpired:
		return "expired"
	default:
		return "invalid claims"
	}
}

// Verification is the outcome of TokenService.Verify.
// Claims is set only when Reason is ReasonNone.
type Verification struct {
	Claims *Claims
	Reason InvalidReason
}

// Valid reports whether the token was accepted.
func (v Verification) Valid() bool {
	return v.Reason == ReasonNone && v.Claims != nil
}

// TokenService issues and verifies HS256-signed access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService. An empty secret is rejected.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity, valid for the service TTL.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: id.UserID,
		Email:  id.Email,
		Name:   id.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, issuer, audience and expiry of tokenString.
// It never returns an error; rejections are reported through Verification.Reason.
func (s *TokenService) Verify(tokenString string) Verification {
	if tokenString == "" {
		return Verification{Reason: ReasonMalformed}
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Verification{Reason: reasonFor(err)}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return Verification{Reason: ReasonClaims}
	}

	return Verification{Claims: claims}
}

func reasonFor(err error) InvalidReason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonClaims
	}
}
