package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig carries the signing parameters for the token service.
type TokenConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService issues and verifies signed, time-bounded tokens. Verification
// is total: any parse, signature, expiry or type failure yields nil claims,
// never an error.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService from configuration. Unknown
// algorithm names fall back to HS256.
func NewTokenService(cfg TokenConfig) *TokenService {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for issuance and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs a short-lived access token for the user.
func (s *TokenService) IssueAccess(user *User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Email:     user.Email,
		TokenType: TokenTypeAccess,
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// IssueRefresh signs a longer-lived refresh token. The payload omits the
// email claim.
func (s *TokenService) IssueRefresh(user *User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		TokenType: TokenTypeRefresh,
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// IssuePair issues both tokens plus the access lifetime in seconds.
func (s *TokenService) IssuePair(user *User) (TokenPair, error) {
	access, err := s.IssueAccess(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefresh(user)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates an access token and returns its claims, or nil.
func (s *TokenService) VerifyAccess(token string) *Claims {
	return s.verify(token, TokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims, or nil.
func (s *TokenService) VerifyRefresh(token string) *Claims {
	return s.verify(token, TokenTypeRefresh)
}

// Decode signature-checks a token but skips claim validation, so expired
// tokens still decode. Used for best-effort identity recovery on logout.
func (s *TokenService) Decode(token string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}

func (s *TokenService) verify(token, wantType string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	if claims.TokenType != wantType {
		return nil
	}
	return claims
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}
