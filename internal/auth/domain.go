package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators embedded in signed claims. A refresh token must
// never pass verification where an access token is required, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// User represents an authenticated user account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair carries a freshly issued access/refresh token set. Pairs are
// immutable once issued and never persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// AuthResult pairs a user with issued tokens for a successful authentication.
type AuthResult struct {
	User   *User
	Tokens TokenPair
}

// Claims is the signed payload embedded in access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	TokenType string `json:"type"`
}
