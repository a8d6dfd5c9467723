package auth

// Authenticator combines password verification with token issuance. It does
// no I/O of its own.
type Authenticator struct {
	hasher PasswordHasher
	tokens *TokenService
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(hasher PasswordHasher, tokens *TokenService) *Authenticator {
	return &Authenticator{hasher: hasher, tokens: tokens}
}

// Authenticate reports whether the password matches the user's stored hash.
// Absent and inactive users are rejected before any hash work.
func (a *Authenticator) Authenticate(user *User, password string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	return a.hasher.Verify(password, user.PasswordHash)
}

// BuildAuthResult issues a token pair and wraps it with the user.
func (a *Authenticator) BuildAuthResult(user *User) (*AuthResult, error) {
	tokens, err := a.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}
