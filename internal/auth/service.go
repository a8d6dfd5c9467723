package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/passgate/passgate/internal/events"
	"github.com/passgate/passgate/internal/shared"
)

// Service orchestrates the authentication flows over the injected
// repository, hasher, token service and event publisher.
type Service struct {
	repo          UserRepository
	authenticator *Authenticator
	tokens        *TokenService
	hasher        PasswordHasher
	publisher     events.Publisher
	throttle      *LoginThrottle
	logger        *slog.Logger
	now           func() time.Time
}

// ServiceParams groups the dependencies for constructing a Service. Publisher
// and Throttle are optional.
type ServiceParams struct {
	Repo      UserRepository
	Hasher    PasswordHasher
	Tokens    *TokenService
	Publisher events.Publisher
	Throttle  *LoginThrottle
	Logger    *slog.Logger
}

// NewService constructs a Service.
func NewService(params ServiceParams) *Service {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:          params.Repo,
		authenticator: NewAuthenticator(params.Hasher, params.Tokens),
		tokens:        params.Tokens,
		hasher:        params.Hasher,
		publisher:     params.Publisher,
		throttle:      params.Throttle,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the clock used for timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login verifies credentials and issues a fresh token pair. Unknown emails
// and wrong passwords yield the same rejection.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if s.throttle.Blocked(ctx, req.Email) {
		return nil, shared.ErrTooManyAttempts
	}
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.throttle.RecordFailure(ctx, req.Email)
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.authenticator.Authenticate(user, req.Password) {
		s.throttle.RecordFailure(ctx, req.Email)
		return nil, shared.ErrInvalidCredentials
	}
	result, err := s.authenticator.BuildAuthResult(user)
	if err != nil {
		return nil, err
	}
	s.throttle.Reset(ctx, req.Email)
	s.publish(ctx, events.Event{
		Type:       events.TypeUserLoggedIn,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: s.now().UTC(),
	})
	return result, nil
}

// Register creates a new user and issues its first token pair. The issued
// claims and expiries are identical to the login path.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.ErrEmailTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: digest,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.TypeUserCreated,
		UserID:     created.ID,
		Email:      created.Email,
		Name:       created.Name,
		OccurredAt: created.CreatedAt,
	})
	tokens, err := s.tokens.IssuePair(created)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: created, Tokens: tokens}, nil
}

// Refresh rotates both tokens for a valid refresh token. Missing or inactive
// users reject the same way an invalid token does.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims := s.tokens.VerifyRefresh(refreshToken)
	if claims == nil || claims.Subject == "" {
		return nil, shared.ErrInvalidToken
	}
	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidToken
	}
	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.TypeTokenRefreshed,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: s.now().UTC(),
	})
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Logout emits a logout event. The access token is decoded best effort for
// the event payload only; there is no server-side state to invalidate, so
// logout always succeeds.
func (s *Service) Logout(ctx context.Context, accessToken string) {
	event := events.Event{
		Type:       events.TypeUserLoggedOut,
		OccurredAt: s.now().UTC(),
	}
	if claims := s.tokens.Decode(accessToken); claims != nil {
		event.UserID = claims.Subject
		event.Email = claims.Email
	}
	s.publish(ctx, event)
}

// Profile resolves the user behind a valid access token.
func (s *Service) Profile(ctx context.Context, accessToken string) (*User, error) {
	claims := s.tokens.VerifyAccess(accessToken)
	if claims == nil || claims.Subject == "" {
		return nil, shared.ErrInvalidToken
	}
	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInactive
	}
	return user, nil
}

// UpdateProfile applies a name or password change for the token's user.
func (s *Service) UpdateProfile(ctx context.Context, accessToken string, req UpdateProfileRequest) (*User, error) {
	user, err := s.Profile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	changed := false
	if req.Name != nil && *req.Name != user.Name {
		user.Name = *req.Name
		changed = true
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = digest
		changed = true
	}
	if !changed {
		return user, nil
	}
	user.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, user)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event",
			slog.String("event_type", event.Type),
			slog.Any("error", err))
	}
}
