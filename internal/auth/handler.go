package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/passgate/passgate/internal/observability"
	"github.com/passgate/passgate/internal/platform/httpx"
	"github.com/passgate/passgate/internal/shared"
)

// Cookie names for the issued tokens.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// Handler wires HTTP endpoints for the authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	validator     *validator.Validate
	metrics       *observability.Metrics
	secureCookies bool
}

// NewHandler constructs a Handler instance. Metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, secureCookies bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:        logger,
		service:       service,
		validator:     validator.New(),
		metrics:       metrics,
		secureCookies: secureCookies,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/refresh", h.handleRefresh)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
	r.Put("/me", h.handleUpdateMe)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}
	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.metrics.RecordAuthOutcome("login", "rejected")
		h.respondError(w, err)
		return
	}
	h.metrics.RecordAuthOutcome("login", "success")
	h.setAuthCookies(w, result.Tokens)
	httpx.JSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.metrics.RecordAuthOutcome("register", "rejected")
		h.respondError(w, err)
		return
	}
	h.metrics.RecordAuthOutcome("register", "success")
	h.setAuthCookies(w, result.Tokens)
	httpx.JSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(r)
	if token == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "refresh token is required")
		return
	}
	result, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.metrics.RecordAuthOutcome("refresh", "rejected")
		h.respondError(w, err)
		return
	}
	h.metrics.RecordAuthOutcome("refresh", "success")
	h.setAuthCookies(w, result.Tokens)
	httpx.JSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), h.accessTokenFromRequest(r))
	h.clearAuthCookies(w)
	httpx.JSON(w, http.StatusOK, LogoutResponse{Success: true, Message: "successfully logged out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	token := h.accessTokenFromRequest(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "access token is required")
		return
	}
	user, err := h.service.Profile(r.Context(), token)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	token := h.accessTokenFromRequest(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "access token is required")
		return
	}
	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), token, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

// accessTokenFromRequest prefers the Authorization header over the cookie.
func (h *Handler) accessTokenFromRequest(r *http.Request) string {
	if token := httpx.BearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(AccessCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// refreshTokenFromRequest checks the cookie first, then the JSON body.
func (h *Handler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err == nil {
		return req.RefreshToken
	}
	return ""
}

// setAuthCookies mirrors the issued tokens into http-only cookies. The
// refresh cookie lifetime always tracks the configured refresh TTL so the
// cookie and the claim expire together.
func (h *Handler) setAuthCookies(w http.ResponseWriter, tokens TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   int(tokens.ExpiresIn),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.service.tokens.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
	case errors.Is(err, shared.ErrInvalidToken):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
	case errors.Is(err, shared.ErrEmailTaken):
		httpx.Problem(w, http.StatusBadRequest, "Duplicate", "email already registered")
	case errors.Is(err, shared.ErrInactive):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "account is inactive")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
	case errors.Is(err, shared.ErrTooManyAttempts):
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "too many failed login attempts")
	default:
		h.logger.Error("auth request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return "invalid field: " + first.Field()
	}
	return "request validation failed"
}
