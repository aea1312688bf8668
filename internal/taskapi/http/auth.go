package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

const (
	msgRegistered        = "User registered successfully. You can now login."
	msgLoginSucceeded    = "Authentication successful"
	msgBadCredentials    = "Invalid email or password"
	msgProfile           = "Profile retrieved successfully"
	msgRefreshed         = "Token refreshed successfully"
	msgLoggedOut         = "Logout successful. Please remove token from client."
	msgNotAuthenticated  = "User not authenticated"
	msgRegistrationError = "Registration failed: "
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister creates a USER account.
//
//	@Summary		Register a new account
//	@Description	Creates a USER account. No token is issued; log in afterwards.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskclient.RegisterRequest				true	"Account details"
//	@Success		200		{object}	taskclient.AuthResponse					"Registered"
//	@Failure		400		{object}	taskclient.ValidationErrorResponse		"Validation failed or email already registered"
//	@Failure		429		{object}	httpx.ErrorBody							"Rate limit exceeded"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.AuthService.Register(ctx, req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrDuplicateRegistration):
		log.Info("registration rejected", slog.String("email", req.Email))
		httpx.WriteJSON(w, http.StatusBadRequest, taskclient.AuthResponse{
			Message: msgRegistrationError + "Email already registered: " + req.Email,
		})
		return
	case err != nil:
		log.Error("registration failed", slog.Any("err", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, taskclient.AuthResponse{
			Message: msgRegistrationError + "internal error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskclient.AuthResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    string(p.Role),
		Message: msgRegistered,
	})
}

// HandleLogin exchanges credentials for a bearer token.
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns a signed HS256 bearer token.
//	@Description	Every failure yields the same message so account existence is not revealed.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		taskclient.LoginRequest					true	"Credentials"
//	@Success		200		{object}	taskclient.AuthResponse					"Token and account details"
//	@Failure		400		{object}	taskclient.AuthResponse					"Invalid email or password"
//	@Failure		429		{object}	httpx.ErrorBody							"Rate limit exceeded"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.AuthService.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrBadCredentials), errors.Is(err, service.ErrAccountRestricted):
		httpx.WriteJSON(w, http.StatusBadRequest, taskclient.AuthResponse{Message: msgBadCredentials})
		return
	case err != nil:
		log.Error("login failed", slog.Any("err", err))
		httpx.WriteJSON(w, http.StatusBadRequest, taskclient.AuthResponse{Message: msgBadCredentials})
		return
	}

	token, err := h.AuthService.IssueToken(ctx, p)
	if err != nil {
		log.Error("failed to issue token", slog.Any("err", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, taskclient.AuthResponse{Message: "Failed to issue token"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, taskclient.AuthResponse{
		Token:   token,
		Type:    taskclient.TokenType,
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    string(p.Role),
		Message: msgLoginSucceeded,
	})
}

// HandleProfile returns the authenticated principal.
//
//	@Summary		Current profile
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	taskclient.AuthResponse	"Profile"
//	@Failure		401	{object}	httpx.ErrorBody			"Authentication required"
//	@Security		BearerAuth
//	@Router			/api/auth/profile [get].
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := currentPrincipal(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, taskclient.AuthResponse{Message: msgNotAuthenticated})
		return
	}

	enabled := p.Enabled
	httpx.WriteJSON(w, http.StatusOK, taskclient.AuthResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    string(p.Role),
		Enabled: &enabled,
		Message: msgProfile,
	})
}

// HandleRefresh issues a fresh token for the authenticated principal.
//
//	@Summary		Refresh token
//	@Description	Issues a new token with a full lifetime. The presented token is not revoked.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	taskclient.AuthResponse	"New token"
//	@Failure		401	{object}	httpx.ErrorBody			"Authentication required"
//	@Security		BearerAuth
//	@Router			/api/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sc, ok := httpx.SecurityFrom(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, taskclient.AuthResponse{Message: msgNotAuthenticated})
		return
	}

	token, err := h.AuthService.Refresh(ctx, sc)
	if err != nil {
		slogx.FromContext(ctx).Error("token refresh failed", slog.Any("err", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, taskclient.AuthResponse{Message: "Token refresh failed"})
		return
	}

	resp := taskclient.AuthResponse{
		Token:   token,
		Type:    taskclient.TokenType,
		Email:   sc.Principal.Subject(),
		Message: msgRefreshed,
	}
	if p, ok := sc.Principal.(*domain.Principal); ok {
		resp.ID, resp.Name, resp.Role = p.ID, p.Name, string(p.Role)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleLogout acknowledges a logout. Tokens are stateless, so the client
// discards its own copy.
//
//	@Summary		Log out
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	taskclient.AuthResponse	"Acknowledged"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	slogx.FromContext(r.Context()).Info("logout requested")
	httpx.WriteJSON(w, http.StatusOK, taskclient.AuthResponse{Message: msgLoggedOut})
}

// HandleChangePassword replaces the authenticated principal's password.
//
//	@Summary		Change password
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	taskclient.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	taskclient.ValidationErrorResponse	"Validation failed or current password incorrect"
//	@Failure		401		{object}	httpx.ErrorBody						"Authentication required"
//	@Security		BearerAuth
//	@Router			/api/auth/password [post].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := currentPrincipal(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, taskclient.AuthResponse{Message: msgNotAuthenticated})
		return
	}

	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.AuthService.ChangePassword(ctx, p.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		httpx.WriteJSON(w, http.StatusBadRequest, taskclient.ValidationErrorResponse{
			Message: "Current password is incorrect",
		})
		return
	case err != nil:
		slogx.FromContext(ctx).Error("change password failed", slog.Any("err", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, taskclient.AuthResponse{Message: "Failed to change password"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// currentPrincipal returns the principal the identity middleware resolved.
func currentPrincipal(r *http.Request) (*domain.Principal, bool) {
	p, ok := httpx.PrincipalFrom(r.Context())
	if !ok {
		return nil, false
	}
	dp, ok := p.(*domain.Principal)
	return dp, ok
}
