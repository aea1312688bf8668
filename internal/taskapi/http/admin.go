package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

// AdminHandler serves /api/admin. The authorization policy restricts every
// route here to ADMIN principals.
type AdminHandler struct {
	UserService *service.UserService
}

// HandleListUsers lists accounts, optionally filtered by ?role=.
//
//	@Summary		List accounts
//	@Tags			Admin
//	@Produce		json
//	@Param			role	query		string	false	"USER or ADMIN"
//	@Success		200		{array}		taskclient.UserResponse
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		403		{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/admin/users [get].
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	var role domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "Role must be USER or ADMIN")
			return
		}
		role = parsed
	}

	users, err := h.UserService.ListUsers(r.Context(), role)
	if err != nil {
		h.writeError(w, r, "", err)
		return
	}

	out := make([]taskclient.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleStats reports account statistics.
//
//	@Summary		Account statistics
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	taskclient.StatsResponse
//	@Failure		403	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/admin/stats [get].
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	n, err := h.UserService.CountEnabled(r.Context())
	if err != nil {
		h.writeError(w, r, "", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, taskclient.StatsResponse{EnabledUsers: n})
}

// HandleToggle enables or disables an account.
//
//	@Summary		Toggle account status
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	taskclient.UserResponse
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id}/toggle [patch].
func (h *AdminHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := h.UserService.ToggleStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleSetRole changes an account's role.
//
//	@Summary		Set account role
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Account ID"
//	@Param			request	body		taskclient.RoleRequest	true	"New role"
//	@Success		200		{object}	taskclient.UserResponse
//	@Failure		400		{object}	taskclient.ValidationErrorResponse
//	@Failure		404		{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/api/admin/users/{id}/role [patch].
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	u, err := h.UserService.SetRole(r.Context(), id, domain.Role(req.Role))
	if err != nil {
		h.writeError(w, r, id, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *AdminHandler) writeError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, r, http.StatusNotFound, "User not found with ID: "+id)
		return
	}
	slogx.FromContext(r.Context()).Error("admin request failed", slog.String("principal_id", id), slog.Any("err", err))
	httpx.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
}

func toUserResponse(p domain.Principal) taskclient.UserResponse {
	return taskclient.UserResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      string(p.Role),
		Enabled:   p.Enabled,
		CreatedAt: p.CreatedAt,
	}
}
