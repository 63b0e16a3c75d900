package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saasbase/internal/auth/service"
	"saasbase/internal/authz"
	"saasbase/pkg/platform/httputil"
	"saasbase/pkg/requestcontext"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, cmd service.LoginCommand) (*service.LoginResult, error)
	Me(ctx context.Context, p authz.Principal) (*service.Identity, error)
	Logout(ctx context.Context, p authz.Principal) error
}

type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

// Register mounts the routes that need an authenticated principal.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/me", h.HandleMe)
	r.Post("/auth/logout", h.HandleLogout)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Bind[LoginRequest](w, r, h.logger)
	if !ok {
		return
	}
	res, err := h.auth.Login(ctx, req.toCommand())
	if err != nil {
		h.fail(ctx, w, "login failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Login successful", toLoginResponse(res))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := h.auth.Me(ctx, authz.FromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "load current user failed", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toMeResponse(identity))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx, authz.FromContext(ctx)); err != nil {
		h.fail(ctx, w, "logout failed", err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// fail logs at error level only for failures rendered as 500.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	args := []any{"error", err, "request_id", requestcontext.RequestID(ctx)}
	if httputil.IsInternal(err) {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
