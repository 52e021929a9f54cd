package auth

import (
	"net/http"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: the client discards its tokens once the access token checks out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated actor.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess))
		return
	}
	h.WriteJSON(w, http.StatusOK, actor)
}

// AuthMiddleware validates the bearer token and loads the actor fresh from
// storage, so role changes and deactivation take effect on the next request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.NewUnauthorizedError("Missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		actor, err := h.Service.LoadActor(r.Context(), claims.EmployeeID)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "employee_id", actor.EmployeeID, "role", actor.Role.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
