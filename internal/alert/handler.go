package alert

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Alert], error)
	MarkRead(ctx context.Context, actor auth.Actor, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	filter := ListFilter{
		Type:       strings.ToUpper(r.URL.Query().Get("type")),
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}
	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.MarkRead(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
