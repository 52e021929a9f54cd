package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, includeInactive bool, page pagination.Params) (pagination.Page[*Category], error)
	Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error)
	Deactivate(ctx context.Context, id int64) (*Category, error)
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	page, err := h.Service.List(r.Context(), includeInactive, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Service.Deactivate(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}
