package warehouse

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, page pagination.Params) (pagination.Page[*Warehouse], error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*Warehouse, error)
	Create(ctx context.Context, actor auth.Actor, dto CreateWarehouseDTO) (*Warehouse, error)
	Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateWarehouseDTO) (*Warehouse, error)
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

func (h *Handler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	page, err := h.Service.List(r.Context(), actor, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	wh, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wh)
}

func (h *Handler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateWarehouseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	wh, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, wh)
}

func (h *Handler) UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateWarehouseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	wh, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wh)
}
