package product

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Product], error)
	Get(ctx context.Context, actor auth.Actor, id int64, warehouseID *int64) (*Product, error)
	Create(ctx context.Context, actor auth.Actor, dto CreateProductDTO) (*Product, error)
	Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateProductDTO) (*Product, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
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

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}
	categoryID, ok := h.ParseOptionalIDQuery(w, r, "categoryId")
	if !ok {
		return
	}

	filter := ListFilter{
		Search:          r.URL.Query().Get("search"),
		CategoryID:      categoryID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
		WarehouseID:     warehouseID,
	}
	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}

	p, err := h.Service.Get(r.Context(), actor, id, warehouseID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto CreateProductDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateProductDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
