package sale

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	Checkout(ctx context.Context, actor auth.Actor, in CheckoutInput) (*Sale, error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*Sale, error)
	List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Sale], error)
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

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var in CheckoutInput
	if !h.DecodeJSON(w, r, &in) {
		return
	}

	s, err := h.Service.Checkout(r.Context(), actor, in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	s, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}
	employeeID, ok := h.ParseOptionalIDQuery(w, r, "employeeId")
	if !ok {
		return
	}
	from, to, ok := h.ParseDateRange(w, r)
	if !ok {
		return
	}
	filter := ListFilter{WarehouseID: warehouseID, EmployeeID: employeeID, From: from, To: to}

	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}
