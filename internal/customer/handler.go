package customer

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateCustomerDTO) (*Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (pagination.Page[*Customer], error)
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

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Search: r.URL.Query().Get("search")}

	page, err := h.Service.List(r.Context(), filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var dto CreateCustomerDTO
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
