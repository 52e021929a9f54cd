package employee

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Employee], error)
	Get(ctx context.Context, actor auth.Actor, id int64) (*Employee, error)
	Create(ctx context.Context, actor auth.Actor, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateEmployeeDTO) (*Employee, error)
	Deactivate(ctx context.Context, actor auth.Actor, id int64) error
	SetPIN(ctx context.Context, actor auth.Actor, id int64, dto SetPINDTO) error
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

// ListEmployees handles GET /employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}

	filter := ListFilter{
		Search:      r.URL.Query().Get("search"),
		WarehouseID: warehouseID,
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// GetEmployee handles GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	e, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// CreateEmployee handles POST /employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

// UpdateEmployee handles PUT /employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// DeleteEmployee handles DELETE /employees/{id} as a soft delete.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Deactivate(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetEmployeePIN handles PUT /employees/{id}/pin
func (h *Handler) SetEmployeePIN(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	id, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}
	var dto SetPINDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.SetPIN(r.Context(), actor, id, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
