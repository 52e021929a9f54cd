package inventory

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[InventoryView], error)
	Movements(ctx context.Context, actor auth.Actor, filter MovementFilter, page pagination.Params) (pagination.Page[StockMovement], error)
	Adjust(ctx context.Context, actor auth.Actor, in AdjustInput) (*AdjustResult, error)
	Transfer(ctx context.Context, actor auth.Actor, in TransferInput) (*TransferResult, error)
	SetLevels(ctx context.Context, actor auth.Actor, in LevelsInput) (InventoryView, error)
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

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}

	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// ListLowStock is ListInventory with the low stock filter forced on.
func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	filter, ok := h.parseListFilter(w, r)
	if !ok {
		return
	}
	filter.LowStock = true

	page, err := h.Service.List(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}
	productID, ok := h.ParseOptionalIDQuery(w, r, "productId")
	if !ok {
		return
	}
	filter := MovementFilter{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Type:        r.URL.Query().Get("type"),
		Reference:   r.URL.Query().Get("reference"),
	}

	page, err := h.Service.Movements(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var in AdjustInput
	if !h.DecodeJSON(w, r, &in) {
		return
	}

	result, err := h.Service.Adjust(r.Context(), actor, in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) TransferStock(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var in TransferInput
	if !h.DecodeJSON(w, r, &in) {
		return
	}

	result, err := h.Service.Transfer(r.Context(), actor, in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) SetStockLevels(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	var in LevelsInput
	if !h.DecodeJSON(w, r, &in) {
		return
	}

	view, err := h.Service.SetLevels(r.Context(), actor, in)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) parseListFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return ListFilter{}, false
	}
	productID, ok := h.ParseOptionalIDQuery(w, r, "productId")
	if !ok {
		return ListFilter{}, false
	}
	lowStock, _ := strconv.ParseBool(r.URL.Query().Get("lowStock"))

	return ListFilter{
		WarehouseID: warehouseID,
		ProductID:   productID,
		LowStock:    lowStock,
		Search:      r.URL.Query().Get("search"),
	}, true
}
