package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
)

type ServiceAPI interface {
	FinancialSummary(ctx context.Context, actor auth.Actor, filter Filter) (*FinancialSummary, error)
	StockValuation(ctx context.Context, actor auth.Actor, warehouseID *int64) (*StockValuation, error)
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

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}
	from, to, ok := h.ParseDateRange(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.FinancialSummary(r.Context(), actor, Filter{WarehouseID: warehouseID, From: from, To: to})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) StockValuation(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	warehouseID, ok := h.ParseOptionalIDQuery(w, r, "warehouseId")
	if !ok {
		return
	}

	valuation, err := h.Service.StockValuation(r.Context(), actor, warehouseID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, valuation)
}
