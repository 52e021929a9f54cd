package expense

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, actor auth.Actor, dto CreateExpenseDTO) (*Expense, error)
	GetExpenseByID(ctx context.Context, actor auth.Actor, id int64) (*Expense, error)
	ListExpenses(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Expense], error)
	UpdateExpense(ctx context.Context, actor auth.Actor, id int64, dto UpdateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, actor auth.Actor, id int64) error
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("CreateExpense: expense created successfully",
		"expense_id", expense.ID,
		"actor_id", actor.EmployeeID,
		"amount", expense.Amount.String())

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	expenseID, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	expense, err := h.Service.GetExpenseByID(r.Context(), actor, expenseID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
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
	filter := ListFilter{
		WarehouseID: warehouseID,
		Category:    r.URL.Query().Get("category"),
		From:        from,
		To:          to,
	}

	page, err := h.Service.ListExpenses(r.Context(), actor, filter, pagination.Parse(r))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	expenseID, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	expense, err := h.Service.UpdateExpense(r.Context(), actor, expenseID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.RequireActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	expenseID, ok := h.ParseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), actor, expenseID); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
