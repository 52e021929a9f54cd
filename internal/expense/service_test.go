package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	expenseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/expense"
	"github.com/frahmantamala/pos-platform/internal/expense"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	expenses    map[int64]*expenseDatamodel.Expense
	createError error
	getError    error
	updateError error
	nextID      int64
	lastFilter  []int64
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expenseDatamodel.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	exp.ID = m.nextID
	m.nextID++
	exp.CreatedAt = time.Now()
	exp.UpdatedAt = time.Now()
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	exp, exists := m.expenses[id]
	if !exists {
		return nil, nil
	}
	copied := *exp
	return &copied, nil
}

func (m *mockExpenseRepository) List(ctx context.Context, warehouseIDs []int64, filter expense.ListFilter, offset, limit int) ([]*expenseDatamodel.Expense, int64, error) {
	if m.getError != nil {
		return nil, 0, m.getError
	}
	m.lastFilter = warehouseIDs

	allowed := auth.NewWarehouseSet(warehouseIDs...)
	var matched []*expenseDatamodel.Expense
	for _, exp := range m.expenses {
		if warehouseIDs != nil && !allowed.Contains(exp.WarehouseID) {
			continue
		}
		if filter.Category != "" && exp.Category != filter.Category {
			continue
		}
		matched = append(matched, exp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	// Simple pagination
	total := int64(len(matched))
	start := offset
	end := offset + limit
	if start >= len(matched) {
		return []*expenseDatamodel.Expense{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	if m.updateError != nil {
		return m.updateError
	}
	exp.UpdatedAt = time.Now()
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) Delete(ctx context.Context, id int64) error {
	delete(m.expenses, id)
	return nil
}

type mockWarehouses struct {
	known map[int64]bool
}

func (m *mockWarehouses) EnsureExist(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if !m.known[id] {
			return internal.NewNotFoundError("One or more warehouses not found", internal.ErrCodeWarehouseNotFound)
		}
	}
	return nil
}

type fakeScopes struct {
	scope auth.Scope
}

func (f *fakeScopes) ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error) {
	if actor.Role.IsAdmin() {
		return auth.Scope{Unrestricted: true}, nil
	}
	return f.scope, nil
}

var _ = Describe("ExpenseService", func() {
	var (
		ctx            context.Context
		expenseService *expense.Service
		mockRepo       *mockExpenseRepository
		scopes         *fakeScopes
		logger         *slog.Logger
		admin          auth.Actor
		manager        auth.Actor
	)

	validDTO := func(warehouseID int64) expense.CreateExpenseDTO {
		return expense.CreateExpenseDTO{
			WarehouseID: warehouseID,
			Category:    "Utilities",
			Amount:      decimal.RequireFromString("150000.50"),
			Description: "Electricity bill",
			ExpenseDate: time.Now().AddDate(0, 0, -1),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockExpenseRepository()
		scopes = &fakeScopes{scope: auth.Scope{Warehouses: auth.NewWarehouseSet(1)}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		expenseService = expense.NewService(mockRepo, &mockWarehouses{known: map[int64]bool{1: true, 2: true}}, scopes, logger)

		admin = auth.Actor{EmployeeID: 1, Role: auth.RoleAdmin}
		manager = auth.Actor{EmployeeID: 2, Role: auth.RoleManager}
	})

	Describe("CreateExpense", func() {
		Context("when the warehouse is in the actor's scope", func() {
			It("should record the expense", func() {
				// Given
				dto := validDTO(1)

				// When
				result, err := expenseService.CreateExpense(ctx, manager, dto)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.ID).To(BeNumerically(">", 0))
				Expect(result.EmployeeID).To(Equal(manager.EmployeeID))
				Expect(result.Category).To(Equal(expense.CategoryUtilities))
				Expect(result.Amount.Equal(dto.Amount)).To(BeTrue())
			})
		})

		Context("when the warehouse is outside the actor's scope", func() {
			It("should be forbidden", func() {
				result, err := expenseService.CreateExpense(ctx, manager, validDTO(2))

				Expect(result).To(BeNil())
				Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
				Expect(mockRepo.expenses).To(BeEmpty())
			})
		})

		Context("when the warehouse does not exist", func() {
			It("should return not found", func() {
				_, err := expenseService.CreateExpense(ctx, admin, validDTO(9))
				Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
			})
		})

		DescribeTable("invalid payloads",
			func(mutate func(dto *expense.CreateExpenseDTO)) {
				dto := validDTO(1)
				mutate(&dto)

				_, err := expenseService.CreateExpense(ctx, admin, dto)
				Expect(internal.HasType(err, internal.ErrorTypeValidation)).To(BeTrue())
			},
			Entry("zero amount", func(dto *expense.CreateExpenseDTO) { dto.Amount = decimal.Zero }),
			Entry("negative amount", func(dto *expense.CreateExpenseDTO) { dto.Amount = decimal.NewFromInt(-10) }),
			Entry("unknown category", func(dto *expense.CreateExpenseDTO) { dto.Category = "party" }),
			Entry("future date", func(dto *expense.CreateExpenseDTO) { dto.ExpenseDate = time.Now().AddDate(0, 0, 2) }),
			Entry("missing warehouse", func(dto *expense.CreateExpenseDTO) { dto.WarehouseID = 0 }),
		)

		Context("when the repository fails", func() {
			It("should wrap the error as internal", func() {
				mockRepo.createError = errors.New("database connection failed")

				_, err := expenseService.CreateExpense(ctx, admin, validDTO(1))
				Expect(internal.HasType(err, internal.ErrorTypeInternal)).To(BeTrue())
			})
		})
	})

	Describe("GetExpenseByID", func() {
		It("should hide expenses of other warehouses", func() {
			created, err := expenseService.CreateExpense(ctx, admin, validDTO(2))
			Expect(err).ToNot(HaveOccurred())

			_, err = expenseService.GetExpenseByID(ctx, manager, created.ID)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should return not found for unknown ids", func() {
			_, err := expenseService.GetExpenseByID(ctx, admin, 42)
			Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("ListExpenses", func() {
		BeforeEach(func() {
			_, err := expenseService.CreateExpense(ctx, admin, validDTO(1))
			Expect(err).ToNot(HaveOccurred())
			_, err = expenseService.CreateExpense(ctx, admin, validDTO(2))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should restrict a manager to their warehouses", func() {
			page, err := expenseService.ListExpenses(ctx, manager, expense.ListFilter{}, pagination.New(1, 20))

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastFilter).To(Equal([]int64{1}))
			Expect(page.Data).To(HaveLen(1))
			Expect(page.Pagination.Total).To(Equal(int64(1)))
		})

		It("should list everything for an admin", func() {
			page, err := expenseService.ListExpenses(ctx, admin, expense.ListFilter{}, pagination.New(1, 20))

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastFilter).To(BeNil())
			Expect(page.Data).To(HaveLen(2))
		})

		It("should reject an explicit warehouse outside the scope", func() {
			other := int64(2)
			_, err := expenseService.ListExpenses(ctx, manager, expense.ListFilter{WarehouseID: &other}, pagination.New(1, 20))
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should return an empty page for a manager without warehouses", func() {
			scopes.scope = auth.Scope{}
			page, err := expenseService.ListExpenses(ctx, manager, expense.ListFilter{}, pagination.New(1, 20))

			Expect(err).ToNot(HaveOccurred())
			Expect(page.Data).To(BeEmpty())
		})
	})

	Describe("UpdateExpense", func() {
		It("should change only the given fields", func() {
			created, err := expenseService.CreateExpense(ctx, manager, validDTO(1))
			Expect(err).ToNot(HaveOccurred())

			amount := decimal.RequireFromString("99.99")
			updated, err := expenseService.UpdateExpense(ctx, manager, created.ID, expense.UpdateExpenseDTO{Amount: &amount})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Amount.StringFixed(2)).To(Equal("99.99"))
			Expect(updated.Description).To(Equal("Electricity bill"))
		})

		It("should refuse to move an expense out of the actor's scope", func() {
			created, err := expenseService.CreateExpense(ctx, manager, validDTO(1))
			Expect(err).ToNot(HaveOccurred())

			other := int64(2)
			_, err = expenseService.UpdateExpense(ctx, manager, created.ID, expense.UpdateExpenseDTO{WarehouseID: &other})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			Expect(mockRepo.expenses[created.ID].WarehouseID).To(Equal(int64(1)))
		})
	})

	Describe("DeleteExpense", func() {
		It("should remove an expense in scope", func() {
			created, err := expenseService.CreateExpense(ctx, manager, validDTO(1))
			Expect(err).ToNot(HaveOccurred())

			Expect(expenseService.DeleteExpense(ctx, manager, created.ID)).To(Succeed())
			Expect(mockRepo.expenses).To(BeEmpty())
		})
	})
})
