package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockAssignmentRepository struct {
	primary    map[int64]int64
	assigned   map[int64][]int64
	shouldFail bool
	calls      int
}

func (m *mockAssignmentRepository) GetWarehouseAssignments(ctx context.Context, employeeID int64) (*int64, []int64, error) {
	m.calls++
	if m.shouldFail {
		return nil, nil, errors.New("database error")
	}
	var primary *int64
	if id, ok := m.primary[employeeID]; ok {
		primary = &id
	}
	return primary, m.assigned[employeeID], nil
}

var _ = ginkgo.Describe("ScopeResolver", func() {
	var (
		ctx      context.Context
		repo     *mockAssignmentRepository
		resolver *ScopeResolver
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = &mockAssignmentRepository{
			primary:  map[int64]int64{10: 1, 11: 3},
			assigned: map[int64][]int64{10: {2, 1}},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = NewScopeResolver(repo, logger)
	})

	ginkgo.Describe("ResolveManagerWarehouses", func() {
		ginkgo.It("should union the primary and assigned warehouses", func() {
			set, err := resolver.ResolveManagerWarehouses(ctx, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.IDs()).To(gomega.Equal([]int64{1, 2}))
		})

		ginkgo.It("should return the primary alone when nothing is assigned", func() {
			set, err := resolver.ResolveManagerWarehouses(ctx, 11)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.IDs()).To(gomega.Equal([]int64{3}))
		})

		ginkgo.It("should return an empty set, not everything, without assignments", func() {
			set, err := resolver.ResolveManagerWarehouses(ctx, 99)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.Len()).To(gomega.Equal(0))
		})

		ginkgo.It("should read fresh assignments on every call", func() {
			_, _ = resolver.ResolveManagerWarehouses(ctx, 10)
			repo.assigned[10] = nil
			set, err := resolver.ResolveManagerWarehouses(ctx, 10)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(set.IDs()).To(gomega.Equal([]int64{1}))
			gomega.Expect(repo.calls).To(gomega.Equal(2))
		})

		ginkgo.It("should wrap repository failures", func() {
			repo.shouldFail = true
			_, err := resolver.ResolveManagerWarehouses(ctx, 10)
			gomega.Expect(internal.HasType(err, internal.ErrorTypeInternal)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ResolveScope", func() {
		ginkgo.It("should leave admins unrestricted without a lookup", func() {
			scope, err := resolver.ResolveScope(ctx, Actor{EmployeeID: 1, Role: RoleAdmin})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.Unrestricted).To(gomega.BeTrue())
			gomega.Expect(scope.Allows(12345)).To(gomega.BeTrue())
			gomega.Expect(scope.WarehouseIDs()).To(gomega.BeNil())
			gomega.Expect(repo.calls).To(gomega.Equal(0))
		})

		ginkgo.It("should restrict cashiers to their warehouses", func() {
			scope, err := resolver.ResolveScope(ctx, Actor{EmployeeID: 11, Role: RoleCashier})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.Allows(3)).To(gomega.BeTrue())
			gomega.Expect(scope.Allows(1)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Scope", func() {
		scope := Scope{Warehouses: NewWarehouseSet(1, 2)}

		ginkgo.It("should be all-or-nothing for sets", func() {
			gomega.Expect(scope.AllowsAll([]int64{1, 2})).To(gomega.BeTrue())
			gomega.Expect(scope.AllowsAll([]int64{1, 2, 3})).To(gomega.BeFalse())

			outside, found := scope.FirstOutside([]int64{2, 3})
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(outside).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("should produce a forbidden error outside the scope", func() {
			gomega.Expect(scope.Require(1)).To(gomega.Succeed())

			err := scope.Require(7)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeForbidden))
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeWarehouseScope))
		})
	})
})
