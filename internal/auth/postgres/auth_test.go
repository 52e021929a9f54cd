package postgres_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/pos-platform/internal/auth"
	authPostgres "github.com/frahmantamala/pos-platform/internal/auth/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestAuthRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Repository Suite")
}

var _ = Describe("Repository", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		repo     *authPostgres.Repository
		resolver *auth.ScopeResolver
		role     *employeeDatamodel.Role
		w1, w2   *warehouseDatamodel.Warehouse
	)

	seedManager := func(phone string, primary *int64, assigned ...int64) *employeeDatamodel.Employee {
		e := &employeeDatamodel.Employee{
			Phone:        phone,
			PasswordHash: "x",
			FullName:     "Manager " + phone,
			RoleID:       role.ID,
			WarehouseID:  primary,
			IsActive:     true,
		}
		Expect(db.Create(e).Error).To(Succeed())
		for _, id := range assigned {
			Expect(db.Create(&employeeDatamodel.EmployeeWarehouse{EmployeeID: e.ID, WarehouseID: id}).Error).To(Succeed())
		}
		return e
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		repo = authPostgres.NewRepository(db)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = auth.NewScopeResolver(repo, logger)

		role = &employeeDatamodel.Role{Name: "manager", IsSystem: true}
		Expect(db.Create(role).Error).To(Succeed())

		w1 = &warehouseDatamodel.Warehouse{Name: "Boutique", Code: "W1", Type: warehouseDatamodel.TypeBoutique, IsActive: true}
		w2 = &warehouseDatamodel.Warehouse{Name: "Depot", Code: "W2", Type: warehouseDatamodel.TypeStockage, IsActive: true}
		Expect(db.Create(w1).Error).To(Succeed())
		Expect(db.Create(w2).Error).To(Succeed())
	})

	Describe("GetWarehouseAssignments", func() {
		It("should handle a manager without a primary warehouse or assignments", func() {
			m := seedManager("0810000001", nil)

			primary, assigned, err := repo.GetWarehouseAssignments(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(primary).To(BeNil())
			Expect(assigned).To(BeEmpty())

			set, err := resolver.ResolveManagerWarehouses(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Len()).To(Equal(0))
		})

		It("should resolve a manager assigned only through join rows", func() {
			m := seedManager("0810000002", nil, w2.ID)

			primary, assigned, err := repo.GetWarehouseAssignments(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(primary).To(BeNil())
			Expect(assigned).To(Equal([]int64{w2.ID}))

			set, err := resolver.ResolveManagerWarehouses(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.IDs()).To(Equal([]int64{w2.ID}))
		})

		It("should union the primary warehouse with join rows", func() {
			m := seedManager("0810000003", &w1.ID, w2.ID)

			primary, _, err := repo.GetWarehouseAssignments(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(primary).NotTo(BeNil())
			Expect(*primary).To(Equal(w1.ID))

			set, err := resolver.ResolveManagerWarehouses(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.IDs()).To(Equal([]int64{w1.ID, w2.ID}))
		})

		It("should answer no assignments for an unknown employee", func() {
			primary, assigned, err := repo.GetWarehouseAssignments(ctx, 9999)
			Expect(err).NotTo(HaveOccurred())
			Expect(primary).To(BeNil())
			Expect(assigned).To(BeEmpty())
		})
	})
})
