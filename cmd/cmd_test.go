package cmd

import (
	"context"
	"testing"

	"github.com/frahmantamala/pos-platform/internal/auth"
	authPostgres "github.com/frahmantamala/pos-platform/internal/auth/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	inventoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/inventory"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("seedData", func() {
	var (
		ctx context.Context
		db  *gorm.DB
	)

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
	})

	It("is idempotent", func() {
		Expect(seedData(ctx, db, bcrypt.MinCost)).To(Succeed())
		employees := count(&employeeDatamodel.Employee{})
		inventory := count(&inventoryDatamodel.Inventory{})

		Expect(seedData(ctx, db, bcrypt.MinCost)).To(Succeed())

		Expect(count(&employeeDatamodel.Employee{})).To(Equal(employees))
		Expect(count(&inventoryDatamodel.Inventory{})).To(Equal(inventory))
		Expect(count(&warehouseDatamodel.Warehouse{})).To(Equal(int64(len(seedWarehouses))))
		Expect(inventory).To(Equal(int64(len(seedWarehouses) * len(seedProducts))))
	})

	It("grants role permissions and scopes the seeded manager", func() {
		Expect(seedData(ctx, db, bcrypt.MinCost)).To(Succeed())
		repo := authPostgres.NewRepository(db)

		creds, err := repo.GetCredentialsByPhone(ctx, "+33600000002")
		Expect(err).NotTo(HaveOccurred())
		Expect(creds).NotTo(BeNil())

		actor, err := repo.GetActor(ctx, creds.EmployeeID)
		Expect(err).NotTo(HaveOccurred())
		Expect(actor.Role).To(Equal(auth.RoleManager))
		Expect(actor.HasPermission(auth.PermReportsView)).To(BeTrue())

		var centre warehouseDatamodel.Warehouse
		Expect(db.Where("code = ?", "BTQ-01").Take(&centre).Error).To(Succeed())
		primary, _, err := repo.GetWarehouseAssignments(ctx, creds.EmployeeID)
		Expect(err).NotTo(HaveOccurred())
		Expect(*primary).To(Equal(centre.ID))
	})

	It("clears every seeded table", func() {
		Expect(seedData(ctx, db, bcrypt.MinCost)).To(Succeed())

		Expect(clearSeedData(ctx, db)).To(Succeed())

		Expect(count(&employeeDatamodel.Employee{})).To(BeZero())
		Expect(count(&employeeDatamodel.Role{})).To(BeZero())
		Expect(count(&inventoryDatamodel.Inventory{})).To(BeZero())
	})
})

var _ = Describe("publishTestEvent", func() {
	It("delivers to the logging subscriber", func() {
		Expect(publishTestEvent(context.Background(), "test.event")).To(Succeed())
	})
})
