package employee_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	authPostgres "github.com/frahmantamala/pos-platform/internal/auth/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	warehouseDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/warehouse"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/internal/employee"
	employeePostgres "github.com/frahmantamala/pos-platform/internal/employee/postgres"
	"github.com/frahmantamala/pos-platform/internal/warehouse"
	warehousePostgres "github.com/frahmantamala/pos-platform/internal/warehouse/postgres"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

var _ = Describe("Employee Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		publisher *recordingPublisher
		service   *employee.Service
		roles     map[auth.Role]*employeeDatamodel.Role
		w1, w2    *warehouseDatamodel.Warehouse
		admin     auth.Actor
		manager   auth.Actor
		cashier1  *employeeDatamodel.Employee
		cashier2  *employeeDatamodel.Employee
		manager2  *employeeDatamodel.Employee
	)

	seedEmployee := func(phone, name string, role auth.Role, warehouseID *int64) *employeeDatamodel.Employee {
		e := &employeeDatamodel.Employee{
			Phone:        phone,
			PasswordHash: "x",
			FullName:     name,
			RoleID:       roles[role].ID,
			WarehouseID:  warehouseID,
			IsActive:     true,
		}
		Expect(db.Create(e).Error).To(Succeed())
		return e
	}

	actorFor := func(e *employeeDatamodel.Employee, role auth.Role) auth.Actor {
		return auth.Actor{EmployeeID: e.ID, Name: e.FullName, Role: role}
	}

	cashierDTO := func(phone string, warehouseID int64) employee.CreateEmployeeDTO {
		return employee.CreateEmployeeDTO{
			Phone:       phone,
			Password:    "secret123",
			FullName:    "New Cashier",
			Role:        "cashier",
			WarehouseID: &warehouseID,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		publisher = &recordingPublisher{}
		scopes := auth.NewScopeResolver(authPostgres.NewRepository(db), logger)
		warehouses := warehouse.NewService(warehousePostgres.NewWarehouseRepository(db), scopes, logger)
		service = employee.NewService(
			employeePostgres.NewEmployeeRepository(db),
			database.NewTxManager(db),
			scopes,
			warehouses,
			publisher,
			bcrypt.MinCost,
			logger,
		)

		roles = map[auth.Role]*employeeDatamodel.Role{}
		for _, r := range []auth.Role{auth.RoleAdmin, auth.RoleManager, auth.RoleCashier} {
			row := &employeeDatamodel.Role{Name: r.String(), IsSystem: true}
			Expect(db.Create(row).Error).To(Succeed())
			roles[r] = row
		}

		w1 = &warehouseDatamodel.Warehouse{Name: "Boutique", Code: "W1", Type: warehouseDatamodel.TypeBoutique, IsActive: true}
		w2 = &warehouseDatamodel.Warehouse{Name: "Depot", Code: "W2", Type: warehouseDatamodel.TypeStockage, IsActive: true}
		Expect(db.Create(w1).Error).To(Succeed())
		Expect(db.Create(w2).Error).To(Succeed())

		adminRow := seedEmployee("0810000001", "Ada Admin", auth.RoleAdmin, nil)
		managerRow := seedEmployee("0810000002", "Max Manager", auth.RoleManager, &w1.ID)
		manager2 = seedEmployee("0810000003", "Mia Manager", auth.RoleManager, &w2.ID)
		cashier1 = seedEmployee("0810000004", "Cal Cashier", auth.RoleCashier, &w1.ID)
		cashier2 = seedEmployee("0810000005", "Cat Cashier", auth.RoleCashier, &w2.ID)

		admin = actorFor(adminRow, auth.RoleAdmin)
		manager = actorFor(managerRow, auth.RoleManager)
	})

	Describe("Create", func() {
		It("should let a manager create a cashier in their warehouse", func() {
			e, err := service.Create(ctx, manager, cashierDTO("0820000001", w1.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Role).To(Equal(auth.RoleCashier))
			Expect(e.WarehouseIDs).To(Equal([]int64{w1.ID}))
			Expect(e.IsActive).To(BeTrue())

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeEmployeeCreated))
		})

		It("should forbid a manager assigning a cashier outside their warehouses", func() {
			_, err := service.Create(ctx, manager, cashierDTO("0820000001", w2.ID))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
			Expect(appErr.Message).To(ContainSubstring("warehouse"))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should fail the whole request when one extra warehouse is out of scope", func() {
			dto := cashierDTO("0820000001", w1.ID)
			dto.WarehouseIDs = []int64{w1.ID, w2.ID}
			_, err := service.Create(ctx, manager, dto)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())

			var count int64
			Expect(db.Model(&employeeDatamodel.Employee{}).Where("phone = ?", "0820000001").Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("should count assignment rows toward the manager's scope", func() {
			Expect(db.Create(&employeeDatamodel.EmployeeWarehouse{EmployeeID: manager.EmployeeID, WarehouseID: w2.ID}).Error).To(Succeed())

			dto := cashierDTO("0820000001", w2.ID)
			dto.WarehouseIDs = []int64{w1.ID}
			e, err := service.Create(ctx, manager, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.WarehouseIDs).To(ConsistOf(w1.ID, w2.ID))
		})

		It("should block a manager without any warehouse", func() {
			lonely := seedEmployee("0810000009", "Lone Manager", auth.RoleManager, nil)
			_, err := service.Create(ctx, actorFor(lonely, auth.RoleManager), cashierDTO("0820000001", w1.ID))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
			Expect(appErr.Message).To(Equal("You must be assigned to a warehouse to create employees"))

			page, err := service.List(ctx, actorFor(lonely, auth.RoleManager), employee.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Data).To(HaveLen(1))
			Expect(page.Data[0].ID).To(Equal(lonely.ID))
		})

		It("should forbid a manager creating another manager", func() {
			dto := cashierDTO("0820000001", w1.ID)
			dto.Role = "manager"
			_, err := service.Create(ctx, manager, dto)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should forbid an admin creating an admin", func() {
			dto := cashierDTO("0820000001", w1.ID)
			dto.Role = "admin"
			_, err := service.Create(ctx, admin, dto)
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should require a warehouse for non-admin roles", func() {
			dto := cashierDTO("0820000001", w1.ID)
			dto.WarehouseID = nil
			_, err := service.Create(ctx, admin, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeWarehouseRequired)))
		})

		It("should reject a duplicate phone", func() {
			_, err := service.Create(ctx, admin, cashierDTO(cashier1.Phone, w1.ID))
			Expect(internal.HasType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("should reject unknown warehouses", func() {
			_, err := service.Create(ctx, admin, cashierDTO("0820000001", 999))
			Expect(internal.HasType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("should hash credentials and never serialise them", func() {
			dto := cashierDTO("0820000001", w1.ID)
			dto.PIN = "1234"
			e, err := service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.HasPIN).To(BeTrue())
			Expect(bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("secret123"))).To(Succeed())

			body, err := json.Marshal(e)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).NotTo(ContainSubstring("password"))
			Expect(string(body)).NotTo(ContainSubstring(e.PasswordHash))
		})
	})

	Describe("List", func() {
		names := func(page pagination.Page[*employee.Employee]) []string {
			out := []string{}
			for _, e := range page.Data {
				out = append(out, e.FullName)
			}
			return out
		}

		It("should show an admin every non-admin employee plus themselves", func() {
			page, err := service.List(ctx, admin, employee.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(names(page)).To(ConsistOf("Ada Admin", "Max Manager", "Mia Manager", "Cal Cashier", "Cat Cashier"))
		})

		It("should show a manager themselves and the cashiers of their warehouses", func() {
			page, err := service.List(ctx, manager, employee.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(names(page)).To(ConsistOf("Max Manager", "Cal Cashier"))
			Expect(page.Pagination.Total).To(Equal(int64(2)))
		})

		It("should show a cashier only themselves", func() {
			page, err := service.List(ctx, actorFor(cashier1, auth.RoleCashier), employee.ListFilter{}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(names(page)).To(ConsistOf("Cal Cashier"))
		})

		It("should apply the search filter inside the visible set", func() {
			page, err := service.List(ctx, admin, employee.ListFilter{Search: "cashier"}, pagination.New(1, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(names(page)).To(ConsistOf("Cal Cashier", "Cat Cashier"))
		})
	})

	Describe("Update", func() {
		It("should forbid a manager touching a cashier of another warehouse", func() {
			name := "Renamed"
			_, err := service.Update(ctx, manager, cashier2.ID, employee.UpdateEmployeeDTO{FullName: &name})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("You can only modify employees assigned to your warehouses"))
		})

		It("should forbid a manager changing a role", func() {
			role := "manager"
			_, err := service.Update(ctx, manager, cashier1.ID, employee.UpdateEmployeeDTO{Role: &role})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should let an admin promote a cashier to manager but not to admin", func() {
			role := "manager"
			e, err := service.Update(ctx, admin, cashier1.ID, employee.UpdateEmployeeDTO{Role: &role})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Role).To(Equal(auth.RoleManager))

			role = "admin"
			_, err = service.Update(ctx, admin, cashier2.ID, employee.UpdateEmployeeDTO{Role: &role})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should reassign all-or-nothing", func() {
			_, err := service.Update(ctx, manager, cashier1.ID, employee.UpdateEmployeeDTO{WarehouseIDs: []int64{w1.ID, w2.ID}})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())

			var links int64
			Expect(db.Model(&employeeDatamodel.EmployeeWarehouse{}).Where("employee_id = ?", cashier1.ID).Count(&links).Error).To(Succeed())
			Expect(links).To(BeZero())
		})

		It("should only re-check the phone when it changes", func() {
			same := cashier1.Phone
			_, err := service.Update(ctx, admin, cashier1.ID, employee.UpdateEmployeeDTO{Phone: &same})
			Expect(err).NotTo(HaveOccurred())

			taken := cashier2.Phone
			_, err = service.Update(ctx, admin, cashier1.ID, employee.UpdateEmployeeDTO{Phone: &taken})
			Expect(internal.HasType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("should let managers rename themselves but not change their own role", func() {
			name := "Max M."
			e, err := service.Update(ctx, manager, manager.EmployeeID, employee.UpdateEmployeeDTO{FullName: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.FullName).To(Equal("Max M."))

			role := "admin"
			_, err = service.Update(ctx, manager, manager.EmployeeID, employee.UpdateEmployeeDTO{Role: &role})
			Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
		})

		It("should keep a cashier's own record read-only", func() {
			self := actorFor(cashier1, auth.RoleCashier)
			name := "Cal C."
			phone := "0899999999"
			for _, dto := range []employee.UpdateEmployeeDTO{{FullName: &name}, {Phone: &phone}} {
				_, err := service.Update(ctx, self, cashier1.ID, dto)
				Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			}

			e, err := service.Get(ctx, self, cashier1.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.FullName).To(Equal("Cal Cashier"))
			Expect(e.Phone).To(Equal("0810000004"))
		})
	})

	Describe("Deactivate", func() {
		It("should soft delete a manageable cashier", func() {
			Expect(service.Deactivate(ctx, manager, cashier1.ID)).To(Succeed())

			e, err := service.Get(ctx, admin, cashier1.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.IsActive).To(BeFalse())
		})

		DescribeTable("should refuse",
			func(actorRole auth.Role, target func() int64) {
				var actor auth.Actor
				switch actorRole {
				case auth.RoleAdmin:
					actor = admin
				case auth.RoleManager:
					actor = manager
				default:
					actor = actorFor(cashier1, auth.RoleCashier)
				}
				err := service.Deactivate(ctx, actor, target())
				Expect(internal.HasType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			},
			Entry("a manager deactivating a manager", auth.RoleManager, func() int64 { return manager2.ID }),
			Entry("a cashier deactivating anyone", auth.RoleCashier, func() int64 { return cashier2.ID }),
			Entry("an admin deactivating themselves", auth.RoleAdmin, func() int64 { return admin.EmployeeID }),
			Entry("an admin deactivating another admin", auth.RoleAdmin, func() int64 {
				return seedEmployee("0810000006", "Abe Admin", auth.RoleAdmin, nil).ID
			}),
		)
	})

	Describe("SetPIN", func() {
		It("should let an employee set their own PIN", func() {
			Expect(service.SetPIN(ctx, actorFor(cashier1, auth.RoleCashier), cashier1.ID, employee.SetPINDTO{PIN: "4321"})).To(Succeed())

			e, err := service.Get(ctx, admin, cashier1.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.HasPIN).To(BeTrue())
		})

		It("should reject a malformed PIN", func() {
			err := service.SetPIN(ctx, admin, cashier1.ID, employee.SetPINDTO{PIN: "12"})
			Expect(internal.HasType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})
})
