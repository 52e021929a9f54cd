package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/pos-platform/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-platform/internal/category/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	categoryDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCategoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Postgres Suite")
}

var _ = Describe("Category Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo category.RepositoryAPI
	)

	create := func(name string, active bool) *categoryDatamodel.Category {
		cat := &categoryDatamodel.Category{Name: name, Description: name + " items", IsActive: true}
		Expect(repo.Create(ctx, cat)).To(Succeed())
		if !active {
			cat.IsActive = false
			Expect(repo.Update(ctx, cat)).To(Succeed())
		}
		return cat
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = databasetest.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = categoryPostgres.NewCategoryRepository(db)
	})

	Describe("Create", func() {
		It("assigns an id and timestamps", func() {
			cat := create("Shirts", true)
			Expect(cat.ID).To(BeNumerically(">", 0))
			Expect(cat.CreatedAt).NotTo(BeZero())
		})

		It("rejects a duplicate name", func() {
			create("Shirts", true)
			err := repo.Create(ctx, &categoryDatamodel.Category{Name: "Shirts", IsActive: true})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			create("Shirts", true)
			create("Accessories", true)
			create("Bags", false)
		})

		It("orders by name and counts every row", func() {
			categories, total, err := repo.List(ctx, false, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(categories).To(HaveLen(3))
			Expect(categories[0].Name).To(Equal("Accessories"))
			Expect(categories[1].Name).To(Equal("Bags"))
			Expect(categories[2].Name).To(Equal("Shirts"))
		})

		It("filters inactive categories", func() {
			categories, total, err := repo.List(ctx, true, 0, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			for _, cat := range categories {
				Expect(cat.IsActive).To(BeTrue())
			}
		})

		It("pages without changing the total", func() {
			categories, total, err := repo.List(ctx, false, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(categories).To(HaveLen(1))
			Expect(categories[0].Name).To(Equal("Shirts"))
		})
	})

	Describe("GetByName", func() {
		BeforeEach(func() {
			create("Shirts", true)
		})

		It("matches case-insensitively", func() {
			result, err := repo.GetByName(ctx, "SHIRTS")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.Name).To(Equal("Shirts"))
		})

		It("returns nil for an unknown name", func() {
			result, err := repo.GetByName(ctx, "Hats")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("GetByID", func() {
		It("returns nil for an unknown id", func() {
			result, err := repo.GetByID(ctx, 404)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("CountActiveByIDs", func() {
		It("ignores inactive and unknown ids", func() {
			shirts := create("Shirts", true)
			bags := create("Bags", false)

			count, err := repo.CountActiveByIDs(ctx, []int64{shirts.ID, bags.ID, 999})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("transactions", func() {
		It("discards writes made inside a rolled back transaction", func() {
			tx := database.NewTxManager(db)
			err := tx.RunInTx(ctx, func(txCtx context.Context) error {
				if err := repo.Create(txCtx, &categoryDatamodel.Category{Name: "Shoes", IsActive: true}); err != nil {
					return err
				}
				return gorm.ErrInvalidTransaction
			})
			Expect(err).To(MatchError(gorm.ErrInvalidTransaction))

			result, err := repo.GetByName(ctx, "Shoes")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})
})
