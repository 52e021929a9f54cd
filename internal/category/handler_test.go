package category_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/pos-platform/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-platform/internal/category/postgres"
	"github.com/frahmantamala/pos-platform/internal/core/database/databasetest"
	"github.com/frahmantamala/pos-platform/internal/transport"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Handler Integration", func() {
	var handler *category.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := databasetest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		for _, name := range []string{"drinks", "apparel"} {
			body, _ := json.Marshal(category.CreateCategoryDTO{Name: name})
			w := httptest.NewRecorder()
			handler.CreateCategory(w, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)))
			Expect(w.Code).To(Equal(http.StatusCreated))
		}
	})

	It("should answer GET /categories with the list envelope", func() {
		w := httptest.NewRecorder()
		handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/categories?limit=1", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response pagination.Page[category.Category]
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Data).To(HaveLen(1))
		Expect(response.Data[0].Name).To(Equal("apparel"))
		Expect(response.Pagination.Total).To(Equal(int64(2)))
		Expect(response.Pagination.TotalPages).To(Equal(2))
	})

	It("should answer 409 for a duplicate", func() {
		body, _ := json.Marshal(category.CreateCategoryDTO{Name: "Drinks"})
		w := httptest.NewRecorder()
		handler.CreateCategory(w, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_NAME"))
	})

	It("should answer 400 for a malformed body", func() {
		w := httptest.NewRecorder()
		handler.CreateCategory(w, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewBufferString("{")))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
