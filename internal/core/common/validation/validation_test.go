package validation_test

import (
	"testing"
	"time"

	errors "github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("should collect every failing field into one error", func() {
		v := validation.NewValidator()
		v.Field("sku", "").Required()
		v.Field("name", "").Required().MaxLength(10)
		v.Field("quantity", int64(-1)).MinInt(0, errors.ErrCodeInvalidQuantity)

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(3))
		Expect(details.Errors[2].Code).To(Equal(string(errors.ErrCodeInvalidQuantity)))
	})

	It("should pass when all fields are valid", func() {
		v := validation.NewValidator()
		v.Field("amount", decimal.NewFromInt(10)).PositiveDecimal(errors.ErrCodeInvalidAmount)
		v.Field("type", "BOUTIQUE").OneOf("BOUTIQUE", "STOCKAGE")
		v.Field("date", time.Now().Add(-time.Hour)).NotFuture()
		Expect(v.Validate()).To(BeNil())
	})

	It("should reject values outside an enumeration", func() {
		v := validation.NewValidator()
		v.Field("type", "SHOP").OneOf("BOUTIQUE", "STOCKAGE")
		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.GetDetailedMessage()).To(ContainSubstring("BOUTIQUE, STOCKAGE"))
	})

	DescribeTable("ValidatePIN",
		func(pin string, valid bool) {
			if valid {
				Expect(validation.ValidatePIN(pin)).To(BeNil())
			} else {
				Expect(validation.ValidatePIN(pin)).NotTo(BeNil())
			}
		},
		Entry("four digits", "1234", true),
		Entry("six digits", "123456", true),
		Entry("too short", "123", false),
		Entry("letters", "12ab", false),
		Entry("empty", "", false),
	)

	DescribeTable("ValidatePhone",
		func(phone string, valid bool) {
			Expect(validation.ValidatePhone(phone) == nil).To(Equal(valid))
		},
		Entry("local number", "081234567890", true),
		Entry("international number", "+6281234567890", true),
		Entry("too short", "12345", false),
	)
})
