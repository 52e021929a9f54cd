package inventory

import (
	"math"
	"slices"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("compareUrgency", func() {
	view := func(qty, minLevel int64) InventoryView {
		return InventoryView{Quantity: qty, MinStockLevel: minLevel}
	}

	ginkgo.It("should order by quantity over minimum with an unset minimum first", func() {
		items := []InventoryView{view(8, 10), view(2, 10), view(3, 0), view(0, 5)}
		slices.SortStableFunc(items, compareUrgency)
		gomega.Expect(items).To(gomega.Equal([]InventoryView{view(3, 0), view(0, 5), view(2, 10), view(8, 10)}))
	})

	ginkgo.It("should compare huge quantities without overflowing", func() {
		// 1/1 against (MaxInt64-1)/MaxInt64: the first is the larger ratio.
		full := view(math.MaxInt64, math.MaxInt64)
		almost := view(math.MaxInt64-1, math.MaxInt64)
		gomega.Expect(compareUrgency(almost, full)).To(gomega.Equal(-1))
		gomega.Expect(compareUrgency(full, almost)).To(gomega.Equal(1))
		gomega.Expect(compareUrgency(view(math.MaxInt64, 2), view(math.MaxInt64/2, 1))).To(gomega.Equal(1))
		gomega.Expect(compareUrgency(view(4, 8), view(1, 2))).To(gomega.Equal(0))
	})
})
