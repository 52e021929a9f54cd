package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Role hierarchy", func() {
	ginkgo.DescribeTable("CanActOn",
		func(actor, target Role, expected bool) {
			gomega.Expect(CanActOn(actor, target)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("admin on manager", RoleAdmin, RoleManager, true),
		ginkgo.Entry("admin on cashier", RoleAdmin, RoleCashier, true),
		ginkgo.Entry("admin on custom role", RoleAdmin, Role("stocker"), true),
		ginkgo.Entry("admin on admin", RoleAdmin, RoleAdmin, false),
		ginkgo.Entry("manager on cashier", RoleManager, RoleCashier, true),
		ginkgo.Entry("manager on manager", RoleManager, RoleManager, false),
		ginkgo.Entry("manager on admin", RoleManager, RoleAdmin, false),
		ginkgo.Entry("manager on custom role", RoleManager, Role("stocker"), false),
		ginkgo.Entry("cashier on cashier", RoleCashier, RoleCashier, false),
		ginkgo.Entry("custom role on cashier", Role("stocker"), RoleCashier, false),
	)

	ginkgo.DescribeTable("CanChangeRole",
		func(actor, from, to Role, expected bool) {
			gomega.Expect(CanChangeRole(actor, from, to)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("unchanged role", RoleManager, RoleCashier, RoleCashier, true),
		ginkgo.Entry("admin promotes cashier", RoleAdmin, RoleCashier, RoleManager, true),
		ginkgo.Entry("admin grants admin", RoleAdmin, RoleManager, RoleAdmin, false),
		ginkgo.Entry("manager promotes cashier", RoleManager, RoleCashier, RoleManager, false),
	)

	ginkgo.It("should normalise role names", func() {
		gomega.Expect(ParseRole(" Manager ")).To(gomega.Equal(RoleManager))
		gomega.Expect(ParseRole("stocker").IsSystem()).To(gomega.BeFalse())
		gomega.Expect(RoleAdmin.RequiresWarehouse()).To(gomega.BeFalse())
		gomega.Expect(RoleCashier.RequiresWarehouse()).To(gomega.BeTrue())
	})

	ginkgo.It("should only give admins and managers authority over records", func() {
		gomega.Expect(RoleAdmin.ManagesOthers()).To(gomega.BeTrue())
		gomega.Expect(RoleManager.ManagesOthers()).To(gomega.BeTrue())
		gomega.Expect(RoleCashier.ManagesOthers()).To(gomega.BeFalse())
		gomega.Expect(Role("stocker").ManagesOthers()).To(gomega.BeFalse())
	})
})
