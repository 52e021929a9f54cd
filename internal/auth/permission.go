package auth

// Permission codes granted through roles. They gate feature areas on top of
// the role hierarchy, which they never override.
const (
	PermSalesCreate       = "sales.create"
	PermInventoryAdjust   = "inventory.adjust"
	PermInventoryTransfer = "inventory.transfer"
	PermProductsManage    = "products.manage"
	PermExpensesManage    = "expenses.manage"
	PermReportsView       = "reports.view"
)

// PermissionDef describes a permission row for seeding.
type PermissionDef struct {
	Code  string
	Name  string
	Group string
}

var Permissions = []PermissionDef{
	{Code: PermSalesCreate, Name: "Create sales", Group: "sales"},
	{Code: PermInventoryAdjust, Name: "Adjust stock", Group: "inventory"},
	{Code: PermInventoryTransfer, Name: "Transfer stock", Group: "inventory"},
	{Code: PermProductsManage, Name: "Manage products", Group: "catalog"},
	{Code: PermExpensesManage, Name: "Manage expenses", Group: "finance"},
	{Code: PermReportsView, Name: "View reports", Group: "finance"},
}

// DefaultPermissions is the permission set seeded for each system role.
// Admins are not listed; they hold every permission.
var DefaultPermissions = map[Role][]string{
	RoleManager: {
		PermSalesCreate, PermInventoryAdjust, PermInventoryTransfer, PermProductsManage,
		PermExpensesManage, PermReportsView,
	},
	RoleCashier: {PermSalesCreate, PermInventoryTransfer},
}
