package models

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleManager    UserRole = "manager"
	UserRoleAdmin      UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleSuperAdmin, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

type BillableStatus string

const (
	BillableStatusPaid BillableStatus = "paid"
	BillableStatusLoan BillableStatus = "loan"
)

type BillableType string

const (
	BillableTypeAmpere           BillableType = "ampere"
	BillableTypeExpense          BillableType = "expense"
	BillableTypeGeneratorExpense BillableType = "generator expense"
)
