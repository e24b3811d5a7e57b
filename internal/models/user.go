package models

// Role distinguishes the two account populations, which live in
// separate tables.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleManager  Role = "Manager"
)

// Customer represents a storefront account.
type Customer struct {
	Name     string `json:"name" gorm:"column:name;uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Password string `json:"-" gorm:"column:password;type:varchar(255)"` // bcrypt hash
}

// TableName keeps the legacy table name.
func (Customer) TableName() string { return "customers" }

// Manager represents a console account.
type Manager struct {
	Name     string `json:"name" gorm:"column:name;uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Password string `json:"-" gorm:"column:password;type:varchar(255)"` // bcrypt hash
}

// TableName keeps the legacy table name.
func (Manager) TableName() string { return "managers" }
