package entity

type GlobalRole string

const (
	RoleSuperAdmin = GlobalRole("super_admin")
	RoleAdmin      = GlobalRole("admin")
	RoleUser       = GlobalRole("user")
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type User struct {
	Base

	Name string `gorm:"unique"`

	// Handle is the public numeric identifier users share to receive point
	// transfers.
	Handle int64 `gorm:"unique"`

	Role GlobalRole `gorm:"default:user"`

	// IsPlatformOwner marks the single account eligible for the recurring
	// owner grant.
	IsPlatformOwner bool
}
