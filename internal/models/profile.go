package models

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleDeveloper      Role = "developer"
	RoleTester         Role = "tester"
	RoleGuest          Role = "guest"
)

// IsValid reports whether the role is one of the five known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleDeveloper, RoleTester, RoleGuest:
		return true
	}
	return false
}

// Profile holds a user's role and capability flags. Every user gets exactly one,
// created in the same transaction as the user itself. A missing profile means
// zero capabilities.
type Profile struct {
	ID                uint64 `gorm:"primarykey" json:"id"`
	UserID            uint64 `gorm:"uniqueIndex;not null" json:"user_id"`
	Role              Role   `gorm:"type:varchar(20);not null;default:'developer'" json:"role"`
	CanCreateProjects bool   `gorm:"not null;default:false" json:"can_create_projects"`
	CanDeleteIssues   bool   `gorm:"not null;default:false" json:"can_delete_issues"`
	CanAssignIssues   bool   `gorm:"not null;default:false" json:"can_assign_issues"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
