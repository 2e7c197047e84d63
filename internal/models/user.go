package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Profile        *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	OwnedProjects  []Project `gorm:"foreignKey:OwnerID" json:"-"`
	ReportedIssues []Issue   `gorm:"foreignKey:ReporterID" json:"-"`
	AssignedIssues []Issue   `gorm:"foreignKey:AssigneeID" json:"-"`
	Comments       []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}
