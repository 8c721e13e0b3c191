package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null" json:"role"`

	// OrganisationID anchors an admin's privileges. An admin without one is
	// unscoped.
	OrganisationID *uint64 `json:"organisation_id"`
	DepartmentID   *uint64 `json:"department_id"`

	Lifecycle Lifecycle `gorm:"embedded" json:"lifecycle"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organisation *Organisation    `gorm:"foreignKey:OrganisationID" json:"-"`
	Department   *Department      `gorm:"foreignKey:DepartmentID" json:"-"`
	Memberships  []TeamMembership `gorm:"foreignKey:UserID" json:"-"`
	Entries      []Entry          `gorm:"foreignKey:UserID" json:"-"`
}

// AfterFind rejects rows whose lifecycle columns break the archive invariant.
func (u *User) AfterFind(tx *gorm.DB) error {
	return u.Lifecycle.Validate()
}
