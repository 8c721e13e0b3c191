package models

import "time"

type Team struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Description  string  `gorm:"type:text" json:"description"`
	DepartmentID *uint64 `gorm:"index" json:"department_id"`
	// CreatedByID is informational; it grants nothing.
	CreatedByID *uint64   `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
}

type TeamMembership struct {
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	TeamID   uint64    `gorm:"primarykey" json:"team_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}

type TeamManagerAssignment struct {
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	TeamID     uint64    `gorm:"primarykey" json:"team_id"`
	AssignedAt time.Time `json:"assigned_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}

type TeamPartnerAssignment struct {
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	TeamID     uint64    `gorm:"primarykey" json:"team_id"`
	AssignedAt time.Time `json:"assigned_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}
