package models

import "time"

type Organisation struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Departments []Department `gorm:"foreignKey:OrganisationID" json:"departments,omitempty"`
}

type Department struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	OrganisationID uint64    `gorm:"not null;index" json:"organisation_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"-"`
}
