package models

import "time"

// Entry is one professional-development record: a course, conference,
// reading, or anything else a user logs time against.
type Entry struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Hours       float64    `gorm:"not null;default:0" json:"hours"`
	CompletedOn *time.Time `json:"completed_on"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Documents []Document `gorm:"foreignKey:EntryID" json:"documents,omitempty"`
}

// Document is the metadata of a file attached to an entry. The bytes live in
// external storage under StorageKey.
type Document struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	EntryID     uint64    `gorm:"not null;index" json:"entry_id"`
	Filename    string    `gorm:"type:varchar(255);not null" json:"filename"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}
