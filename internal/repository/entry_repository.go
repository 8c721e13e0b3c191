package repository

import (
	"context"

	"github.com/yukikurage/devtrack/internal/database"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/utils"
	"gorm.io/gorm"
)

// GormEntryRepository is a GORM implementation of EntryRepository
type GormEntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &GormEntryRepository{db: db}
}

// Create creates a new entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an entry by ID with its documents
func (r *GormEntryRepository) FindByID(ctx context.Context, id uint64) (*models.Entry, error) {
	var entry models.Entry
	if err := r.db.WithContext(ctx).Preload("Documents").First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// ListByUser lists a user's entries, newest first
func (r *GormEntryRepository) ListByUser(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Entry{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := []models.Entry{}
	if err := query.
		Preload("Documents").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// AddDocument attaches document metadata to an entry
func (r *GormEntryRepository) AddDocument(ctx context.Context, doc *models.Document) error {
	return translate(r.db.WithContext(ctx).Create(doc).Error)
}
