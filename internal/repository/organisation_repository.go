package repository

import (
	"context"

	"github.com/yukikurage/devtrack/internal/models"
	"gorm.io/gorm"
)

// GormOrganisationRepository is a GORM implementation of OrganisationRepository
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewOrganisationRepository creates a new OrganisationRepository
func NewOrganisationRepository(db *gorm.DB) OrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

// CreateOrganisation creates a new organisation
func (r *GormOrganisationRepository) CreateOrganisation(ctx context.Context, org *models.Organisation) error {
	return translate(r.db.WithContext(ctx).Create(org).Error)
}

// CreateDepartment creates a department inside an organisation
func (r *GormOrganisationRepository) CreateDepartment(ctx context.Context, dept *models.Department) error {
	return translate(r.db.WithContext(ctx).Create(dept).Error)
}

// ListDepartments lists the departments of an organisation
func (r *GormOrganisationRepository) ListDepartments(ctx context.Context, organisationID uint64) ([]models.Department, error) {
	departments := []models.Department{}
	if err := r.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("name").
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}
