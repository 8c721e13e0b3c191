package repository

import (
	"context"

	"github.com/yukikurage/devtrack/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// Update saves a team's name and description
func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team) error {
	result := r.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ?", team.ID).
		Updates(map[string]interface{}{
			"name":        team.Name,
			"description": team.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a team and all related rows in a transaction
func (r *GormTeamRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relations := []interface{}{
			&models.TeamMembership{},
			&models.TeamManagerAssignment{},
			&models.TeamPartnerAssignment{},
		}
		for _, model := range relations {
			if err := tx.Where("team_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
