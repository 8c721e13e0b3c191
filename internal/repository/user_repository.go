package repository

import (
	"context"

	"github.com/yukikurage/devtrack/internal/database"
	"github.com/yukikurage/devtrack/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List retrieves users with filtering and pagination. The organisation filter
// matches both admins anchored to it and users in one of its departments.
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.OrganisationID != nil {
		departments := r.db.Model(&models.Department{}).
			Select("id").
			Where("organisation_id = ?", *filter.OrganisationID)
		query = query.Where("users.organisation_id = ? OR users.department_id IN (?)", *filter.OrganisationID, departments)
	}
	if filter.State != nil {
		query = query.Where("users.state = ?", *filter.State)
	}
	if filter.Role != nil {
		query = query.Where("users.role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	listQuery := query.Order("users.username")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}
	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateRole changes a user's role and organisation anchor. Team
// assignments that no longer match the new role are removed with it.
func (r *GormUserRepository) UpdateRole(ctx context.Context, userID uint64, role models.Role, organisationID *uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"role":            role,
				"organisation_id": organisationID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if role != models.RoleManager {
			if err := tx.Where("user_id = ?", userID).Delete(&models.TeamManagerAssignment{}).Error; err != nil {
				return err
			}
		}
		if role != models.RolePartner {
			if err := tx.Where("user_id = ?", userID).Delete(&models.TeamPartnerAssignment{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
