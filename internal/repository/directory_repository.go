package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/devtrack/internal/models"
	"gorm.io/gorm"
)

// GormDirectory is a GORM implementation of Directory
type GormDirectory struct {
	db *gorm.DB
}

// NewDirectory creates a new Directory
func NewDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// translate maps GORM errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// FindUser finds a user by ID
func (r *GormDirectory) FindUser(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindTeam finds a team by ID
func (r *GormDirectory) FindTeam(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

// FindOrganisation finds an organisation by ID
func (r *GormDirectory) FindOrganisation(ctx context.Context, id uint64) (*models.Organisation, error) {
	var org models.Organisation
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

// FindDepartment finds a department by ID
func (r *GormDirectory) FindDepartment(ctx context.Context, id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.WithContext(ctx).First(&dept, id).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

// ListTeamMembers lists the users belonging to a team
func (r *GormDirectory) ListTeamMembers(ctx context.Context, teamID uint64) ([]models.User, error) {
	return r.listUsersJoined(ctx, "team_memberships", teamID)
}

// ListManagersOf lists the managers assigned to a team
func (r *GormDirectory) ListManagersOf(ctx context.Context, teamID uint64) ([]models.User, error) {
	return r.listUsersJoined(ctx, "team_manager_assignments", teamID)
}

// ListPartnersOf lists the partners assigned to a team
func (r *GormDirectory) ListPartnersOf(ctx context.Context, teamID uint64) ([]models.User, error) {
	return r.listUsersJoined(ctx, "team_partner_assignments", teamID)
}

func (r *GormDirectory) listUsersJoined(ctx context.Context, table string, teamID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN "+table+" ON "+table+".user_id = users.id").
		Where(table+".team_id = ?", teamID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// TeamIDsOf lists the teams a user belongs to
func (r *GormDirectory) TeamIDsOf(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluckTeamIDs(ctx, &models.TeamMembership{}, userID)
}

// TeamIDsManagedBy lists the teams a manager is assigned to
func (r *GormDirectory) TeamIDsManagedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluckTeamIDs(ctx, &models.TeamManagerAssignment{}, userID)
}

// TeamIDsPartneredBy lists the teams a partner is assigned to
func (r *GormDirectory) TeamIDsPartneredBy(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluckTeamIDs(ctx, &models.TeamPartnerAssignment{}, userID)
}

func (r *GormDirectory) pluckTeamIDs(ctx context.Context, model interface{}, userID uint64) ([]uint64, error) {
	ids := []uint64{}
	if err := r.db.WithContext(ctx).Model(model).Where("user_id = ?", userID).Pluck("team_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertMembership adds a user to a team
func (r *GormDirectory) InsertMembership(ctx context.Context, membership *models.TeamMembership) error {
	return r.insertRelation(ctx, &models.TeamMembership{}, membership, membership.UserID, membership.TeamID)
}

// DeleteMembership removes a user from a team
func (r *GormDirectory) DeleteMembership(ctx context.Context, userID, teamID uint64) error {
	return r.deleteRelation(ctx, &models.TeamMembership{}, userID, teamID)
}

// InsertManagerAssignment assigns a manager to a team
func (r *GormDirectory) InsertManagerAssignment(ctx context.Context, assignment *models.TeamManagerAssignment) error {
	return r.insertRelation(ctx, &models.TeamManagerAssignment{}, assignment, assignment.UserID, assignment.TeamID)
}

// DeleteManagerAssignment removes a manager from a team
func (r *GormDirectory) DeleteManagerAssignment(ctx context.Context, userID, teamID uint64) error {
	return r.deleteRelation(ctx, &models.TeamManagerAssignment{}, userID, teamID)
}

// InsertPartnerAssignment assigns a partner to a team
func (r *GormDirectory) InsertPartnerAssignment(ctx context.Context, assignment *models.TeamPartnerAssignment) error {
	return r.insertRelation(ctx, &models.TeamPartnerAssignment{}, assignment, assignment.UserID, assignment.TeamID)
}

// DeletePartnerAssignment removes a partner from a team
func (r *GormDirectory) DeletePartnerAssignment(ctx context.Context, userID, teamID uint64) error {
	return r.deleteRelation(ctx, &models.TeamPartnerAssignment{}, userID, teamID)
}

// insertRelation checks for an existing (user, team) row before inserting. The
// composite primary key still backs the check when two requests race past it.
func (r *GormDirectory) insertRelation(ctx context.Context, model, row interface{}, userID, teamID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model).Where("user_id = ? AND team_id = ?", userID, teamID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		return translate(tx.Create(row).Error)
	})
}

func (r *GormDirectory) deleteRelation(ctx context.Context, model interface{}, userID, teamID uint64) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND team_id = ?", userID, teamID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserLifecycle writes the new lifecycle only while the stored state is
// still from, so of two concurrent transitions exactly one applies.
func (r *GormDirectory) SetUserLifecycle(ctx context.Context, userID uint64, from models.LifecycleState, to models.Lifecycle) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND state = ?", userID, from).
		Updates(map[string]interface{}{
			"state":          to.State,
			"archived_by_id": to.ArchivedByID,
			"archived_at":    to.ArchivedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// CascadeDeleteUser removes a user with their memberships, assignments,
// entries and documents in one transaction. References that only record
// history (archived_by, team creator) are cleared.
func (r *GormDirectory) CascadeDeleteUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		entryIDs := tx.Model(&models.Entry{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("entry_id IN (?)", entryIDs).Delete(&models.Document{}).Error; err != nil {
			return err
		}

		dependents := []interface{}{
			&models.Entry{},
			&models.TeamMembership{},
			&models.TeamManagerAssignment{},
			&models.TeamPartnerAssignment{},
		}
		for _, model := range dependents {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.User{}).Where("archived_by_id = ?", userID).Update("archived_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Team{}).Where("created_by_id = ?", userID).Update("created_by_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
