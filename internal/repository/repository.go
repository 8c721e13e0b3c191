package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/utils"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a relation row already exists.
	ErrDuplicate = errors.New("repository: duplicate relation")
	// ErrStateConflict is returned when a conditional lifecycle update matched
	// no row because the user's state changed underneath the caller.
	ErrStateConflict = errors.New("repository: lifecycle state conflict")
)

// DirectoryReader is the read-only view of users, teams and organisations
// that authorization decisions are computed from.
type DirectoryReader interface {
	// FindUser finds a user by ID
	FindUser(ctx context.Context, id uint64) (*models.User, error)

	// FindTeam finds a team by ID
	FindTeam(ctx context.Context, id uint64) (*models.Team, error)

	// FindOrganisation finds an organisation by ID
	FindOrganisation(ctx context.Context, id uint64) (*models.Organisation, error)

	// FindDepartment finds a department by ID
	FindDepartment(ctx context.Context, id uint64) (*models.Department, error)

	// ListTeamMembers lists the users belonging to a team
	ListTeamMembers(ctx context.Context, teamID uint64) ([]models.User, error)

	// ListManagersOf lists the managers assigned to a team
	ListManagersOf(ctx context.Context, teamID uint64) ([]models.User, error)

	// ListPartnersOf lists the partners assigned to a team
	ListPartnersOf(ctx context.Context, teamID uint64) ([]models.User, error)

	// TeamIDsOf lists the teams a user belongs to
	TeamIDsOf(ctx context.Context, userID uint64) ([]uint64, error)

	// TeamIDsManagedBy lists the teams a manager is assigned to
	TeamIDsManagedBy(ctx context.Context, userID uint64) ([]uint64, error)

	// TeamIDsPartneredBy lists the teams a partner is assigned to
	TeamIDsPartneredBy(ctx context.Context, userID uint64) ([]uint64, error)
}

// Directory adds the mutations the lifecycle and membership managers apply
// once an action has been authorized.
type Directory interface {
	DirectoryReader

	// InsertMembership adds a user to a team, ErrDuplicate if already there
	InsertMembership(ctx context.Context, membership *models.TeamMembership) error

	// DeleteMembership removes a user from a team, ErrNotFound if absent
	DeleteMembership(ctx context.Context, userID, teamID uint64) error

	// InsertManagerAssignment assigns a manager to a team
	InsertManagerAssignment(ctx context.Context, assignment *models.TeamManagerAssignment) error

	// DeleteManagerAssignment removes a manager from a team
	DeleteManagerAssignment(ctx context.Context, userID, teamID uint64) error

	// InsertPartnerAssignment assigns a partner to a team
	InsertPartnerAssignment(ctx context.Context, assignment *models.TeamPartnerAssignment) error

	// DeletePartnerAssignment removes a partner from a team
	DeletePartnerAssignment(ctx context.Context, userID, teamID uint64) error

	// SetUserLifecycle writes to only if the user is still in state from
	SetUserLifecycle(ctx context.Context, userID uint64, from models.LifecycleState, to models.Lifecycle) error

	// CascadeDeleteUser removes a user and every row depending on it
	CascadeDeleteUser(ctx context.Context, userID uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	OrganisationID *uint64
	State          *models.LifecycleState
	Role           *models.Role
	Pagination     utils.PaginationParams
}

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// UpdateRole changes a user's role and organisation anchor
	UpdateRole(ctx context.Context, userID uint64, role models.Role, organisationID *uint64) error
}

// OrganisationRepository defines the interface for organisation data access
type OrganisationRepository interface {
	// CreateOrganisation creates a new organisation
	CreateOrganisation(ctx context.Context, org *models.Organisation) error

	// CreateDepartment creates a department inside an organisation
	CreateDepartment(ctx context.Context, dept *models.Department) error

	// ListDepartments lists the departments of an organisation
	ListDepartments(ctx context.Context, organisationID uint64) ([]models.Department, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a new team
	Create(ctx context.Context, team *models.Team) error

	// Update saves a team's name and description
	Update(ctx context.Context, team *models.Team) error

	// Delete deletes a team and its membership and assignment rows
	Delete(ctx context.Context, id uint64) error
}

// EntryRepository defines the interface for development entry data access
type EntryRepository interface {
	// Create creates a new entry
	Create(ctx context.Context, entry *models.Entry) error

	// FindByID finds an entry by ID with its documents
	FindByID(ctx context.Context, id uint64) (*models.Entry, error)

	// ListByUser lists a user's entries, newest first
	ListByUser(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Entry, int64, error)

	// AddDocument attaches document metadata to an entry
	AddDocument(ctx context.Context, doc *models.Document) error
}
