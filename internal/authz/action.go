package authz

import "github.com/yukikurage/devtrack/internal/models"

// Action names an operation an actor asks to perform.
type Action string

const (
	// Login-gated self service
	ActionViewProfile      Action = "profile:view"
	ActionManageOwnEntries Action = "entries:manage_own"

	// Team reads
	ActionViewTeam         Action = "team:view"
	ActionListTeamMembers  Action = "team:list_members"
	ActionViewMemberDetail Action = "team:view_member"

	// Team and user administration
	ActionAddTeamMember    Action = "team:add_member"
	ActionRemoveTeamMember Action = "team:remove_member"
	ActionArchiveUser      Action = "user:archive"
	ActionUnarchiveUser    Action = "user:unarchive"

	// Global administration
	ActionCreateTeam          Action = "team:create"
	ActionUpdateTeam          Action = "team:update"
	ActionDeleteTeam          Action = "team:delete"
	ActionAssignTeamManager   Action = "team:assign_manager"
	ActionUnassignTeamManager Action = "team:unassign_manager"
	ActionAssignTeamPartner   Action = "team:assign_partner"
	ActionUnassignTeamPartner Action = "team:unassign_partner"
	ActionUpdateUserRole      Action = "user:update_role"
	ActionListUsers           Action = "user:list"
	ActionCreateDepartment    Action = "department:create"
	ActionListDepartments     Action = "department:list"

	// Restricted
	ActionDeleteUser         Action = "user:delete"
	ActionCreateOrganisation Action = "organisation:create"
)

// Category groups actions by the minimum role they require.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryLogin
	CategoryTeamRead
	CategoryTeamAdmin
	CategoryGlobalAdmin
	// CategoryRestricted requires a super admin, or an admin whose
	// organisation is the target's.
	CategoryRestricted
)

var actionCategories = map[Action]Category{
	ActionViewProfile:      CategoryLogin,
	ActionManageOwnEntries: CategoryLogin,

	ActionViewTeam:         CategoryTeamRead,
	ActionListTeamMembers:  CategoryTeamRead,
	ActionViewMemberDetail: CategoryTeamRead,

	ActionAddTeamMember:    CategoryTeamAdmin,
	ActionRemoveTeamMember: CategoryTeamAdmin,
	ActionArchiveUser:      CategoryTeamAdmin,
	ActionUnarchiveUser:    CategoryTeamAdmin,

	ActionCreateTeam:          CategoryGlobalAdmin,
	ActionUpdateTeam:          CategoryGlobalAdmin,
	ActionDeleteTeam:          CategoryGlobalAdmin,
	ActionAssignTeamManager:   CategoryGlobalAdmin,
	ActionUnassignTeamManager: CategoryGlobalAdmin,
	ActionAssignTeamPartner:   CategoryGlobalAdmin,
	ActionUnassignTeamPartner: CategoryGlobalAdmin,
	ActionUpdateUserRole:      CategoryGlobalAdmin,
	ActionListUsers:           CategoryGlobalAdmin,
	ActionCreateDepartment:    CategoryGlobalAdmin,
	ActionListDepartments:     CategoryGlobalAdmin,

	ActionDeleteUser:         CategoryRestricted,
	ActionCreateOrganisation: CategoryRestricted,
}

// Category returns the action's category, CategoryUnknown for undeclared
// actions.
func (a Action) Category() Category {
	return actionCategories[a]
}

// ReadOnly reports whether the action only reads team data.
func (a Action) ReadOnly() bool {
	return a.Category() == CategoryTeamRead
}

// Actions lists every declared action.
func Actions() []Action {
	actions := make([]Action, 0, len(actionCategories))
	for a := range actionCategories {
		actions = append(actions, a)
	}
	return actions
}

// MinimumRole is the lowest role that passes the category's role gate.
func (c Category) MinimumRole() models.Role {
	switch c {
	case CategoryLogin:
		return models.RoleUser
	case CategoryTeamRead, CategoryTeamAdmin:
		return models.RoleManager
	case CategoryGlobalAdmin, CategoryRestricted:
		return models.RoleAdmin
	default:
		return 0
	}
}
