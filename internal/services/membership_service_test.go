package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/testutil"
)

func TestMembershipService_AddMember(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	ctx := context.Background()
	newcomer := w.f.User("newcomer", models.RoleUser, testutil.InDepartment(w.eng1.ID))

	membership, err := service.AddMember(ctx, w.actor(w.manager), newcomer.ID, w.platform.ID)
	require.NoError(t, err)
	assert.Equal(t, newcomer.ID, membership.UserID)
	assert.False(t, membership.JoinedAt.IsZero())

	_, err = service.AddMember(ctx, w.actor(w.manager), newcomer.ID, w.platform.ID)
	var duplicate *apierrors.DuplicateRelation
	require.True(t, errors.As(err, &duplicate), "got %v", err)
	assert.Equal(t, "team membership", duplicate.Relation)

	ids, err := w.dir.TeamIDsOf(ctx, newcomer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{w.platform.ID}, ids)
}

func TestMembershipService_RemoveMember(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	ctx := context.Background()

	require.NoError(t, service.RemoveMember(ctx, w.actor(w.manager), w.member.ID, w.platform.ID))

	err := service.RemoveMember(ctx, w.actor(w.manager), w.member.ID, w.platform.ID)
	var notFound *apierrors.ResourceNotFound
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "team membership", notFound.Resource)
}

func TestMembershipService_ManagerLimits(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID uint64
		teamID uint64
		reason string
	}{
		{"team not managed", w.outsider.ID, w.field.ID, authz.ReasonOutOfScope},
		{"subject is a manager", w.peer.ID, w.platform.ID, authz.ReasonPeerOrSuperior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.RemoveMember(ctx, w.actor(w.manager), tt.userID, tt.teamID)
			var denied *apierrors.AuthorizationDenied
			require.True(t, errors.As(err, &denied), "got %v", err)
			assert.Equal(t, tt.reason, denied.Reason)
		})
	}
}

func TestMembershipService_ManagerCannotRecruitAcrossOrganisations(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	lifecycle := NewLifecycleService(w.dir, w.eng, w.log)
	ctx := context.Background()

	_, err := service.AddMember(ctx, w.actor(w.manager), w.outsider.ID, w.platform.ID)
	var denied *apierrors.AuthorizationDenied
	require.True(t, errors.As(err, &denied), "got %v", err)
	assert.Equal(t, authz.ReasonCrossOrganisation, denied.Reason)

	ids, err := w.dir.TeamIDsOf(ctx, w.outsider.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{w.field.ID}, ids)

	_, err = lifecycle.Archive(ctx, w.actor(w.manager), w.outsider.ID)
	require.True(t, errors.As(err, &denied), "got %v", err)
	assert.Equal(t, authz.ReasonOutOfScope, denied.Reason)
}

func TestMembershipService_PartnerIsReadOnly(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)

	_, err := service.AddMember(context.Background(), w.actor(w.partner), w.outsider.ID, w.platform.ID)
	var denied *apierrors.AuthorizationDenied
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, authz.ReasonReadOnly, denied.Reason)
}

func TestMembershipService_ArchivedUserCannotJoin(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	archived := w.f.User("gone", models.RoleUser, testutil.Archived(w.superAdmin.ID))

	_, err := service.AddMember(context.Background(), w.actor(w.superAdmin), archived.ID, w.platform.ID)
	assert.ErrorIs(t, err, ErrMemberArchived)
}

func TestMembershipService_Assignments(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	ctx := context.Background()

	t.Run("manager assignment is admin only", func(t *testing.T) {
		_, err := service.AssignManager(ctx, w.actor(w.manager), w.peer.ID, w.platform.ID)
		var denied *apierrors.AuthorizationDenied
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, authz.ReasonInsufficientRole, denied.Reason)
	})

	t.Run("assignee must hold the role", func(t *testing.T) {
		_, err := service.AssignManager(ctx, w.actor(w.superAdmin), w.member.ID, w.platform.ID)
		assert.ErrorIs(t, err, ErrRoleMismatch)

		_, err = service.AssignPartner(ctx, w.actor(w.superAdmin), w.peer.ID, w.platform.ID)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("assign and unassign manager", func(t *testing.T) {
		_, err := service.AssignManager(ctx, w.actor(w.acmeAdmin), w.peer.ID, w.platform.ID)
		require.NoError(t, err)

		_, err = service.AssignManager(ctx, w.actor(w.acmeAdmin), w.peer.ID, w.platform.ID)
		var duplicate *apierrors.DuplicateRelation
		require.True(t, errors.As(err, &duplicate))

		require.NoError(t, service.UnassignManager(ctx, w.actor(w.acmeAdmin), w.peer.ID, w.platform.ID))

		err = service.UnassignManager(ctx, w.actor(w.acmeAdmin), w.peer.ID, w.platform.ID)
		var notFound *apierrors.ResourceNotFound
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "manager assignment", notFound.Resource)
	})

	t.Run("scoped admin cannot assign across organisations", func(t *testing.T) {
		_, err := service.AssignPartner(ctx, w.actor(w.acmeAdmin), w.partner.ID, w.field.ID)
		var denied *apierrors.AuthorizationDenied
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, authz.ReasonCrossOrganisation, denied.Reason)
	})

	t.Run("assign and unassign partner", func(t *testing.T) {
		_, err := service.AssignPartner(ctx, w.actor(w.superAdmin), w.partner.ID, w.field.ID)
		require.NoError(t, err)

		ids, err := w.dir.TeamIDsPartneredBy(ctx, w.partner.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint64{w.platform.ID, w.field.ID}, ids)

		require.NoError(t, service.UnassignPartner(ctx, w.actor(w.superAdmin), w.partner.ID, w.field.ID))
	})
}

func TestMembershipService_MissingRows(t *testing.T) {
	w := newWorld(t)
	service := NewMembershipService(w.dir, w.eng, w.log)
	ctx := context.Background()

	_, err := service.AddMember(ctx, w.actor(w.superAdmin), w.member.ID, 404)
	var notFound *apierrors.ResourceNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "team", notFound.Resource)

	_, err = service.AddMember(ctx, w.actor(w.superAdmin), 404, w.platform.ID)
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "user", notFound.Resource)
}
