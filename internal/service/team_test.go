package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/team-access-service/internal/domain"
)

func TestInvite_RequiresManageInvites(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("dev")
	store.addUser("target")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      "dev",
		Permissions: domain.PermUploadVersion,
		Accepted:    true,
	})
	teams, _, _ := newTestServices(store)

	_, err := teams.Invite(context.Background(), project.TeamID, "target", "", 0, nil, "dev")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)

	_, err = teams.Invite(context.Background(), project.TeamID, "target", "", 0, nil, "owner")
	assert.NoError(t, err)
}

func TestInvite_EscalationRejected(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("inviter")
	store.addUser("target")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      "inviter",
		Permissions: domain.PermManageInvites,
		Accepted:    true,
	})
	teams, _, _ := newTestServices(store)

	// Inviter holds manage-invites but not delete-project
	_, err := teams.Invite(context.Background(), project.TeamID, "target", "", domain.PermDeleteProject, nil, "inviter")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)

	// Granting a bit the inviter does hold is fine
	_, err = teams.Invite(context.Background(), project.TeamID, "target", "", domain.PermManageInvites, nil, "inviter")
	assert.NoError(t, err)
}

func TestInvite_OrgPermsRejectedOnProjectTeam(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("target")
	project := store.addProject("proj", "owner", nil)
	teams, _, _ := newTestServices(store)

	orgPerms := domain.OrgPermEditDetails
	_, err := teams.Invite(context.Background(), project.TeamID, "target", "", 0, &orgPerms, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidPermissionBits)
}

func TestInvite_CreatesPendingRecordAndNotification(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("target")
	project := store.addProject("proj", "owner", nil)
	teams, _, _ := newTestServices(store)

	member, err := teams.Invite(context.Background(), project.TeamID, "target", "Artist", domain.PermUploadVersion, nil, "owner")
	require.NoError(t, err)
	assert.False(t, member.Accepted)
	assert.False(t, member.IsOwner)
	assert.Equal(t, "Artist", member.Role)

	require.Len(t, store.notifications, 1)
	n := store.notifications[0]
	assert.Equal(t, "target", n.UserID)
	assert.Equal(t, domain.NotificationTeamInvite, n.Kind)
	assert.Equal(t, project.TeamID, n.Payload.TeamID)
	assert.Equal(t, "proj", n.Payload.ProjectID)
	assert.Equal(t, "owner", n.Payload.ActorID)
}

func TestAcceptInvite_StateMachine(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("target")
	project := store.addProject("proj", "owner", nil)
	teams, _, _ := newTestServices(store)

	// No pending record yet
	_, err := teams.AcceptInvite(context.Background(), project.TeamID, "target")
	assert.ErrorIs(t, err, domain.ErrNotInvited)

	_, err = teams.Invite(context.Background(), project.TeamID, "target", "", 0, nil, "owner")
	require.NoError(t, err)

	member, err := teams.AcceptInvite(context.Background(), project.TeamID, "target")
	require.NoError(t, err)
	assert.True(t, member.Accepted)

	// Accepting twice fails the second time
	_, err = teams.AcceptInvite(context.Background(), project.TeamID, "target")
	assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
}

func TestEditMember_EscalationRejected(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      "u2",
		Permissions: domain.PermEditMember,
		Accepted:    true,
	})
	teams, _, _ := newTestServices(store)

	// Owner holds every bit, granting upload-version succeeds
	grant := domain.PermEditMember.Union(domain.PermUploadVersion)
	member, err := teams.EditMember(context.Background(), project.TeamID, "u2", &domain.MemberPatch{Permissions: &grant}, "owner")
	require.NoError(t, err)
	assert.True(t, member.Permissions.Contains(domain.PermUploadVersion))

	// u2 holds edit-member but not delete-project, self-escalation rejected
	escalate := domain.PermDeleteProject
	_, err = teams.EditMember(context.Background(), project.TeamID, "u2", &domain.MemberPatch{Permissions: &escalate}, "u2")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)
}

func TestEditMember_OwnerRecordProtected(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("editor")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      "editor",
		Permissions: domain.AllProjectPermissions,
		Accepted:    true,
	})
	teams, _, _ := newTestServices(store)

	role := "Demoted"
	_, err := teams.EditMember(context.Background(), project.TeamID, "owner", &domain.MemberPatch{Role: &role}, "editor")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)
}

func TestEditMember_NotifiesTarget(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:   project.TeamID,
		UserID:   "u2",
		Accepted: true,
	})
	teams, _, _ := newTestServices(store)

	role := "Maintainer"
	_, err := teams.EditMember(context.Background(), project.TeamID, "u2", &domain.MemberPatch{Role: &role}, "owner")
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, domain.NotificationRoleChanged, store.notifications[0].Kind)
	assert.Equal(t, "u2", store.notifications[0].UserID)
}

func TestRemoveMember_OwnerNeverRemovable(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      "u2",
		Permissions: domain.PermRemoveMember,
		Accepted:    true,
	})
	teams, _, _ := newTestServices(store)

	err := teams.RemoveMember(context.Background(), project.TeamID, "owner", "u2")
	assert.ErrorIs(t, err, domain.ErrCannotRemoveOwner)

	// After an explicit transfer the former owner is removable
	require.NoError(t, teams.TransferOwnership(context.Background(), project.TeamID, "u2", "owner"))
	assert.NoError(t, teams.RemoveMember(context.Background(), project.TeamID, "owner", "u2"))
}

func TestRemoveMember_SelfLeaveNeedsNoCapability(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{
		TeamID:   project.TeamID,
		UserID:   "u2",
		Accepted: true,
	})
	teams, _, _ := newTestServices(store)

	require.NoError(t, teams.RemoveMember(context.Background(), project.TeamID, "u2", "u2"))
	assert.Nil(t, store.findMember(project.TeamID, "u2"))
	// Leaving on your own produces no notification
	assert.Empty(t, store.notifications)
}

func TestRemoveMember_RequiresCapability(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	store.addUser("u3")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "u2", Accepted: true})
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "u3", Accepted: true})
	teams, _, _ := newTestServices(store)

	err := teams.RemoveMember(context.Background(), project.TeamID, "u3", "u2")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)
}

func TestTransferOwnership_Preconditions(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	store.addUser("invitee")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "u2", Accepted: true})
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "invitee", Accepted: false})
	teams, _, _ := newTestServices(store)

	// Caller is not the owner
	err := teams.TransferOwnership(context.Background(), project.TeamID, "owner", "u2")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// Target has only a pending record
	err = teams.TransferOwnership(context.Background(), project.TeamID, "invitee", "owner")
	assert.ErrorIs(t, err, domain.ErrTargetNotMember)
}

func TestTransferOwnership_ExactlyOneOwner(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "u2", Accepted: true})
	teams, _, _ := newTestServices(store)

	require.NoError(t, teams.TransferOwnership(context.Background(), project.TeamID, "u2", "owner"))

	owners := 0
	for _, m := range store.members[project.TeamID] {
		if m.IsOwner {
			owners++
			assert.Equal(t, "u2", m.UserID)
			assert.Equal(t, domain.AllProjectPermissions, m.Permissions)
		}
	}
	assert.Equal(t, 1, owners)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, domain.NotificationOwnershipTransferred, store.notifications[0].Kind)
	assert.Equal(t, "u2", store.notifications[0].UserID)
}

func TestListTeamMembers_PendingElided(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("u2")
	store.addUser("invitee")
	project := store.addProject("proj", "owner", nil)
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "u2", Accepted: true})
	store.addMember(&domain.TeamMember{TeamID: project.TeamID, UserID: "invitee", Accepted: false})
	teams, _, _ := newTestServices(store)

	// Plain member without manage-invites does not see the pending record
	members, err := teams.ListTeamMembers(context.Background(), project.TeamID, "u2")
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.NotEqual(t, "invitee", m.UserID)
	}

	// The owner sees everyone
	members, err = teams.ListTeamMembers(context.Background(), project.TeamID, "owner")
	require.NoError(t, err)
	assert.Len(t, members, 3)

	// The invited user sees their own pending record
	members, err = teams.ListTeamMembers(context.Background(), project.TeamID, "invitee")
	require.NoError(t, err)
	found := false
	for _, m := range members {
		if m.UserID == "invitee" {
			found = true
			assert.False(t, m.Accepted)
		}
	}
	assert.True(t, found)
}

func TestListProjectMembers_Delegates(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	project := store.addProject("proj", "owner", nil)
	teams, _, _ := newTestServices(store)

	members, err := teams.ListProjectMembers(context.Background(), "proj", "owner")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, project.TeamID, members[0].TeamID)

	_, err = teams.ListProjectMembers(context.Background(), "missing", "owner")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestInvite_OrgTeamUsesOrgCapabilities(t *testing.T) {
	store := newFakeStore()
	store.addUser("owner")
	store.addUser("admin")
	store.addUser("target")
	org := store.addOrganization("org", "owner")

	orgPerms := domain.OrgPermManageInvites
	store.addMember(&domain.TeamMember{
		TeamID:                  org.TeamID,
		UserID:                  "admin",
		Permissions:             domain.PermEditDetails,
		OrganizationPermissions: &orgPerms,
		Accepted:                true,
	})
	teams, _, _ := newTestServices(store)

	// Granting an org bit the admin does not hold is escalation
	grantOrg := domain.OrgPermDeleteOrganization
	_, err := teams.Invite(context.Background(), org.TeamID, "target", "", 0, &grantOrg, "admin")
	assert.ErrorIs(t, err, domain.ErrInsufficientPermission)

	// Within the admin's own bits the invite goes through,
	// and the record defaults to zero org permissions when none are proposed
	member, err := teams.Invite(context.Background(), org.TeamID, "target", "", domain.PermEditDetails, nil, "admin")
	require.NoError(t, err)
	require.NotNil(t, member.OrganizationPermissions)
	assert.Equal(t, domain.OrganizationPermissions(0), *member.OrganizationPermissions)
}
