package service

import (
	"context"

	"github.com/aidar/team-access-service/internal/domain"
)

// fakeStore is a shared in-memory backend for the fake repositories used in
// unit tests. It mirrors the error semantics of the postgres implementations.
type fakeStore struct {
	users         map[string]*domain.User
	teams         map[string]*domain.Team // Kind and OwnerEntityID only; members held separately
	projects      map[string]*domain.Project
	orgs          map[string]*domain.Organization
	members       map[string][]*domain.TeamMember // teamID -> records in insertion order
	notifications []*domain.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*domain.User),
		teams:    make(map[string]*domain.Team),
		projects: make(map[string]*domain.Project),
		orgs:     make(map[string]*domain.Organization),
		members:  make(map[string][]*domain.TeamMember),
	}
}

func (s *fakeStore) addUser(userID string) {
	s.users[userID] = &domain.User{UserID: userID, Username: userID}
}

func (s *fakeStore) findMember(teamID, userID string) *domain.TeamMember {
	for _, m := range s.members[teamID] {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

func (s *fakeStore) addNotifications(ns ...*domain.Notification) {
	for _, n := range ns {
		if n != nil {
			s.notifications = append(s.notifications, n)
		}
	}
}

// addOrganization seeds an organization with its team and accepted owner
func (s *fakeStore) addOrganization(orgID, ownerID string) *domain.Organization {
	teamID := "team-" + orgID
	org := &domain.Organization{OrgID: orgID, Name: orgID, TeamID: teamID}
	s.orgs[orgID] = org
	s.teams[teamID] = &domain.Team{TeamID: teamID, Kind: domain.TeamKindOrganization, OwnerEntityID: orgID}
	orgPerms := domain.AllOrganizationPermissions
	s.members[teamID] = append(s.members[teamID], &domain.TeamMember{
		TeamID:                  teamID,
		UserID:                  ownerID,
		Username:                ownerID,
		Role:                    "Owner",
		Permissions:             domain.AllProjectPermissions,
		OrganizationPermissions: &orgPerms,
		IsOwner:                 true,
		Accepted:                true,
	})
	return org
}

// addProject seeds a project with its team and accepted owner
func (s *fakeStore) addProject(projectID, ownerID string, orgID *string) *domain.Project {
	teamID := "team-" + projectID
	project := &domain.Project{ProjectID: projectID, Name: projectID, TeamID: teamID, OrgID: orgID}
	s.projects[projectID] = project
	s.teams[teamID] = &domain.Team{TeamID: teamID, Kind: domain.TeamKindProject, OwnerEntityID: projectID}
	s.members[teamID] = append(s.members[teamID], &domain.TeamMember{
		TeamID:      teamID,
		UserID:      ownerID,
		Username:    ownerID,
		Role:        "Owner",
		Permissions: domain.AllProjectPermissions,
		IsOwner:     true,
		Accepted:    true,
	})
	return project
}

// addMember seeds an arbitrary member record directly
func (s *fakeStore) addMember(m *domain.TeamMember) {
	s.members[m.TeamID] = append(s.members[m.TeamID], m)
}

type fakeTeamRepo struct {
	store *fakeStore
}

func (r *fakeTeamRepo) GetTeam(_ context.Context, teamID string) (*domain.Team, error) {
	team, ok := r.store.teams[teamID]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	copied := *team
	copied.Members = nil
	for _, m := range r.store.members[teamID] {
		copied.Members = append(copied.Members, *m)
	}
	return &copied, nil
}

func (r *fakeTeamRepo) GetMember(_ context.Context, teamID, userID string) (*domain.TeamMember, error) {
	m := r.store.findMember(teamID, userID)
	if m == nil {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *fakeTeamRepo) InviteMember(_ context.Context, member *domain.TeamMember, notification *domain.Notification) error {
	if _, ok := r.store.teams[member.TeamID]; !ok {
		return domain.ErrTeamNotFound
	}
	if _, ok := r.store.users[member.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.store.findMember(member.TeamID, member.UserID) != nil {
		return domain.ErrAlreadyMember
	}
	r.store.addMember(member)
	r.store.addNotifications(notification)
	return nil
}

func (r *fakeTeamRepo) AcceptInvite(_ context.Context, teamID, userID string) (*domain.TeamMember, error) {
	if _, ok := r.store.teams[teamID]; !ok {
		return nil, domain.ErrTeamNotFound
	}
	m := r.store.findMember(teamID, userID)
	if m == nil {
		return nil, domain.ErrNotInvited
	}
	if m.Accepted {
		return nil, domain.ErrAlreadyAccepted
	}
	m.Accepted = true
	copied := *m
	return &copied, nil
}

func (r *fakeTeamRepo) UpdateMember(_ context.Context, teamID, userID string, patch *domain.MemberPatch, notification *domain.Notification) (*domain.TeamMember, error) {
	if _, ok := r.store.teams[teamID]; !ok {
		return nil, domain.ErrTeamNotFound
	}
	m := r.store.findMember(teamID, userID)
	if m == nil {
		return nil, domain.ErrUserNotFound
	}
	if patch.Role != nil {
		m.Role = *patch.Role
	}
	if patch.Permissions != nil {
		m.Permissions = *patch.Permissions
	}
	if patch.OrganizationPermissions != nil {
		m.OrganizationPermissions = patch.OrganizationPermissions
	}
	r.store.addNotifications(notification)
	copied := *m
	return &copied, nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, teamID, userID string, notification *domain.Notification) error {
	if _, ok := r.store.teams[teamID]; !ok {
		return domain.ErrTeamNotFound
	}
	m := r.store.findMember(teamID, userID)
	if m == nil {
		return domain.ErrUserNotFound
	}
	if m.IsOwner {
		return domain.ErrCannotRemoveOwner
	}
	members := r.store.members[teamID][:0]
	for _, existing := range r.store.members[teamID] {
		if existing.UserID != userID {
			members = append(members, existing)
		}
	}
	r.store.members[teamID] = members
	r.store.addNotifications(notification)
	return nil
}

func (r *fakeTeamRepo) TransferOwnership(_ context.Context, teamID, fromUserID, toUserID string, notifications []*domain.Notification) error {
	if _, ok := r.store.teams[teamID]; !ok {
		return domain.ErrTeamNotFound
	}
	from := r.store.findMember(teamID, fromUserID)
	if from == nil || !from.IsOwner {
		return domain.ErrNotOwner
	}
	to := r.store.findMember(teamID, toUserID)
	if to == nil || !to.Accepted {
		return domain.ErrTargetNotMember
	}
	from.IsOwner = false
	to.IsOwner = true
	to.Permissions = domain.AllProjectPermissions
	if to.OrganizationPermissions != nil {
		orgPerms := domain.AllOrganizationPermissions
		to.OrganizationPermissions = &orgPerms
	}
	r.store.addNotifications(notifications...)
	return nil
}

type fakeProjectRepo struct {
	store *fakeStore
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project, owner *domain.TeamMember) error {
	if _, ok := r.store.projects[project.ProjectID]; ok {
		return domain.ErrEntityExists
	}
	r.store.projects[project.ProjectID] = project
	r.store.teams[project.TeamID] = &domain.Team{
		TeamID:        project.TeamID,
		Kind:          domain.TeamKindProject,
		OwnerEntityID: project.ProjectID,
	}
	r.store.addMember(owner)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, projectID string) (*domain.Project, error) {
	project, ok := r.store.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

type fakeOrganizationRepo struct {
	store *fakeStore
}

func (r *fakeOrganizationRepo) Create(_ context.Context, org *domain.Organization, owner *domain.TeamMember) error {
	if _, ok := r.store.orgs[org.OrgID]; ok {
		return domain.ErrEntityExists
	}
	r.store.orgs[org.OrgID] = org
	r.store.teams[org.TeamID] = &domain.Team{
		TeamID:        org.TeamID,
		Kind:          domain.TeamKindOrganization,
		OwnerEntityID: org.OrgID,
	}
	r.store.addMember(owner)
	return nil
}

func (r *fakeOrganizationRepo) GetByID(_ context.Context, orgID string) (*domain.Organization, error) {
	org, ok := r.store.orgs[orgID]
	if !ok {
		return nil, domain.ErrOrganizationNotFound
	}
	return org, nil
}

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, notificationID string) (*domain.Notification, error) {
	for _, n := range r.store.notifications {
		if n.NotificationID == notificationID {
			return n, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, notificationID string) error {
	for _, n := range r.store.notifications {
		if n.NotificationID == notificationID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) Delete(_ context.Context, notificationID string) error {
	for i, n := range r.store.notifications {
		if n.NotificationID == notificationID {
			r.store.notifications = append(r.store.notifications[:i], r.store.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// newTestServices wires the full service layer on top of a fresh fake store
func newTestServices(store *fakeStore) (*TeamService, *PermissionService, *NotificationService) {
	teamRepo := &fakeTeamRepo{store: store}
	projectRepo := &fakeProjectRepo{store: store}
	orgRepo := &fakeOrganizationRepo{store: store}
	notificationRepo := &fakeNotificationRepo{store: store}

	permissions := NewPermissionService(teamRepo, projectRepo, orgRepo)
	teams := NewTeamService(teamRepo, projectRepo, orgRepo, permissions, NewNotificationEmitter())
	notifications := NewNotificationService(notificationRepo)
	return teams, permissions, notifications
}
