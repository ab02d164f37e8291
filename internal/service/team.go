package service

import (
	"context"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/repository"
)

// TeamService handles business logic for team membership commands: invite,
// accept, edit, remove and ownership transfer. Authorization goes through
// PermissionService; notification events are built by the emitter and
// committed by the repository together with the membership change.
type TeamService struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
	permissions *PermissionService
	emitter     *NotificationEmitter
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	projectRepo repository.ProjectRepository,
	orgRepo repository.OrganizationRepository,
	permissions *PermissionService,
	emitter *NotificationEmitter,
) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
		permissions: permissions,
		emitter:     emitter,
	}
}

// ListTeamMembers returns the team's member records. Pending (invited)
// records are visible only to callers who can manage invites, and to the
// invited user themself.
func (s *TeamService) ListTeamMembers(ctx context.Context, teamID, callerID string) ([]domain.TeamMember, error) {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ep, err := s.permissions.ResolveForTeam(ctx, callerID, team)
	if err != nil {
		return nil, err
	}
	seePending := ep.CanManageInvites()

	members := make([]domain.TeamMember, 0, len(team.Members))
	for _, m := range team.Members {
		if m.Accepted || seePending || m.UserID == callerID {
			members = append(members, m)
		}
	}

	return members, nil
}

// ListProjectMembers resolves the project's team and delegates to ListTeamMembers
func (s *TeamService) ListProjectMembers(ctx context.Context, projectID, callerID string) ([]domain.TeamMember, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.ListTeamMembers(ctx, project.TeamID, callerID)
}

// ListOrganizationMembers resolves the organization's team and delegates to ListTeamMembers
func (s *TeamService) ListOrganizationMembers(ctx context.Context, orgID, callerID string) ([]domain.TeamMember, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return s.ListTeamMembers(ctx, org.TeamID, callerID)
}

// Invite creates a pending member record with the proposed role and
// permission sets. The caller needs the manage-invites capability and may
// only grant permission bits it holds itself.
func (s *TeamService) Invite(
	ctx context.Context,
	teamID, targetUserID, role string,
	perms domain.ProjectPermissions,
	orgPerms *domain.OrganizationPermissions,
	callerID string,
) (*domain.TeamMember, error) {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ep, err := s.permissions.ResolveForTeam(ctx, callerID, team)
	if err != nil {
		return nil, err
	}
	if !ep.CanManageInvites() {
		return nil, domain.ErrInsufficientPermission
	}

	// Escalation guard: a caller cannot grant capability it does not hold
	if !ep.Project.Contains(perms) {
		return nil, domain.ErrInsufficientPermission
	}

	if team.IsOrganizationTeam() {
		if orgPerms == nil {
			zero := domain.OrganizationPermissions(0)
			orgPerms = &zero
		}
		if !ep.Organization.Contains(*orgPerms) {
			return nil, domain.ErrInsufficientPermission
		}
	} else if orgPerms != nil {
		// Organization permissions have no meaning on a project team
		return nil, domain.ErrInvalidPermissionBits
	}

	if role == "" {
		role = "Member"
	}

	member := &domain.TeamMember{
		TeamID:                  teamID,
		UserID:                  targetUserID,
		Role:                    role,
		Permissions:             perms,
		OrganizationPermissions: orgPerms,
		IsOwner:                 false,
		Accepted:                false,
	}

	notification := s.emitter.Emit(targetUserID, domain.NotificationTeamInvite, teamPayload(team, callerID, role))
	if err := s.teamRepo.InviteMember(ctx, member, notification); err != nil {
		return nil, err
	}

	return member, nil
}

// AcceptInvite transitions the caller's own pending record to accepted
func (s *TeamService) AcceptInvite(ctx context.Context, teamID, callerID string) (*domain.TeamMember, error) {
	return s.teamRepo.AcceptInvite(ctx, teamID, callerID)
}

// EditMember rewrites role and permission fields of an existing record.
// The caller needs the edit-member capability, may only grant bits it holds,
// and only the owner may touch the owner's own record.
func (s *TeamService) EditMember(ctx context.Context, teamID, targetUserID string, patch *domain.MemberPatch, callerID string) (*domain.TeamMember, error) {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ep, err := s.permissions.ResolveForTeam(ctx, callerID, team)
	if err != nil {
		return nil, err
	}
	if !ep.CanEditMembers() {
		return nil, domain.ErrInsufficientPermission
	}

	target, err := s.teamRepo.GetMember(ctx, teamID, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.IsOwner && callerID != targetUserID {
		return nil, domain.ErrInsufficientPermission
	}

	if patch.Permissions != nil && !ep.Project.Contains(*patch.Permissions) {
		return nil, domain.ErrInsufficientPermission
	}
	if patch.OrganizationPermissions != nil {
		if !team.IsOrganizationTeam() {
			return nil, domain.ErrInvalidPermissionBits
		}
		if !ep.Organization.Contains(*patch.OrganizationPermissions) {
			return nil, domain.ErrInsufficientPermission
		}
	}

	var notification *domain.Notification
	if callerID != targetUserID {
		notification = s.emitter.Emit(targetUserID, domain.NotificationRoleChanged, teamPayload(team, callerID, target.Role))
	}

	return s.teamRepo.UpdateMember(ctx, teamID, targetUserID, patch, notification)
}

// RemoveMember deletes a member record. Members may always remove their own
// record (leave the team); removing someone else needs the remove capability.
// The owner record can never be removed, only transferred first.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, targetUserID, callerID string) error {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if callerID != targetUserID {
		ep, err := s.permissions.ResolveForTeam(ctx, callerID, team)
		if err != nil {
			return err
		}
		if !ep.CanRemoveMembers() {
			return domain.ErrInsufficientPermission
		}
	}

	var notification *domain.Notification
	if callerID != targetUserID {
		notification = s.emitter.Emit(targetUserID, domain.NotificationRemovedFromTeam, teamPayload(team, callerID, ""))
	}

	return s.teamRepo.RemoveMember(ctx, teamID, targetUserID, notification)
}

// TransferOwnership atomically reassigns the owner flag from the caller to an
// accepted member. Preconditions are re-validated inside the transaction.
func (s *TeamService) TransferOwnership(ctx context.Context, teamID, newOwnerID, callerID string) error {
	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	var notifications []*domain.Notification
	if newOwnerID != callerID {
		notifications = append(notifications,
			s.emitter.Emit(newOwnerID, domain.NotificationOwnershipTransferred, teamPayload(team, callerID, "")))
	}

	return s.teamRepo.TransferOwnership(ctx, teamID, callerID, newOwnerID, notifications)
}
