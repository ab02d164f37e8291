package service

import (
	"context"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/repository"
)

// EffectivePermissions holds the resolved permissions of one user in the
// context of one team. Organization is nil for project-owned teams.
type EffectivePermissions struct {
	Project      domain.ProjectPermissions
	Organization *domain.OrganizationPermissions
}

// PermissionService resolves effective permissions. All inheritance rules live
// here: projects inherit baseline permissions from the owning organization's
// membership, organizations never inherit anything back.
type PermissionService struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(teamRepo repository.TeamRepository, projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) *PermissionService {
	return &PermissionService{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
	}
}

// ResolveProject computes the effective project permissions of a user on a project.
// Effective = accepted project-team record bits, unioned with the project-permission
// bits of an accepted record on the owning organization's team. An explicit project
// grant can only add to the organization baseline, never revoke it. Unaccepted
// records contribute nothing. An owner record resolves to the full mask.
func (s *PermissionService) ResolveProject(ctx context.Context, userID, projectID string) (domain.ProjectPermissions, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}

	var perms domain.ProjectPermissions

	member, err := s.teamRepo.GetMember(ctx, project.TeamID, userID)
	if err != nil {
		return 0, err
	}
	if member != nil && member.Accepted {
		if member.IsOwner {
			return domain.AllProjectPermissions, nil
		}
		perms = perms.Union(member.Permissions)
	}

	if project.OrgID != nil {
		org, err := s.orgRepo.GetByID(ctx, *project.OrgID)
		if err != nil {
			return 0, err
		}
		orgMember, err := s.teamRepo.GetMember(ctx, org.TeamID, userID)
		if err != nil {
			return 0, err
		}
		if orgMember != nil && orgMember.Accepted {
			if orgMember.IsOwner {
				return domain.AllProjectPermissions, nil
			}
			// The project-permission field of an organization record is the
			// baseline applied across all of the organization's projects
			perms = perms.Union(orgMember.Permissions)
		}
	}

	return perms, nil
}

// ResolveOrganization computes the effective organization permissions of a user.
// Only the accepted organization record counts; project memberships never
// grant organization capability.
func (s *PermissionService) ResolveOrganization(ctx context.Context, userID, orgID string) (domain.OrganizationPermissions, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return 0, err
	}

	member, err := s.teamRepo.GetMember(ctx, org.TeamID, userID)
	if err != nil {
		return 0, err
	}
	if member == nil || !member.Accepted {
		return 0, nil
	}
	if member.IsOwner {
		return domain.AllOrganizationPermissions, nil
	}
	if member.OrganizationPermissions == nil {
		return 0, nil
	}

	return *member.OrganizationPermissions, nil
}

// ResolveForTeam computes the caller's effective permissions in the context of
// the given team's owning entity. Used by every team command for authorization.
func (s *PermissionService) ResolveForTeam(ctx context.Context, userID string, team *domain.Team) (EffectivePermissions, error) {
	var ep EffectivePermissions

	if team.IsOrganizationTeam() {
		orgPerms, err := s.ResolveOrganization(ctx, userID, team.OwnerEntityID)
		if err != nil {
			return ep, err
		}
		ep.Organization = &orgPerms

		// Project bits of an organization record bound what the caller may
		// grant as project-permission defaults on this team
		member, err := s.teamRepo.GetMember(ctx, team.TeamID, userID)
		if err != nil {
			return ep, err
		}
		if member != nil && member.Accepted {
			if member.IsOwner {
				ep.Project = domain.AllProjectPermissions
			} else {
				ep.Project = member.Permissions
			}
		}
		return ep, nil
	}

	projPerms, err := s.ResolveProject(ctx, userID, team.OwnerEntityID)
	if err != nil {
		return ep, err
	}
	ep.Project = projPerms
	return ep, nil
}

// CanManageInvites reports whether the permissions allow inviting members
// and seeing pending invites on the team that produced them.
func (ep EffectivePermissions) CanManageInvites() bool {
	if ep.Organization != nil {
		return ep.Organization.Contains(domain.OrgPermManageInvites)
	}
	return ep.Project.Contains(domain.PermManageInvites)
}

// CanEditMembers reports whether the permissions allow editing member records.
func (ep EffectivePermissions) CanEditMembers() bool {
	if ep.Organization != nil {
		return ep.Organization.Contains(domain.OrgPermEditMember)
	}
	return ep.Project.Contains(domain.PermEditMember)
}

// CanRemoveMembers reports whether the permissions allow removing members.
func (ep EffectivePermissions) CanRemoveMembers() bool {
	if ep.Organization != nil {
		return ep.Organization.Contains(domain.OrgPermRemoveMember)
	}
	return ep.Project.Contains(domain.PermRemoveMember)
}
