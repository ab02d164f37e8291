package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/repository"
)

// ProjectService handles creation and lookup of projects. Creating a project
// implicitly creates its team, seeded with the creator as accepted owner
// holding the full permission mask.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	permissions *PermissionService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, permissions *PermissionService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		permissions: permissions,
	}
}

// Create creates a project with an implicit team owned by the caller.
// Attaching the project to an organization requires the add-project
// capability on that organization.
func (s *ProjectService) Create(ctx context.Context, projectID, name string, orgID *string, callerID string) (*domain.Project, error) {
	if orgID != nil {
		orgPerms, err := s.permissions.ResolveOrganization(ctx, callerID, *orgID)
		if err != nil {
			return nil, err
		}
		if !orgPerms.Contains(domain.OrgPermAddProject) {
			return nil, domain.ErrInsufficientPermission
		}
	}

	project := &domain.Project{
		ProjectID: projectID,
		Name:      name,
		TeamID:    uuid.New().String(),
		OrgID:     orgID,
	}

	owner := &domain.TeamMember{
		TeamID:      project.TeamID,
		UserID:      callerID,
		Role:        "Owner",
		Permissions: domain.AllProjectPermissions,
		IsOwner:     true,
		Accepted:    true,
	}

	if err := s.projectRepo.Create(ctx, project, owner); err != nil {
		return nil, err
	}

	return project, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// OrganizationService handles creation and lookup of organizations
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// Create creates an organization with an implicit team owned by the caller.
// The owner record carries the full organization mask plus the full project
// mask as the baseline applied to the organization's projects.
func (s *OrganizationService) Create(ctx context.Context, orgID, name, callerID string) (*domain.Organization, error) {
	org := &domain.Organization{
		OrgID:  orgID,
		Name:   name,
		TeamID: uuid.New().String(),
	}

	orgPerms := domain.AllOrganizationPermissions
	owner := &domain.TeamMember{
		TeamID:                  org.TeamID,
		UserID:                  callerID,
		Role:                    "Owner",
		Permissions:             domain.AllProjectPermissions,
		OrganizationPermissions: &orgPerms,
		IsOwner:                 true,
		Accepted:                true,
	}

	if err := s.orgRepo.Create(ctx, org, owner); err != nil {
		return nil, err
	}

	return org, nil
}

// GetByID retrieves an organization by ID
func (s *OrganizationService) GetByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	return s.orgRepo.GetByID(ctx, orgID)
}
