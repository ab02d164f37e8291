package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/team-access-service/internal/middleware"
	"github.com/aidar/team-access-service/internal/service"
)

// ProjectHandler обрабатывает эндпоинты проектов
type ProjectHandler struct {
	projectService    *service.ProjectService
	teamService       *service.TeamService
	permissionService *service.PermissionService
}

// NewProjectHandler создает новый ProjectHandler
func NewProjectHandler(projectService *service.ProjectService, teamService *service.TeamService, permissionService *service.PermissionService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		teamService:       teamService,
		permissionService: permissionService,
	}
}

// AddProjectRequest представляет тело запроса на создание проекта
type AddProjectRequest struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	OrgID     *string `json:"org_id,omitempty"`
}

// PermissionsResponse представляет эффективные права вызывающего
type PermissionsResponse struct {
	Permissions uint64 `json:"permissions"`
}

// AddProject обрабатывает POST /project/add
func (h *ProjectHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserIDFromContext(r.Context())

	var req AddProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.ProjectID == "" || req.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "project_id and name are required")
		return
	}

	project, err := h.projectService.Create(r.Context(), req.ProjectID, req.Name, req.OrgID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, project)
}

// ListMembers обрабатывает GET /project/{projectID}/members
func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	members, err := h.teamService.ListProjectMembers(r.Context(), projectID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, members)
}

// GetPermissions обрабатывает GET /project/{projectID}/permissions.
// Возвращает эффективные права вызывающего на проект с учетом наследования от организации
func (h *ProjectHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	perms, err := h.permissionService.ResolveProject(r.Context(), callerID, projectID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, PermissionsResponse{Permissions: perms.Bits()})
}
