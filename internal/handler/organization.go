package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/team-access-service/internal/middleware"
	"github.com/aidar/team-access-service/internal/service"
)

// OrganizationHandler обрабатывает эндпоинты организаций
type OrganizationHandler struct {
	orgService        *service.OrganizationService
	teamService       *service.TeamService
	permissionService *service.PermissionService
}

// NewOrganizationHandler создает новый OrganizationHandler
func NewOrganizationHandler(orgService *service.OrganizationService, teamService *service.TeamService, permissionService *service.PermissionService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:        orgService,
		teamService:       teamService,
		permissionService: permissionService,
	}
}

// AddOrganizationRequest представляет тело запроса на создание организации
type AddOrganizationRequest struct {
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
}

// AddOrganization обрабатывает POST /organization/add
func (h *OrganizationHandler) AddOrganization(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserIDFromContext(r.Context())

	var req AddOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.OrgID == "" || req.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "org_id and name are required")
		return
	}

	org, err := h.orgService.Create(r.Context(), req.OrgID, req.Name, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, org)
}

// ListMembers обрабатывает GET /organization/{orgID}/members
func (h *OrganizationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	members, err := h.teamService.ListOrganizationMembers(r.Context(), orgID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, members)
}

// GetPermissions обрабатывает GET /organization/{orgID}/permissions.
// Права организации не наследуются из членства в проектах
func (h *OrganizationHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	perms, err := h.permissionService.ResolveOrganization(r.Context(), callerID, orgID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, PermissionsResponse{Permissions: perms.Bits()})
}
