package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/middleware"
	"github.com/aidar/team-access-service/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// InviteRequest представляет тело запроса на приглашение участника.
// Маски прав передаются как целые числа
type InviteRequest struct {
	UserID                  string  `json:"user_id"`
	Role                    string  `json:"role"`
	Permissions             uint64  `json:"permissions"`
	OrganizationPermissions *uint64 `json:"organization_permissions,omitempty"`
}

// EditMemberRequest представляет тело запроса на изменение записи участника,
// отсутствующие поля не меняются
type EditMemberRequest struct {
	Role                    *string `json:"role,omitempty"`
	Permissions             *uint64 `json:"permissions,omitempty"`
	OrganizationPermissions *uint64 `json:"organization_permissions,omitempty"`
}

// TransferOwnershipRequest представляет тело запроса на передачу владения
type TransferOwnershipRequest struct {
	UserID string `json:"user_id"`
}

// ListMembers обрабатывает GET /team/{teamID}/members
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	members, err := h.teamService.ListTeamMembers(r.Context(), teamID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, members)
}

// Invite обрабатывает POST /team/{teamID}/members
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.UserID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	// Неизвестные биты отклоняются на границе, до бизнес-логики
	perms, err := domain.ProjectPermissionsFromBits(req.Permissions)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	var orgPerms *domain.OrganizationPermissions
	if req.OrganizationPermissions != nil {
		p, err := domain.OrganizationPermissionsFromBits(*req.OrganizationPermissions)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		orgPerms = &p
	}

	member, err := h.teamService.Invite(r.Context(), teamID, req.UserID, req.Role, perms, orgPerms, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, member)
}

// Join обрабатывает POST /team/{teamID}/join
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	member, err := h.teamService.AcceptInvite(r.Context(), teamID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, member)
}

// EditMember обрабатывает PATCH /team/{teamID}/members/{userID}
func (h *TeamHandler) EditMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	targetUserID := chi.URLParam(r, "userID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	var req EditMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	patch := &domain.MemberPatch{Role: req.Role}
	if req.Permissions != nil {
		p, err := domain.ProjectPermissionsFromBits(*req.Permissions)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		patch.Permissions = &p
	}
	if req.OrganizationPermissions != nil {
		p, err := domain.OrganizationPermissionsFromBits(*req.OrganizationPermissions)
		if err != nil {
			HandleError(w, r, err)
			return
		}
		patch.OrganizationPermissions = &p
	}

	if patch.IsEmpty() {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "patch must change at least one field")
		return
	}

	member, err := h.teamService.EditMember(r.Context(), teamID, targetUserID, patch, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, member)
}

// RemoveMember обрабатывает DELETE /team/{teamID}/members/{userID}
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	targetUserID := chi.URLParam(r, "userID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.teamService.RemoveMember(r.Context(), teamID, targetUserID, callerID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TransferOwnership обрабатывает PATCH /team/{teamID}/owner
func (h *TeamHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	var req TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.UserID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}

	if err := h.teamService.TransferOwnership(r.Context(), teamID, req.UserID, callerID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
