package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/team-access-service/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := string(domain.MapErrorToCode(err))
	switch {
	case errors.Is(err, domain.ErrInvalidPermissionBits):
		RespondWithError(w, r, http.StatusBadRequest, code, "permission bits outside known flag set")
	case errors.Is(err, domain.ErrInsufficientPermission):
		RespondWithError(w, r, http.StatusForbidden, code, "insufficient permission")
	case errors.Is(err, domain.ErrNotOwner):
		RespondWithError(w, r, http.StatusForbidden, code, "caller is not the team owner")
	case errors.Is(err, domain.ErrNotRecipient):
		RespondWithError(w, r, http.StatusForbidden, code, "caller is not the notification recipient")
	case errors.Is(err, domain.ErrNotInvited):
		RespondWithError(w, r, http.StatusConflict, code, "user is not invited to this team")
	case errors.Is(err, domain.ErrAlreadyAccepted):
		RespondWithError(w, r, http.StatusConflict, code, "invite already accepted")
	case errors.Is(err, domain.ErrAlreadyMember):
		RespondWithError(w, r, http.StatusConflict, code, "user is already a team member")
	case errors.Is(err, domain.ErrCannotRemoveOwner):
		RespondWithError(w, r, http.StatusConflict, code, "cannot remove team owner, transfer ownership first")
	case errors.Is(err, domain.ErrTargetNotMember):
		RespondWithError(w, r, http.StatusConflict, code, "target user is not an accepted team member")
	case errors.Is(err, domain.ErrEntityExists):
		RespondWithError(w, r, http.StatusConflict, code, "entity already exists")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTeamNotFound), errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrOrganizationNotFound), errors.Is(err, domain.ErrNotificationNotFound):
		RespondWithError(w, r, http.StatusNotFound, code, "resource not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, domain.ErrStorageUnavailable):
		RespondWithError(w, r, http.StatusServiceUnavailable, code, "storage unavailable")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
