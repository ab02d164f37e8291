package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/team-access-service/internal/middleware"
	"github.com/aidar/team-access-service/internal/service"
)

// NotificationHandler обрабатывает эндпоинты уведомлений
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler создает новый NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications обрабатывает GET /user/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserIDFromContext(r.Context())

	notifications, err := h.notificationService.ListForUser(r.Context(), callerID, callerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, notifications)
}

// MarkRead обрабатывает PATCH /notification/{notificationID}
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "notificationID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.notificationService.MarkRead(r.Context(), notificationID, callerID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotification обрабатывает DELETE /notification/{notificationID}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "notificationID")
	callerID := middleware.GetUserIDFromContext(r.Context())

	if err := h.notificationService.Delete(r.Context(), notificationID, callerID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
