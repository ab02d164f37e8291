package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// AddUserRequest представляет тело запроса на регистрацию пользователя
type AddUserRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AddUser обрабатывает POST /users/add
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.UserID == "" || req.Username == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "user_id and username are required")
		return
	}

	user, err := h.userService.CreateOrUpdate(r.Context(), &domain.User{
		UserID:   req.UserID,
		Username: req.Username,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, user)
}
