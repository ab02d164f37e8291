package domain

// User представляет пользователя сервиса
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
