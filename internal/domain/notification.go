package domain

import "time"

// NotificationKind представляет тип уведомления
type NotificationKind string

// Типы уведомлений порождаемых изменениями состава команды
const (
	NotificationTeamInvite           NotificationKind = "team_invite"           // Пользователя пригласили в команду
	NotificationRoleChanged          NotificationKind = "role_changed"          // Роль или права участника изменены
	NotificationRemovedFromTeam      NotificationKind = "removed_from_team"     // Участника удалили из команды
	NotificationOwnershipTransferred NotificationKind = "ownership_transferred" // Пользователю передано владение командой
)

// NotificationPayload содержит контекст уведомления
type NotificationPayload struct {
	TeamID string `json:"team_id"`
	// ProjectID или OrgID указывают владеющую сущность команды
	ProjectID string `json:"project_id,omitempty"`
	OrgID     string `json:"org_id,omitempty"`
	// Role это роль участника на момент события (для приглашений и изменений)
	Role string `json:"role,omitempty"`
	// ActorID это пользователь выполнивший операцию
	ActorID string `json:"actor_id,omitempty"`
}

// Notification представляет уведомление пользователя.
// Создается только как побочный эффект изменения команды, в той же транзакции
type Notification struct {
	NotificationID string              `json:"notification_id"`
	UserID         string              `json:"user_id"`
	Kind           NotificationKind    `json:"kind"`
	Payload        NotificationPayload `json:"payload"`
	Read           bool                `json:"read"`
	CreatedAt      *time.Time          `json:"created_at,omitempty"`
}
