package repository

import (
	"context"

	"github.com/aidar/team-access-service/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// CreateOrUpdate создает нового пользователя или обновляет существующего
	CreateOrUpdate(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

// TeamRepository определяет методы для работы с командами и записями участников.
// Каждая мутация выполняется одной транзакцией с блокировкой строки команды,
// поэтому операции над одной командой сериализуются, а уведомления
// фиксируются вместе с изменением состава
type TeamRepository interface {
	// GetTeam получает команду со всеми участниками (снапшот без блокировки)
	GetTeam(ctx context.Context, teamID string) (*domain.Team, error)

	// GetMember получает запись участника, (nil, nil) если записи нет
	GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error)

	// InviteMember создает запись в состоянии Invited и уведомление приглашенному
	InviteMember(ctx context.Context, member *domain.TeamMember, notification *domain.Notification) error

	// AcceptInvite переводит запись пользователя в состояние Accepted
	AcceptInvite(ctx context.Context, teamID, userID string) (*domain.TeamMember, error)

	// UpdateMember применяет патч к записи участника, notification может быть nil
	UpdateMember(ctx context.Context, teamID, userID string, patch *domain.MemberPatch, notification *domain.Notification) (*domain.TeamMember, error)

	// RemoveMember удаляет запись участника, notification может быть nil.
	// Запись владельца удалить нельзя
	RemoveMember(ctx context.Context, teamID, userID string, notification *domain.Notification) error

	// TransferOwnership атомарно переносит флаг владельца между двумя принятыми записями
	TransferOwnership(ctx context.Context, teamID, fromUserID, toUserID string, notifications []*domain.Notification) error
}

// ProjectRepository определяет методы для работы с проектами
type ProjectRepository interface {
	// Create создает проект вместе с его командой и записью владельца
	Create(ctx context.Context, project *domain.Project, owner *domain.TeamMember) error

	// GetByID получает проект по ID
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
}

// OrganizationRepository определяет методы для работы с организациями
type OrganizationRepository interface {
	// Create создает организацию вместе с ее командой и записью владельца
	Create(ctx context.Context, org *domain.Organization, owner *domain.TeamMember) error

	// GetByID получает организацию по ID
	GetByID(ctx context.Context, orgID string) (*domain.Organization, error)
}

// NotificationRepository определяет методы для чтения и изменения уведомлений.
// Создаются уведомления только внутри транзакций TeamRepository
type NotificationRepository interface {
	// ListByUser возвращает уведомления пользователя, новые первыми
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// GetByID получает уведомление по ID
	GetByID(ctx context.Context, notificationID string) (*domain.Notification, error)

	// MarkRead помечает уведомление прочитанным
	MarkRead(ctx context.Context, notificationID string) error

	// Delete удаляет уведомление
	Delete(ctx context.Context, notificationID string) error
}
