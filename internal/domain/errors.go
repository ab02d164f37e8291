package domain

import "errors"

// Доменные ошибки сервиса управления командами
var (
	// ErrInvalidPermissionBits возвращается когда битовая маска содержит неизвестные биты
	ErrInvalidPermissionBits = errors.New("permission bits outside known flag set")

	// ErrInsufficientPermission возвращается когда у вызывающего нет нужной возможности
	// либо он пытается выдать права которых сам не имеет
	ErrInsufficientPermission = errors.New("insufficient permission")

	// ErrNotInvited возвращается при попытке принять несуществующее приглашение
	ErrNotInvited = errors.New("user is not invited to this team")

	// ErrAlreadyAccepted возвращается при повторном принятии приглашения
	ErrAlreadyAccepted = errors.New("invite already accepted")

	// ErrAlreadyMember возвращается при попытке пригласить уже состоящего в команде пользователя
	ErrAlreadyMember = errors.New("user is already a team member")

	// ErrCannotRemoveOwner возвращается при попытке удалить владельца команды
	ErrCannotRemoveOwner = errors.New("cannot remove team owner")

	// ErrNotOwner возвращается когда передачу владения инициирует не владелец
	ErrNotOwner = errors.New("caller is not the team owner")

	// ErrTargetNotMember возвращается когда новый владелец не является принятым участником
	ErrTargetNotMember = errors.New("target user is not an accepted team member")

	// ErrNotRecipient возвращается когда уведомление принадлежит другому пользователю
	ErrNotRecipient = errors.New("caller is not the notification recipient")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTeamNotFound возвращается когда команда не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrProjectNotFound возвращается когда проект не найден
	ErrProjectNotFound = errors.New("project not found")

	// ErrOrganizationNotFound возвращается когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrNotificationNotFound возвращается когда уведомление не найдено
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrEntityExists возвращается при попытке создать уже существующий проект или организацию
	ErrEntityExists = errors.New("entity already exists")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrStorageUnavailable оборачивает ошибки хранилища (соединение, конфликт транзакции).
	// Ядро не ретраит такие ошибки само — вызывающий слой решает безопасен ли повтор
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeInvalidPermissionBits  ErrorCode = "INVALID_PERMISSION_BITS" // Маска содержит неизвестные биты
	CodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION" // Недостаточно прав
	CodeNotInvited             ErrorCode = "NOT_INVITED"             // Приглашение не найдено
	CodeAlreadyAccepted        ErrorCode = "ALREADY_ACCEPTED"        // Приглашение уже принято
	CodeAlreadyMember          ErrorCode = "ALREADY_MEMBER"          // Пользователь уже в команде
	CodeCannotRemoveOwner      ErrorCode = "CANNOT_REMOVE_OWNER"     // Владельца нельзя удалить
	CodeNotOwner               ErrorCode = "NOT_OWNER"               // Вызывающий не владелец
	CodeTargetNotMember        ErrorCode = "TARGET_NOT_MEMBER"       // Цель передачи не принятый участник
	CodeNotRecipient           ErrorCode = "NOT_RECIPIENT"           // Чужое уведомление
	CodeEntityExists           ErrorCode = "ENTITY_EXISTS"           // Проект или организация уже существует
	CodeNotFound               ErrorCode = "NOT_FOUND"               // Ресурс не найден
	CodeStorageUnavailable     ErrorCode = "STORAGE_UNAVAILABLE"     // Хранилище недоступно
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidPermissionBits):
		return CodeInvalidPermissionBits
	case errors.Is(err, ErrInsufficientPermission):
		return CodeInsufficientPermission
	case errors.Is(err, ErrNotInvited):
		return CodeNotInvited
	case errors.Is(err, ErrAlreadyAccepted):
		return CodeAlreadyAccepted
	case errors.Is(err, ErrAlreadyMember):
		return CodeAlreadyMember
	case errors.Is(err, ErrCannotRemoveOwner):
		return CodeCannotRemoveOwner
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	case errors.Is(err, ErrTargetNotMember):
		return CodeTargetNotMember
	case errors.Is(err, ErrNotRecipient):
		return CodeNotRecipient
	case errors.Is(err, ErrEntityExists):
		return CodeEntityExists
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrOrganizationNotFound), errors.Is(err, ErrNotificationNotFound):
		return CodeNotFound
	default:
		return CodeNotFound
	}
}
