package domain

// TeamMember представляет запись участника: отношение одного пользователя к одной команде
type TeamMember struct {
	TeamID   string `json:"team_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	// Role это свободная текстовая метка роли (например "Developer")
	Role string `json:"role"`
	// Permissions это права участника на проект. Для команды организации
	// это базовые права применяемые ко всем проектам организации
	Permissions ProjectPermissions `json:"permissions"`
	// OrganizationPermissions заполняется только для команд организаций,
	// для команды проекта поле отсутствует
	OrganizationPermissions *OrganizationPermissions `json:"organization_permissions,omitempty"`
	IsOwner                 bool                     `json:"is_owner"`
	Accepted                bool                     `json:"accepted"`
}

// MemberPatch описывает изменения записи участника, nil поля не трогаются
type MemberPatch struct {
	Role                    *string                  `json:"role,omitempty"`
	Permissions             *ProjectPermissions      `json:"permissions,omitempty"`
	OrganizationPermissions *OrganizationPermissions `json:"organization_permissions,omitempty"`
}

// IsEmpty возвращает true если патч не меняет ни одного поля
func (p *MemberPatch) IsEmpty() bool {
	return p.Role == nil && p.Permissions == nil && p.OrganizationPermissions == nil
}
