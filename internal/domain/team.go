package domain

// TeamKind указывает какой сущности принадлежит команда
type TeamKind string

// Виды владеющих сущностей
const (
	TeamKindProject      TeamKind = "project"
	TeamKindOrganization TeamKind = "organization"
)

// Team представляет команду: упорядоченный набор записей участников,
// привязанный ровно к одному проекту или одной организации
type Team struct {
	TeamID string `json:"team_id"`
	// Kind и OwnerEntityID идентифицируют владеющую сущность
	Kind          TeamKind     `json:"kind"`
	OwnerEntityID string       `json:"owner_entity_id"`
	Members       []TeamMember `json:"members"`
}

// IsOrganizationTeam возвращает true если команда принадлежит организации
func (t *Team) IsOrganizationTeam() bool {
	return t.Kind == TeamKindOrganization
}

// Project представляет проект. Проект может принадлежать организации (OrgID != nil)
type Project struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	TeamID    string  `json:"team_id"`
	OrgID     *string `json:"org_id,omitempty"`
}

// Organization представляет организацию
type Organization struct {
	OrgID  string `json:"org_id"`
	Name   string `json:"name"`
	TeamID string `json:"team_id"`
}
