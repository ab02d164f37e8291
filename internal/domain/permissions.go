package domain

// ProjectPermissions это битовая маска возможностей пользователя в рамках проекта
type ProjectPermissions uint64

// Флаги прав на проект
const (
	PermUploadVersion ProjectPermissions = 1 << 0 // Загрузка новых версий
	PermDeleteVersion ProjectPermissions = 1 << 1 // Удаление версий
	PermEditDetails   ProjectPermissions = 1 << 2 // Редактирование описания проекта
	PermEditBody      ProjectPermissions = 1 << 3 // Редактирование текста проекта
	PermManageInvites ProjectPermissions = 1 << 4 // Приглашение участников
	PermRemoveMember  ProjectPermissions = 1 << 5 // Удаление участников
	PermEditMember    ProjectPermissions = 1 << 6 // Редактирование ролей и прав участников
	PermDeleteProject ProjectPermissions = 1 << 7 // Удаление проекта
	PermViewAnalytics ProjectPermissions = 1 << 8 // Просмотр аналитики
	PermViewPayouts   ProjectPermissions = 1 << 9 // Просмотр выплат

	// AllProjectPermissions объединяет все известные флаги прав на проект
	AllProjectPermissions ProjectPermissions = 1<<10 - 1
)

// OrganizationPermissions это битовая маска возможностей пользователя в рамках организации.
// Биты организации и проекта — независимые перечисления и никогда не комбинируются напрямую
type OrganizationPermissions uint64

// Флаги прав на организацию
const (
	OrgPermEditDetails        OrganizationPermissions = 1 << 0 // Редактирование описания организации
	OrgPermManageInvites      OrganizationPermissions = 1 << 1 // Приглашение участников
	OrgPermRemoveMember       OrganizationPermissions = 1 << 2 // Удаление участников
	OrgPermEditMember         OrganizationPermissions = 1 << 3 // Редактирование ролей и прав участников
	OrgPermAddProject         OrganizationPermissions = 1 << 4 // Добавление проектов в организацию
	OrgPermRemoveProject      OrganizationPermissions = 1 << 5 // Исключение проектов из организации
	OrgPermDeleteOrganization OrganizationPermissions = 1 << 6 // Удаление организации
	OrgPermEditDefaults       OrganizationPermissions = 1 << 7 // Редактирование прав по умолчанию для проектов

	// AllOrganizationPermissions объединяет все известные флаги прав на организацию
	AllOrganizationPermissions OrganizationPermissions = 1<<8 - 1
)

// ProjectPermissionsFromBits строит маску из целого числа.
// Неизвестные биты отклоняются, а не маскируются: старый клиент не должен
// случайно выдать возможность добавленную после него
func ProjectPermissionsFromBits(bits uint64) (ProjectPermissions, error) {
	p := ProjectPermissions(bits)
	if p&^AllProjectPermissions != 0 {
		return 0, ErrInvalidPermissionBits
	}
	return p, nil
}

// Contains проверяет что маска содержит все биты other
func (p ProjectPermissions) Contains(other ProjectPermissions) bool {
	return p&other == other
}

// Union возвращает объединение двух масок
func (p ProjectPermissions) Union(other ProjectPermissions) ProjectPermissions {
	return p | other
}

// Difference возвращает биты p отсутствующие в other
func (p ProjectPermissions) Difference(other ProjectPermissions) ProjectPermissions {
	return p &^ other
}

// Bits возвращает сериализованное представление маски
func (p ProjectPermissions) Bits() uint64 {
	return uint64(p)
}

// OrganizationPermissionsFromBits строит маску из целого числа, неизвестные биты отклоняются
func OrganizationPermissionsFromBits(bits uint64) (OrganizationPermissions, error) {
	p := OrganizationPermissions(bits)
	if p&^AllOrganizationPermissions != 0 {
		return 0, ErrInvalidPermissionBits
	}
	return p, nil
}

// Contains проверяет что маска содержит все биты other
func (p OrganizationPermissions) Contains(other OrganizationPermissions) bool {
	return p&other == other
}

// Union возвращает объединение двух масок
func (p OrganizationPermissions) Union(other OrganizationPermissions) OrganizationPermissions {
	return p | other
}

// Difference возвращает биты p отсутствующие в other
func (p OrganizationPermissions) Difference(other OrganizationPermissions) OrganizationPermissions {
	return p &^ other
}

// Bits возвращает сериализованное представление маски
func (p OrganizationPermissions) Bits() uint64 {
	return uint64(p)
}
