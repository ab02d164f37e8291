package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/team-access-service/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL.
// Все мутации блокируют строку команды (SELECT ... FOR UPDATE), поэтому
// записи одной команды меняются строго последовательно, а операции над
// разными командами не конкурируют между собой
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetTeam получает команду со всеми участниками.
// Чтение без блокировки: список может отставать от конкурирующей записи
func (r *TeamRepository) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	query := `
		SELECT t.team_id, p.project_id, o.org_id
		FROM teams t
		LEFT JOIN projects p ON p.team_id = t.team_id
		LEFT JOIN organizations o ON o.team_id = t.team_id
		WHERE t.team_id = $1
	`

	var (
		id        string
		projectID sql.NullString
		orgID     sql.NullString
	)
	err := r.db.QueryRow(ctx, query, teamID).Scan(&id, &projectID, &orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, storageErr(err)
	}

	team := &domain.Team{TeamID: id}
	switch {
	case orgID.Valid:
		team.Kind = domain.TeamKindOrganization
		team.OwnerEntityID = orgID.String
	case projectID.Valid:
		team.Kind = domain.TeamKindProject
		team.OwnerEntityID = projectID.String
	default:
		// Команда без владеющей сущности существовать не должна
		return nil, domain.ErrTeamNotFound
	}

	members, err := r.listMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	team.Members = members

	return team, nil
}

// listMembers возвращает записи участников в порядке добавления
func (r *TeamRepository) listMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, u.username, m.role,
		       m.permissions, m.organization_permissions, m.is_owner, m.accepted
		FROM team_members m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.created_at, m.user_id
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var (
			tID, uID, username, role string
			permBits                 int64
			orgBits                  *int64
			isOwner, accepted        bool
		)
		if err := rows.Scan(&tID, &uID, &username, &role, &permBits, &orgBits, &isOwner, &accepted); err != nil {
			return nil, storageErr(err)
		}
		member, err := memberFromRow(tID, uID, username, role, permBits, orgBits, isOwner, accepted)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return members, nil
}

// GetMember получает запись участника, (nil, nil) если записи нет
func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, u.username, m.role,
		       m.permissions, m.organization_permissions, m.is_owner, m.accepted
		FROM team_members m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.team_id = $1 AND m.user_id = $2
	`

	var (
		tID, uID, username, role string
		permBits                 int64
		orgBits                  *int64
		isOwner, accepted        bool
	)
	err := r.db.QueryRow(ctx, query, teamID, userID).Scan(
		&tID, &uID, &username, &role, &permBits, &orgBits, &isOwner, &accepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(err)
	}

	return memberFromRow(tID, uID, username, role, permBits, orgBits, isOwner, accepted)
}

// lockTeam блокирует строку команды до конца транзакции
func lockTeam(ctx context.Context, tx pgx.Tx, teamID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT team_id FROM teams WHERE team_id = $1 FOR UPDATE`, teamID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		return storageErr(err)
	}
	return nil
}

// lockMember читает запись участника под блокировкой, (nil, nil) если записи нет
func lockMember(ctx context.Context, tx pgx.Tx, teamID, userID string) (*domain.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role, permissions, organization_permissions, is_owner, accepted
		FROM team_members
		WHERE team_id = $1 AND user_id = $2
		FOR UPDATE
	`

	var (
		tID, uID, role    string
		permBits          int64
		orgBits           *int64
		isOwner, accepted bool
	)
	err := tx.QueryRow(ctx, query, teamID, userID).Scan(&tID, &uID, &role, &permBits, &orgBits, &isOwner, &accepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(err)
	}

	return memberFromRow(tID, uID, "", role, permBits, orgBits, isOwner, accepted)
}

// InviteMember создает запись в состоянии Invited и уведомление приглашенному
func (r *TeamRepository) InviteMember(ctx context.Context, member *domain.TeamMember, notification *domain.Notification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ошибка игнорируется: после коммита откат заведомо падает
	}()

	if err := lockTeam(ctx, tx, member.TeamID); err != nil {
		return err
	}

	if err := insertMember(ctx, tx, member); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return domain.ErrAlreadyMember
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return domain.ErrUserNotFound
			}
		}
		return storageErr(err)
	}

	if err := insertNotification(ctx, tx, notification); err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}

	return nil
}

// AcceptInvite переводит запись пользователя в состояние Accepted
func (r *TeamRepository) AcceptInvite(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockTeam(ctx, tx, teamID); err != nil {
		return nil, err
	}

	member, err := lockMember(ctx, tx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotInvited
	}
	if member.Accepted {
		return nil, domain.ErrAlreadyAccepted
	}

	query := `
		UPDATE team_members
		SET accepted = TRUE, updated_at = NOW()
		WHERE team_id = $1 AND user_id = $2
	`
	if _, err := tx.Exec(ctx, query, teamID, userID); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	member.Accepted = true
	return member, nil
}

// UpdateMember применяет патч к записи участника
func (r *TeamRepository) UpdateMember(ctx context.Context, teamID, userID string, patch *domain.MemberPatch, notification *domain.Notification) (*domain.TeamMember, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockTeam(ctx, tx, teamID); err != nil {
		return nil, err
	}

	member, err := lockMember(ctx, tx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrUserNotFound
	}

	if patch.Role != nil {
		member.Role = *patch.Role
	}
	if patch.Permissions != nil {
		member.Permissions = *patch.Permissions
	}
	if patch.OrganizationPermissions != nil {
		member.OrganizationPermissions = patch.OrganizationPermissions
	}

	var orgBits *int64
	if member.OrganizationPermissions != nil {
		bits := int64(member.OrganizationPermissions.Bits())
		orgBits = &bits
	}

	query := `
		UPDATE team_members
		SET role = $1, permissions = $2, organization_permissions = $3, updated_at = NOW()
		WHERE team_id = $4 AND user_id = $5
	`
	if _, err := tx.Exec(ctx, query, member.Role, int64(member.Permissions.Bits()), orgBits, teamID, userID); err != nil {
		return nil, storageErr(err)
	}

	if err := insertNotification(ctx, tx, notification); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr(err)
	}

	return member, nil
}

// RemoveMember удаляет запись участника
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string, notification *domain.Notification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockTeam(ctx, tx, teamID); err != nil {
		return err
	}

	member, err := lockMember(ctx, tx, teamID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrUserNotFound
	}
	if member.IsOwner {
		// Владельца можно убрать только после явной передачи владения
		return domain.ErrCannotRemoveOwner
	}

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID); err != nil {
		return storageErr(err)
	}

	if err := insertNotification(ctx, tx, notification); err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}

	return nil
}

// TransferOwnership атомарно переносит флаг владельца между двумя принятыми записями.
// Снаружи транзакции команда никогда не видна с двумя владельцами или без владельца
func (r *TeamRepository) TransferOwnership(ctx context.Context, teamID, fromUserID, toUserID string, notifications []*domain.Notification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockTeam(ctx, tx, teamID); err != nil {
		return err
	}

	from, err := lockMember(ctx, tx, teamID, fromUserID)
	if err != nil {
		return err
	}
	if from == nil || !from.IsOwner {
		return domain.ErrNotOwner
	}

	to, err := lockMember(ctx, tx, teamID, toUserID)
	if err != nil {
		return err
	}
	if to == nil || !to.Accepted {
		return domain.ErrTargetNotMember
	}

	// Сначала снимаем флаг со старого владельца: частичный уникальный индекс
	// team_members_single_owner проверяется на каждом операторе
	if _, err := tx.Exec(ctx, `
		UPDATE team_members SET is_owner = FALSE, updated_at = NOW()
		WHERE team_id = $1 AND user_id = $2
	`, teamID, fromUserID); err != nil {
		return storageErr(err)
	}

	// Новый владелец получает полный набор прав
	var orgBits *int64
	if to.OrganizationPermissions != nil {
		bits := int64(domain.AllOrganizationPermissions.Bits())
		orgBits = &bits
	}
	if _, err := tx.Exec(ctx, `
		UPDATE team_members
		SET is_owner = TRUE, permissions = $1, organization_permissions = $2, updated_at = NOW()
		WHERE team_id = $3 AND user_id = $4
	`, int64(domain.AllProjectPermissions.Bits()), orgBits, teamID, toUserID); err != nil {
		return storageErr(err)
	}

	if err := insertNotifications(ctx, tx, notifications); err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}

	return nil
}
