package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aidar/team-access-service/internal/domain"
)

// storageErr оборачивает неожиданную ошибку хранилища в доменную.
// Доменные ошибки (нарушения инвариантов, not found) сюда не попадают
func storageErr(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
}

// insertMember вставляет запись участника внутри транзакции
func insertMember(ctx context.Context, tx pgx.Tx, m *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, permissions, organization_permissions, is_owner, accepted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var orgBits *int64
	if m.OrganizationPermissions != nil {
		bits := int64(m.OrganizationPermissions.Bits())
		orgBits = &bits
	}

	_, err := tx.Exec(ctx, query,
		m.TeamID, m.UserID, m.Role, int64(m.Permissions.Bits()), orgBits, m.IsOwner, m.Accepted)
	return err
}

// insertNotification вставляет уведомление внутри той же транзакции что и мутация команды
func insertNotification(ctx context.Context, tx pgx.Tx, n *domain.Notification) error {
	if n == nil {
		return nil
	}

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (notification_id, user_id, kind, payload, read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`

	createdAt := time.Now()
	if _, err := tx.Exec(ctx, query, n.NotificationID, n.UserID, string(n.Kind), payload, createdAt); err != nil {
		return err
	}

	n.CreatedAt = &createdAt
	return nil
}

// insertNotifications вставляет несколько уведомлений внутри транзакции
func insertNotifications(ctx context.Context, tx pgx.Tx, ns []*domain.Notification) error {
	for _, n := range ns {
		if err := insertNotification(ctx, tx, n); err != nil {
			return err
		}
	}
	return nil
}

// memberFromRow собирает доменную запись участника из колонок БД
func memberFromRow(teamID, userID, username, role string, permBits int64, orgBits *int64, isOwner, accepted bool) (*domain.TeamMember, error) {
	perms, err := domain.ProjectPermissionsFromBits(uint64(permBits))
	if err != nil {
		return nil, err
	}

	member := &domain.TeamMember{
		TeamID:      teamID,
		UserID:      userID,
		Username:    username,
		Role:        role,
		Permissions: perms,
		IsOwner:     isOwner,
		Accepted:    accepted,
	}

	if orgBits != nil {
		orgPerms, err := domain.OrganizationPermissionsFromBits(uint64(*orgBits))
		if err != nil {
			return nil, err
		}
		member.OrganizationPermissions = &orgPerms
	}

	return member, nil
}
