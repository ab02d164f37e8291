package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/team-access-service/internal/domain"
)

// NotificationRepository реализует repository.NotificationRepository для PostgreSQL.
// Вставка уведомлений здесь не реализована: они создаются только внутри
// транзакций изменения команд (см. TeamRepository)
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository создает новый экземпляр NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT notification_id, user_id, kind, payload, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, notification_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	return notifications, nil
}

// GetByID получает уведомление по ID
func (r *NotificationRepository) GetByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `
		SELECT notification_id, user_id, kind, payload, read, created_at
		FROM notifications
		WHERE notification_id = $1
	`

	row := r.db.QueryRow(ctx, query, notificationID)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	return n, nil
}

// MarkRead помечает уведомление прочитанным
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE notification_id = $1`

	result, err := r.db.Exec(ctx, query, notificationID)
	if err != nil {
		return storageErr(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

// Delete удаляет уведомление
func (r *NotificationRepository) Delete(ctx context.Context, notificationID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE notification_id = $1`, notificationID)
	if err != nil {
		return storageErr(err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

// scanNotification читает одну строку уведомления
func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n         domain.Notification
		kind      string
		payload   []byte
		createdAt time.Time
	)
	err := row.Scan(&n.NotificationID, &n.UserID, &kind, &payload, &n.Read, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, storageErr(err)
	}

	n.Kind = domain.NotificationKind(kind)
	n.CreatedAt = &createdAt
	if err := json.Unmarshal(payload, &n.Payload); err != nil {
		return nil, storageErr(err)
	}

	return &n, nil
}
