package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/team-access-service/internal/domain"
)

// OrganizationRepository реализует repository.OrganizationRepository для PostgreSQL
type OrganizationRepository struct {
	db *pgxpool.Pool
}

// NewOrganizationRepository создает новый экземпляр OrganizationRepository
func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create создает организацию вместе с ее командой и записью владельца
func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization, owner *domain.TeamMember) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `INSERT INTO teams (team_id) VALUES ($1)`, org.TeamID); err != nil {
		return storageErr(err)
	}

	query := `
		INSERT INTO organizations (org_id, name, team_id)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, query, org.OrgID, org.Name, org.TeamID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrEntityExists
		}
		return storageErr(err)
	}

	if err := insertMember(ctx, tx, owner); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return domain.ErrUserNotFound
		}
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}

	return nil
}

// GetByID получает организацию по ID
func (r *OrganizationRepository) GetByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	query := `
		SELECT org_id, name, team_id
		FROM organizations
		WHERE org_id = $1
	`

	var org domain.Organization
	err := r.db.QueryRow(ctx, query, orgID).Scan(&org.OrgID, &org.Name, &org.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, storageErr(err)
	}

	return &org, nil
}
