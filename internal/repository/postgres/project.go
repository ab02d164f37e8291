package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/team-access-service/internal/domain"
)

// ProjectRepository реализует repository.ProjectRepository для PostgreSQL
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создает проект вместе с его командой и записью владельца.
// Команда создается неявно вместе с владеющей сущностью и живет пока жива она
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project, owner *domain.TeamMember) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr(err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ошибка игнорируется: после коммита откат заведомо падает
	}()

	if _, err := tx.Exec(ctx, `INSERT INTO teams (team_id) VALUES ($1)`, project.TeamID); err != nil {
		return storageErr(err)
	}

	query := `
		INSERT INTO projects (project_id, name, team_id, org_id)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, query, project.ProjectID, project.Name, project.TeamID, project.OrgID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return domain.ErrEntityExists
			}
			if pgErr.Code == "23503" { // foreign_key_violation: нет такой организации
				return domain.ErrOrganizationNotFound
			}
		}
		return storageErr(err)
	}

	if err := insertMember(ctx, tx, owner); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrUserNotFound
		}
		return storageErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr(err)
	}

	return nil
}

// GetByID получает проект по ID
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `
		SELECT project_id, name, team_id, org_id
		FROM projects
		WHERE project_id = $1
	`

	var project domain.Project
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&project.ProjectID, &project.Name, &project.TeamID, &project.OrgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, storageErr(err)
	}

	return &project, nil
}
