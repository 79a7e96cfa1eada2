package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/template"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	query := `INSERT INTO message_templates (name, content) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRow(ctx, query, t.Name, t.Content).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id int64) (*template.Template, error) {
	var t template.Template
	err := r.db.QueryRow(ctx, `SELECT id, name, content FROM message_templates WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.Content)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return &t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]template.Template, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, content FROM message_templates ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []template.Template{}
	for rows.Next() {
		var t template.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Content); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM message_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
