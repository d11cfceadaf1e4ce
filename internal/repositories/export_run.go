package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

var _ models.Repository[*models.ExportRun] = (*ExportRunRepository)(nil)

// ExportRunRepository implements models.Repository[*models.ExportRun].
type ExportRunRepository struct {
	db *sql.DB
}

// NewExportRunRepository creates a new ExportRunRepository with the given database connection
func NewExportRunRepository(db *sql.DB) *ExportRunRepository {
	return &ExportRunRepository{db: db}
}

// Create inserts a new export run with a generated ID
func (r *ExportRunRepository) Create(run *models.ExportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	run.SetID(shared.GenerateID())

	query := `
		INSERT INTO export_runs (id, user_id, format, output_dir, countries, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, run.ID(), run.UserID, run.Format, run.OutputDir, run.Countries, run.Failed, run.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert export run: %w", err)
	}
	return nil
}

// Get retrieves an export run by ID
func (r *ExportRunRepository) Get(id string) (*models.ExportRun, error) {
	query := `
		SELECT id, user_id, format, output_dir, countries, failed, created_at
		FROM export_runs
		WHERE id = ?
	`

	run, err := scanExportRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query export run: %w", err)
	}
	return run, nil
}

// List retrieves export runs, newest first, optionally filtered by "user_id"
func (r *ExportRunRepository) List(criteria map[string]any) ([]*models.ExportRun, error) {
	query := `
		SELECT id, user_id, format, output_dir, countries, failed, created_at
		FROM export_runs
		WHERE 1 = 1
	`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ExportRun
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExportRun(s scanner) (*models.ExportRun, error) {
	var (
		id        string
		createdAt time.Time
		run       models.ExportRun
	)

	if err := s.Scan(&id, &run.UserID, &run.Format, &run.OutputDir, &run.Countries, &run.Failed, &createdAt); err != nil {
		return nil, err
	}
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	return &run, nil
}
