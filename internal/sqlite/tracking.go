package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/repository"
)

// TrackingRepository stores tracking records in the trackings table
type TrackingRepository struct {
	db *DB
}

// NewTrackingRepository creates a new TrackingRepository
func NewTrackingRepository(db *DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

const selectTracking = `
	SELECT
		id, project_id, tracking_id, call_site, execution_time_ms,
		model, input, output, eval_results, created_at,
		prompt_cost, completion_cost, total_cost,
		prompt_tokens, completion_tokens, total_tokens
	FROM trackings
`

// Insert appends a record and sets rec.ID to the assigned row id
func (r *TrackingRepository) Insert(ctx context.Context, rec *tracking.Record) error {
	evals, err := encodeEvaluations(rec.Evaluations)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trackings (
			project_id, tracking_id, call_site, execution_time_ms,
			model, input, output, eval_results, created_at,
			prompt_cost, completion_cost, total_cost,
			prompt_tokens, completion_tokens, total_tokens
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.ProjectID,
		rec.TrackingID,
		rec.CallSite,
		rec.ExecutionTimeMs,
		rec.Model,
		rec.Input,
		string(rec.Output),
		evals,
		formatTime(rec.CreatedAt),
		rec.Cost.PromptCost,
		rec.Cost.CompletionCost,
		rec.Cost.TotalCost,
		rec.Tokens.PromptTokens,
		rec.Tokens.CompletionTokens,
		rec.Tokens.TotalTokens,
	)
	if err != nil {
		return storageError("insert tracking", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageError("read inserted id", err)
	}
	rec.ID = id
	return nil
}

// UpdateEvaluations replaces the evaluations of the most recently inserted
// row matching all three keys.
func (r *TrackingRepository) UpdateEvaluations(ctx context.Context, projectID, trackingID string, createdAt time.Time, evals []tracking.EvaluationResult) error {
	encoded, err := encodeEvaluations(evals)
	if err != nil {
		return err
	}

	query := `
		UPDATE trackings SET eval_results = ?
		WHERE id = (
			SELECT id FROM trackings
			WHERE project_id = ? AND tracking_id = ? AND created_at = ?
			ORDER BY id DESC
			LIMIT 1
		)
	`

	result, err := r.db.ExecContext(ctx, query, encoded, projectID, trackingID, formatTime(createdAt))
	if err != nil {
		return storageError("update evaluations", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("read affected rows", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListProjects returns the distinct project ids, sorted
func (r *TrackingRepository) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT project_id FROM trackings ORDER BY project_id`)
	if err != nil {
		return nil, storageError("list projects", err)
	}
	defer rows.Close()

	projects := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageError("scan project id", err)
		}
		projects = append(projects, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate projects", err)
	}
	return projects, nil
}

// GetLatest returns the newest record for a tracking id. Rows sharing a
// timestamp are ordered by insertion.
func (r *TrackingRepository) GetLatest(ctx context.Context, projectID, trackingID string) (*tracking.Record, error) {
	query := selectTracking + `
		WHERE project_id = ? AND tracking_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, projectID, trackingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, storageError("get tracking", err)
	}
	return rec, nil
}

// ListByProject returns all records of a project in chronological order
func (r *TrackingRepository) ListByProject(ctx context.Context, projectID string) ([]tracking.Record, error) {
	query := selectTracking + `
		WHERE project_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, storageError("list trackings", err)
	}
	defer rows.Close()

	records := []tracking.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageError("scan tracking", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate trackings", err)
	}
	return records, nil
}

// DeleteProject removes every record of a project and reports how many
// rows were removed
func (r *TrackingRepository) DeleteProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trackings WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, storageError("delete project", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storageError("read affected rows", err)
	}
	return n, nil
}

// DeleteTracking removes every record of one tracking id within a project
func (r *TrackingRepository) DeleteTracking(ctx context.Context, projectID, trackingID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trackings WHERE project_id = ? AND tracking_id = ?`, projectID, trackingID)
	if err != nil {
		return 0, storageError("delete tracking", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storageError("read affected rows", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*tracking.Record, error) {
	var (
		rec       tracking.Record
		output    string
		evals     string
		createdAt string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ProjectID,
		&rec.TrackingID,
		&rec.CallSite,
		&rec.ExecutionTimeMs,
		&rec.Model,
		&rec.Input,
		&output,
		&evals,
		&createdAt,
		&rec.Cost.PromptCost,
		&rec.Cost.CompletionCost,
		&rec.Cost.TotalCost,
		&rec.Tokens.PromptTokens,
		&rec.Tokens.CompletionTokens,
		&rec.Tokens.TotalTokens,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("%w: invalid created_at %q: %w", repository.ErrSchema, createdAt, err)
	}
	if !json.Valid([]byte(output)) {
		return nil, fmt.Errorf("%w: tracking %d has invalid output JSON", repository.ErrSchema, rec.ID)
	}
	rec.Output = json.RawMessage(output)
	if err := json.Unmarshal([]byte(evals), &rec.Evaluations); err != nil {
		return nil, fmt.Errorf("%w: tracking %d has invalid eval_results: %w", repository.ErrSchema, rec.ID, err)
	}
	if rec.Evaluations == nil {
		rec.Evaluations = []tracking.EvaluationResult{}
	}
	return &rec, nil
}

func encodeEvaluations(evals []tracking.EvaluationResult) (string, error) {
	if evals == nil {
		evals = []tracking.EvaluationResult{}
	}
	data, err := json.Marshal(evals)
	if err != nil {
		return "", fmt.Errorf("failed to encode evaluations: %w", err)
	}
	return string(data), nil
}
