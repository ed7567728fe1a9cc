package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskhive/internal/domain"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

const taskColumns = `id, title, date, team, stage, priority, assets, sub_tasks, activities, submitted, is_trashed, created_at, updated_at`

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	subTasks, activities, submitted, err := marshalCollections(t)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO tasks (id, title, date, team, stage, priority, assets, sub_tasks, activities, submitted, is_trashed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.Title, t.Date, t.Team, t.Stage, t.Priority, t.Assets,
		subTasks, activities, submitted,
		t.IsTrashed, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE is_trashed = $1`
	args := []any{filter.Trashed}

	if filter.Stage != "" {
		args = append(args, filter.Stage)
		query += ` AND stage = $` + strconv.Itoa(len(args))
	}
	if filter.Member != uuid.Nil {
		args = append(args, filter.Member)
		query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(team)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("taskRepo.List: scan: %w", scanErr)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taskRepo.List: rows: %w", err)
	}

	return tasks, nil
}

// Update overwrites the caller-editable field list. Activities are never
// touched here; they only grow through AppendActivity.
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	submitted, err := json.Marshal(emptyIfNilSubmissions(t.Submitted))
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, date = $2, team = $3, stage = $4, priority = $5,
		        assets = $6, submitted = $7, updated_at = now()
		 WHERE id = $8`,
		t.Title, t.Date, t.Team, t.Stage, t.Priority, t.Assets, submitted, t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// AppendActivity concatenates one entry onto the activities array in a
// single statement, so concurrent appends interleave instead of losing
// entries to a read-modify-write race.
func (r *TaskRepo) AppendActivity(ctx context.Context, id uuid.UUID, a domain.Activity) error {
	entry, err := json.Marshal([]domain.Activity{a})
	if err != nil {
		return fmt.Errorf("taskRepo.AppendActivity: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET activities = activities || $1::jsonb, updated_at = now() WHERE id = $2`,
		entry, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.AppendActivity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.AppendActivity: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) AppendSubTask(ctx context.Context, id uuid.UUID, st domain.SubTask) error {
	entry, err := json.Marshal([]domain.SubTask{st})
	if err != nil {
		return fmt.Errorf("taskRepo.AppendSubTask: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET sub_tasks = sub_tasks || $1::jsonb, updated_at = now() WHERE id = $2`,
		entry, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.AppendSubTask: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.AppendSubTask: %w", domain.ErrNotFound)
	}

	return nil
}

// ReplaceSubTasks is a full overwrite: the caller resends the whole set.
func (r *TaskRepo) ReplaceSubTasks(ctx context.Context, id uuid.UUID, subTasks []domain.SubTask) error {
	if subTasks == nil {
		subTasks = []domain.SubTask{}
	}
	encoded, err := json.Marshal(subTasks)
	if err != nil {
		return fmt.Errorf("taskRepo.ReplaceSubTasks: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET sub_tasks = $1, updated_at = now() WHERE id = $2`,
		encoded, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.ReplaceSubTasks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.ReplaceSubTasks: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET is_trashed = $1, updated_at = now() WHERE id = $2`,
		trashed, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.SetTrashed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.SetTrashed: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// DeleteTrashed removes every soft-deleted row. Matching zero rows is fine.
func (r *TaskRepo) DeleteTrashed(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE is_trashed`); err != nil {
		return fmt.Errorf("taskRepo.DeleteTrashed: %w", err)
	}
	return nil
}

func (r *TaskRepo) RestoreTrashed(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `UPDATE tasks SET is_trashed = false, updated_at = now() WHERE is_trashed`); err != nil {
		return fmt.Errorf("taskRepo.RestoreTrashed: %w", err)
	}
	return nil
}

func marshalCollections(t *domain.Task) (subTasks, activities, submitted []byte, err error) {
	st := t.SubTasks
	if st == nil {
		st = []domain.SubTask{}
	}
	subTasks, err = json.Marshal(st)
	if err != nil {
		return nil, nil, nil, err
	}

	acts := t.Activities
	if acts == nil {
		acts = []domain.Activity{}
	}
	activities, err = json.Marshal(acts)
	if err != nil {
		return nil, nil, nil, err
	}

	submitted, err = json.Marshal(emptyIfNilSubmissions(t.Submitted))
	if err != nil {
		return nil, nil, nil, err
	}

	return subTasks, activities, submitted, nil
}

func emptyIfNilSubmissions(s []domain.Submission) []domain.Submission {
	if s == nil {
		return []domain.Submission{}
	}
	return s
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t          domain.Task
		subTasks   []byte
		activities []byte
		submitted  []byte
	)

	err := row.Scan(
		&t.ID, &t.Title, &t.Date, &t.Team, &t.Stage, &t.Priority, &t.Assets,
		&subTasks, &activities, &submitted,
		&t.IsTrashed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subTasks, &t.SubTasks); err != nil {
		return nil, fmt.Errorf("decoding sub_tasks: %w", err)
	}
	if err := json.Unmarshal(activities, &t.Activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	if err := json.Unmarshal(submitted, &t.Submitted); err != nil {
		return nil, fmt.Errorf("decoding submitted: %w", err)
	}

	return &t, nil
}
