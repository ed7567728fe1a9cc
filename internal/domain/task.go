package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageTodo       Stage = "todo"
	StageInProgress Stage = "in-progress"
	StageCompleted  Stage = "completed"
)

// ParseStage normalizes a caller-supplied stage to its stored lower-case
// form. Input casing is never persisted.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	switch stage {
	case StageTodo, StageInProgress, StageCompleted:
		return stage, nil
	}
	return "", fmt.Errorf("unknown stage %q: %w", s, ErrValidation)
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes a caller-supplied priority to its stored
// lower-case form.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityNormal, PriorityLow:
		return priority, nil
	}
	return "", fmt.Errorf("unknown priority %q: %w", s, ErrValidation)
}

// TrashAction is the closed set of bulk delete/restore operations. An
// unrecognized action is a validation error, never a silent no-op.
type TrashAction string

const (
	TrashActionDelete     TrashAction = "delete"
	TrashActionDeleteAll  TrashAction = "deleteAll"
	TrashActionRestore    TrashAction = "restore"
	TrashActionRestoreAll TrashAction = "restoreAll"
)

func ParseTrashAction(s string) (TrashAction, error) {
	action := TrashAction(s)
	switch action {
	case TrashActionDelete, TrashActionDeleteAll, TrashActionRestore, TrashActionRestoreAll:
		return action, nil
	}
	return "", fmt.Errorf("unknown actionType %q: %w", s, ErrValidation)
}

// Activity is one entry of a task's append-only audit trail.
type Activity struct {
	Type     string    `json:"type"`
	Activity string    `json:"activity"`
	By       uuid.UUID `json:"by"`
}

const ActivityTypeAssigned = "assigned"

// SubTask is a checklist item nested under a task.
type SubTask struct {
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Tag       string    `json:"tag"`
	Completed bool      `json:"completed"`
}

// Submission is a work-product upload attached by a team member.
type Submission struct {
	URLs []string  `json:"urls"`
	By   uuid.UUID `json:"by"`
}

type Task struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Date       time.Time    `json:"date"`
	Team       []uuid.UUID  `json:"team"`
	Stage      Stage        `json:"stage"`
	Priority   Priority     `json:"priority"`
	Assets     []string     `json:"assets"`
	SubTasks   []SubTask    `json:"subTasks"`
	Activities []Activity   `json:"activities"`
	Submitted  []Submission `json:"submitted"`
	IsTrashed  bool         `json:"isTrashed"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Duplicate returns a copy of t with a fresh identity and the duplicate
// title suffix. All other fields are carried over verbatim; stage and
// priority are already stored lower-case and are not re-normalized.
func (t *Task) Duplicate() *Task {
	copied := *t
	copied.ID = uuid.New()
	copied.Title = t.Title + " - Duplicate"
	copied.Team = append([]uuid.UUID(nil), t.Team...)
	copied.Assets = append([]string(nil), t.Assets...)
	copied.SubTasks = append([]SubTask(nil), t.SubTasks...)
	copied.Activities = append([]Activity(nil), t.Activities...)
	copied.Submitted = append([]Submission(nil), t.Submitted...)
	return &copied
}

// TaskFilter narrows List results. Stage and Member are optional; the
// zero value matches everything with the given trashed flag.
type TaskFilter struct {
	Trashed bool
	Stage   Stage
	Member  uuid.UUID
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)
	// Update overwrites the caller-editable fields (title, date, team,
	// stage, priority, assets, submitted). It is not a partial patch.
	Update(ctx context.Context, t *Task) error
	// AppendActivity and AppendSubTask are single-statement appends so
	// concurrent mutations cannot lose entries.
	AppendActivity(ctx context.Context, id uuid.UUID, a Activity) error
	AppendSubTask(ctx context.Context, id uuid.UUID, st SubTask) error
	ReplaceSubTasks(ctx context.Context, id uuid.UUID, subTasks []SubTask) error
	SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteTrashed(ctx context.Context) error
	RestoreTrashed(ctx context.Context) error
}
