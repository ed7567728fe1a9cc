package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskhive/internal/domain"
	"github.com/gosuda/taskhive/internal/notify"
	"github.com/gosuda/taskhive/internal/server/middleware"
	"github.com/gosuda/taskhive/internal/stats"
)

type CreateTaskInput struct {
	Body struct {
		Title    string      `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Team     []uuid.UUID `json:"team" doc:"Assigned user IDs"`
		Stage    string      `json:"stage" minLength:"1" doc:"Task stage"`
		Date     time.Time   `json:"date" doc:"Task date"`
		Priority string      `json:"priority" minLength:"1" doc:"Task priority"`
		Assets   []string    `json:"assets,omitempty" doc:"Attachment URLs"`
	}
}

type CreateTaskOutput struct {
	Body struct {
		Status  bool         `json:"status"`
		Task    *domain.Task `json:"task"`
		Message string       `json:"message"`
	}
}

type DuplicateTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID to duplicate"`
}

type DuplicateTaskOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type PostActivityInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Type     string `json:"type" minLength:"1" doc:"Activity type"`
		Activity string `json:"activity" minLength:"1" doc:"Activity text"`
	}
}

type PostActivityOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type DashboardInput struct{}

type DashboardOutput struct {
	Body struct {
		Status     bool                  `json:"status"`
		Message    string                `json:"message"`
		TotalTasks int                   `json:"totalTasks"`
		Last10Tasks []*domain.Task        `json:"last10Tasks"`
		Users      []*domain.User        `json:"users"`
		Tasks      map[domain.Stage]int  `json:"tasks"`
		GraphData  []stats.PriorityCount `json:"graphData"`
	}
}

type ListTasksInput struct {
	Stage     string `query:"stage" doc:"Filter by stage"`
	IsTrashed bool   `query:"isTrashed" doc:"List trashed tasks instead of active ones"`
}

type ListTasksOutput struct {
	Body struct {
		Status bool           `json:"status"`
		Tasks  []*domain.Task `json:"tasks"`
	}
}

type GetTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body struct {
		Status bool         `json:"status"`
		Task   *domain.Task `json:"task"`
	}
}

type CreateSubTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title string    `json:"title" minLength:"1" maxLength:"500" doc:"Subtask title"`
		Date  time.Time `json:"date" doc:"Subtask date"`
		Tag   string    `json:"tag,omitempty" doc:"Subtask tag"`
	}
}

type CreateSubTaskOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type CompleteSubTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		SubTasks []domain.SubTask `json:"subTasks" doc:"Full replacement checklist"`
	}
}

type CompleteSubTaskOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type UpdateTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Title     string              `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Date      time.Time           `json:"date" doc:"Task date"`
		Team      []uuid.UUID         `json:"team" doc:"Assigned user IDs"`
		Stage     string              `json:"stage" minLength:"1" doc:"Task stage"`
		Priority  string              `json:"priority" minLength:"1" doc:"Task priority"`
		Assets    []string            `json:"assets,omitempty" doc:"Attachment URLs"`
		Submitted []domain.Submission `json:"submitted,omitempty" doc:"Work submissions"`
	}
}

type UpdateTaskOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type TrashTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type TrashTaskOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type DeleteRestoreTaskInput struct {
	ID         uuid.UUID `path:"id" doc:"Task ID"`
	ActionType string    `query:"actionType" required:"true" doc:"One of delete, deleteAll, restore, restoreAll"`
}

type DeleteRestoreAllInput struct {
	ActionType string `query:"actionType" required:"true" doc:"One of deleteAll, restoreAll"`
}

type DeleteRestoreOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

// validActivityTypes is the closed set of activity entries the timeline
// renders.
var validActivityTypes = map[string]bool{
	domain.ActivityTypeAssigned: true,
	"started":                   true,
	"in progress":               true,
	"bug":                       true,
	"completed":                 true,
	"commented":                 true,
}

// actorFromContext resolves the authenticated user set by the auth
// middleware. Handlers are only registered behind it, so a miss means the
// request slipped past authentication.
func actorFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("Not authorized. Try login again.")
	}
	return id, nil
}

func RegisterTaskRoutes(api huma.API, store DataStore, notifier Notifier) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/task",
		Summary:     "Create a task and notify its team",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		stage, err := domain.ParseStage(input.Body.Stage)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown stage: " + input.Body.Stage)
		}
		priority, err := domain.ParsePriority(input.Body.Priority)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown priority: " + input.Body.Priority)
		}

		// The notice text echoes the priority exactly as the client sent
		// it, while the stored row keeps the lower-cased form.
		text, err := notify.ComposeAssignment(len(input.Body.Team), input.Body.Priority, input.Body.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("team must have at least one member")
		}

		now := time.Now()
		t := &domain.Task{
			ID:       uuid.New(),
			Title:    input.Body.Title,
			Date:     input.Body.Date,
			Team:     input.Body.Team,
			Stage:    stage,
			Priority: priority,
			Assets:   input.Body.Assets,
			Activities: []domain.Activity{{
				Type:     domain.ActivityTypeAssigned,
				Activity: text,
				By:       actor,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Tasks().Create(ctx, t); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		// The task row is already committed at this point; a notice
		// failure still fails the whole request.
		if err := notifier.Notify(ctx, t.Team, text, t.ID); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		out := &CreateTaskOutput{}
		out.Body.Status = true
		out.Body.Task = t
		out.Body.Message = "Task created successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "duplicate-task",
		Method:      http.MethodPost,
		Path:        "/task/duplicate/{id}",
		Summary:     "Duplicate a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DuplicateTaskInput) (*DuplicateTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		src, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeError(err, "task not found")
		}

		if len(src.Team) == 0 {
			return nil, huma.Error400BadRequest("task has no assigned team members")
		}

		copied := src.Duplicate()
		now := time.Now()
		copied.CreatedAt = now
		copied.UpdatedAt = now

		if err := store.Tasks().Create(ctx, copied); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		// Stage and priority are stored lower-case, so the composed text
		// reuses them as-is.
		text, err := notify.ComposeAssignment(len(copied.Team), string(copied.Priority), copied.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("task has no assigned team members")
		}

		if err := notifier.Notify(ctx, copied.Team, text, copied.ID); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		out := &DuplicateTaskOutput{}
		out.Body.Status = true
		out.Body.Message = "Task duplicated successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "post-activity",
		Method:      http.MethodPost,
		Path:        "/task/activity/{id}",
		Summary:     "Append an activity to a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *PostActivityInput) (*PostActivityOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if !validActivityTypes[input.Body.Type] {
			return nil, huma.Error400BadRequest("unknown activity type: " + input.Body.Type)
		}

		a := domain.Activity{
			Type:     input.Body.Type,
			Activity: input.Body.Activity,
			By:       actor,
		}
		if err := store.Tasks().AppendActivity(ctx, input.ID, a); err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &PostActivityOutput{}
		out.Body.Status = true
		out.Body.Message = "Activity posted successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-statistics",
		Method:      http.MethodGet,
		Path:        "/task/dashboard",
		Summary:     "Dashboard statistics for the current user",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, _ *DashboardInput) (*DashboardOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}
		isAdmin := middleware.IsAdminFromContext(ctx)

		filter := domain.TaskFilter{Trashed: false}
		if !isAdmin {
			filter.Member = actor
		}

		tasks, err := store.Tasks().List(ctx, filter)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		users := []*domain.User{}
		if isAdmin {
			users, err = store.Users().ListActive(ctx, 10)
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
		}

		out := &DashboardOutput{}
		out.Body.Status = true
		out.Body.Message = "Successfully fetched dashboard statistics"
		out.Body.TotalTasks = len(tasks)
		out.Body.Last10Tasks = stats.FirstN(tasks, 10)
		out.Body.Users = users
		out.Body.Tasks = stats.GroupByStage(tasks)
		out.Body.GraphData = stats.GroupByPriority(tasks)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/task",
		Summary:     "List tasks",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		filter := domain.TaskFilter{Trashed: input.IsTrashed}
		if input.Stage != "" {
			stage, err := domain.ParseStage(input.Stage)
			if err != nil {
				return nil, huma.Error400BadRequest("unknown stage: " + input.Stage)
			}
			filter.Stage = stage
		}
		if !middleware.IsAdminFromContext(ctx) {
			filter.Member = actor
		}

		tasks, err := store.Tasks().List(ctx, filter)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if tasks == nil {
			tasks = []*domain.Task{}
		}

		out := &ListTasksOutput{}
		out.Body.Status = true
		out.Body.Tasks = tasks
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/task/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		t, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &GetTaskOutput{}
		out.Body.Status = true
		out.Body.Task = t
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-subtask",
		Method:      http.MethodPost,
		Path:        "/task/subtask/{id}",
		Summary:     "Append a subtask to a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateSubTaskInput) (*CreateSubTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		st := domain.SubTask{
			Title: input.Body.Title,
			Date:  input.Body.Date,
			Tag:   input.Body.Tag,
		}
		if err := store.Tasks().AppendSubTask(ctx, input.ID, st); err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &CreateSubTaskOutput{}
		out.Body.Status = true
		out.Body.Message = "SubTask added successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-subtask",
		Method:      http.MethodPut,
		Path:        "/task/subtask/complete/{id}",
		Summary:     "Replace the subtask checklist of a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CompleteSubTaskInput) (*CompleteSubTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		if err := store.Tasks().ReplaceSubTasks(ctx, input.ID, input.Body.SubTasks); err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &CompleteSubTaskOutput{}
		out.Body.Status = true
		out.Body.Message = "SubTasks updated successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/task/{id}",
		Summary:     "Update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		stage, err := domain.ParseStage(input.Body.Stage)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown stage: " + input.Body.Stage)
		}
		priority, err := domain.ParsePriority(input.Body.Priority)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown priority: " + input.Body.Priority)
		}

		t := &domain.Task{
			ID:        input.ID,
			Title:     input.Body.Title,
			Date:      input.Body.Date,
			Team:      input.Body.Team,
			Stage:     stage,
			Priority:  priority,
			Assets:    input.Body.Assets,
			Submitted: input.Body.Submitted,
			UpdatedAt: time.Now(),
		}
		if err := store.Tasks().Update(ctx, t); err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &UpdateTaskOutput{}
		out.Body.Status = true
		out.Body.Message = "Task updated successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "trash-task",
		Method:      http.MethodPut,
		Path:        "/task/trash/{id}",
		Summary:     "Move a task to the trash",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TrashTaskInput) (*TrashTaskOutput, error) {
		if _, err := actorFromContext(ctx); err != nil {
			return nil, err
		}

		if err := store.Tasks().SetTrashed(ctx, input.ID, true); err != nil {
			return nil, storeError(err, "task not found")
		}

		out := &TrashTaskOutput{}
		out.Body.Status = true
		out.Body.Message = "Task trashed successfully."
		return out, nil
	})
}

// RegisterTaskAdminRoutes registers the destructive trash operations. The
// server mounts these behind the admin gate.
func RegisterTaskAdminRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-restore-task",
		Method:      http.MethodDelete,
		Path:        "/task/delete-restore/{id}",
		Summary:     "Delete or restore a trashed task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteRestoreTaskInput) (*DeleteRestoreOutput, error) {
		action, err := domain.ParseTrashAction(input.ActionType)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown actionType: " + input.ActionType)
		}

		if err := applyTrashAction(ctx, store, action, input.ID); err != nil {
			return nil, err
		}

		out := &DeleteRestoreOutput{}
		out.Body.Status = true
		out.Body.Message = "Operation performed successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-restore-all-tasks",
		Method:      http.MethodDelete,
		Path:        "/task/delete-restore",
		Summary:     "Delete or restore all trashed tasks",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteRestoreAllInput) (*DeleteRestoreOutput, error) {
		action, err := domain.ParseTrashAction(input.ActionType)
		if err != nil {
			return nil, huma.Error400BadRequest("unknown actionType: " + input.ActionType)
		}
		if action == domain.TrashActionDelete || action == domain.TrashActionRestore {
			return nil, huma.Error400BadRequest("actionType " + input.ActionType + " requires a task id")
		}

		if err := applyTrashAction(ctx, store, action, uuid.Nil); err != nil {
			return nil, err
		}

		out := &DeleteRestoreOutput{}
		out.Body.Status = true
		out.Body.Message = "Operation performed successfully."
		return out, nil
	})
}

func applyTrashAction(ctx context.Context, store DataStore, action domain.TrashAction, id uuid.UUID) error {
	var err error
	switch action {
	case domain.TrashActionDelete:
		err = store.Tasks().Delete(ctx, id)
	case domain.TrashActionDeleteAll:
		err = store.Tasks().DeleteTrashed(ctx)
	case domain.TrashActionRestore:
		err = store.Tasks().SetTrashed(ctx, id, false)
	case domain.TrashActionRestoreAll:
		err = store.Tasks().RestoreTrashed(ctx)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return huma.Error400BadRequest("task not found")
		}
		return huma.Error400BadRequest(err.Error())
	}
	return nil
}
