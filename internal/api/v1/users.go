package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskhive/internal/domain"
)

type ListNotificationsInput struct{}

type ListNotificationsOutput struct {
	Body struct {
		Status  bool             `json:"status"`
		Notices []*domain.Notice `json:"notices"`
	}
}

type MarkNotificationReadInput struct {
	IsReadType string    `query:"isReadType" doc:"Mark one notice or all"`
	ID         uuid.UUID `query:"id" doc:"Notice ID when isReadType is one"`
}

type MarkNotificationReadOutput struct {
	Body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

type ListTeamInput struct{}

type ListTeamOutput struct {
	Body struct {
		Status bool           `json:"status"`
		Users  []*domain.User `json:"users"`
	}
}

func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/user/notifications",
		Summary:     "List unread notifications for the current user",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *ListNotificationsInput) (*ListNotificationsOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		notices, err := store.Notices().ListUnread(ctx, actor)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if notices == nil {
			notices = []*domain.Notice{}
		}

		out := &ListNotificationsOutput{}
		out.Body.Status = true
		out.Body.Notices = notices
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "read-notification",
		Method:      http.MethodPut,
		Path:        "/user/read-noti",
		Summary:     "Mark one or all notifications as read",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *MarkNotificationReadInput) (*MarkNotificationReadOutput, error) {
		actor, err := actorFromContext(ctx)
		if err != nil {
			return nil, err
		}

		if input.IsReadType == "all" {
			err = store.Notices().MarkAllRead(ctx, actor)
		} else {
			if input.ID == uuid.Nil {
				return nil, huma.Error400BadRequest("id is required when isReadType is one")
			}
			err = store.Notices().MarkRead(ctx, input.ID, actor)
		}
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		out := &MarkNotificationReadOutput{}
		out.Body.Status = true
		out.Body.Message = "Done"
		return out, nil
	})
}

// RegisterUserAdminRoutes registers the team listing. The server mounts it
// behind the admin gate.
func RegisterUserAdminRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-team",
		Method:      http.MethodGet,
		Path:        "/user/team",
		Summary:     "List all team members",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *ListTeamInput) (*ListTeamOutput, error) {
		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if users == nil {
			users = []*domain.User{}
		}

		out := &ListTeamOutput{}
		out.Body.Status = true
		out.Body.Users = users
		return out, nil
	})
}
