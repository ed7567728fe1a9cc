package v1

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskhive/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tasks() domain.TaskRepository
	Users() domain.UserRepository
	Notices() domain.NoticeRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name, title, role string, isAdmin bool) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	TokenTTL() time.Duration
}

// Notifier abstracts the notice fan-out for handler testing.
// *notify.Notifier satisfies this interface.
type Notifier interface {
	Notify(ctx context.Context, team []uuid.UUID, text string, taskID uuid.UUID) error
}
