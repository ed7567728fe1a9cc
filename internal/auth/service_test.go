package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskhive/internal/auth"
	"github.com/gosuda/taskhive/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context) ([]*domain.User, error)
	listActiveFunc func(ctx context.Context, limit int) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFunc(ctx)
}

func (m *mockUserRepo) ListActive(ctx context.Context, limit int) ([]*domain.User, error) {
	return m.listActiveFunc(ctx, limit)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates_user_with_hashed_password", func(t *testing.T) {
		t.Parallel()

		var created *domain.User
		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, fmt.Errorf("getByEmail: %w", domain.ErrNotFound)
			},
			createFunc: func(_ context.Context, u *domain.User) error {
				created = u
				return nil
			},
		}
		svc := auth.NewService(repo, testSecret, 24*time.Hour)

		user, err := svc.Register(context.Background(), "amy@example.com", "hunter2hunter2", "Amy", "Engineer", "developer", false)
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "amy@example.com", user.Email)
		assert.Equal(t, "Amy", user.Name)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotContains(t, user.PasswordHash, "hunter2hunter2")
	})

	t.Run("duplicate_email_rejected", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return &domain.User{ID: uuid.New()}, nil
			},
		}
		svc := auth.NewService(repo, testSecret, 24*time.Hour)

		_, err := svc.Register(context.Background(), "amy@example.com", "hunter2hunter2", "Amy", "", "", false)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	registered := func(t *testing.T, password string, active bool) (*auth.Service, *domain.User) {
		t.Helper()

		var stored *domain.User
		repo := &mockUserRepo{
			getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
				if stored != nil && stored.Email == email {
					return stored, nil
				}
				return nil, fmt.Errorf("getByEmail: %w", domain.ErrNotFound)
			},
			createFunc: func(_ context.Context, u *domain.User) error {
				stored = u
				return nil
			},
		}
		svc := auth.NewService(repo, testSecret, 24*time.Hour)

		user, err := svc.Register(context.Background(), "amy@example.com", password, "Amy", "", "", false)
		require.NoError(t, err)
		user.IsActive = active
		return svc, user
	}

	t.Run("valid_credentials_issue_token", func(t *testing.T) {
		t.Parallel()

		svc, registeredUser := registered(t, "hunter2hunter2", true)

		user, token, err := svc.Login(context.Background(), "amy@example.com", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, registeredUser.ID, user.ID)
		require.NotEmpty(t, token)

		claims, err := auth.ValidateToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		t.Parallel()

		svc, _ := registered(t, "hunter2hunter2", true)

		_, _, err := svc.Login(context.Background(), "amy@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown_email", func(t *testing.T) {
		t.Parallel()

		svc, _ := registered(t, "hunter2hunter2", true)

		_, _, err := svc.Login(context.Background(), "bob@example.com", "hunter2hunter2")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("disabled_account", func(t *testing.T) {
		t.Parallel()

		svc, _ := registered(t, "hunter2hunter2", false)

		_, _, err := svc.Login(context.Background(), "amy@example.com", "hunter2hunter2")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})
}
