package v1_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskhive/internal/domain"
	"github.com/gosuda/taskhive/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the authenticated user into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserEmail, "user@example.com")
	ctx = context.WithValue(ctx, middleware.ContextKeyIsAdmin, false)
	return ctx
}

func adminCtx(userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserEmail, "admin@example.com")
	ctx = context.WithValue(ctx, middleware.ContextKeyIsAdmin, true)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tasks   domain.TaskRepository
	users   domain.UserRepository
	notices domain.NoticeRepository
}

func (m *mockDataStore) Tasks() domain.TaskRepository     { return m.tasks }
func (m *mockDataStore) Users() domain.UserRepository     { return m.users }
func (m *mockDataStore) Notices() domain.NoticeRepository { return m.notices }

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type mockTaskRepo struct {
	createFunc          func(ctx context.Context, t *domain.Task) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	listFunc            func(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	updateFunc          func(ctx context.Context, t *domain.Task) error
	appendActivityFunc  func(ctx context.Context, id uuid.UUID, a domain.Activity) error
	appendSubTaskFunc   func(ctx context.Context, id uuid.UUID, st domain.SubTask) error
	replaceSubTasksFunc func(ctx context.Context, id uuid.UUID, subTasks []domain.SubTask) error
	setTrashedFunc      func(ctx context.Context, id uuid.UUID, trashed bool) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	deleteTrashedFunc   func(ctx context.Context) error
	restoreTrashedFunc  func(ctx context.Context) error
}

func (m *mockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.createFunc(ctx, t)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTaskRepo) AppendActivity(ctx context.Context, id uuid.UUID, a domain.Activity) error {
	return m.appendActivityFunc(ctx, id, a)
}

func (m *mockTaskRepo) AppendSubTask(ctx context.Context, id uuid.UUID, st domain.SubTask) error {
	return m.appendSubTaskFunc(ctx, id, st)
}

func (m *mockTaskRepo) ReplaceSubTasks(ctx context.Context, id uuid.UUID, subTasks []domain.SubTask) error {
	return m.replaceSubTasksFunc(ctx, id, subTasks)
}

func (m *mockTaskRepo) SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error {
	return m.setTrashedFunc(ctx, id, trashed)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockTaskRepo) DeleteTrashed(ctx context.Context) error {
	return m.deleteTrashedFunc(ctx)
}

func (m *mockTaskRepo) RestoreTrashed(ctx context.Context) error {
	return m.restoreTrashedFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

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

// ---------------------------------------------------------------------------
// Mock NoticeRepository
// ---------------------------------------------------------------------------

type mockNoticeRepo struct {
	createFunc      func(ctx context.Context, n *domain.Notice) error
	listUnreadFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.Notice, error)
	markReadFunc    func(ctx context.Context, noticeID, userID uuid.UUID) error
	markAllReadFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockNoticeRepo) Create(ctx context.Context, n *domain.Notice) error {
	return m.createFunc(ctx, n)
}

func (m *mockNoticeRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notice, error) {
	return m.listUnreadFunc(ctx, userID)
}

func (m *mockNoticeRepo) MarkRead(ctx context.Context, noticeID, userID uuid.UUID) error {
	return m.markReadFunc(ctx, noticeID, userID)
}

func (m *mockNoticeRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.markAllReadFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock Notifier
// ---------------------------------------------------------------------------

type mockNotifier struct {
	notifyFunc func(ctx context.Context, team []uuid.UUID, text string, taskID uuid.UUID) error
}

func (m *mockNotifier) Notify(ctx context.Context, team []uuid.UUID, text string, taskID uuid.UUID) error {
	return m.notifyFunc(ctx, team, text, taskID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc func(ctx context.Context, email, password, name, title, role string, isAdmin bool) (*domain.User, error)
	loginFunc    func(ctx context.Context, email, password string) (*domain.User, string, error)
	tokenTTL     time.Duration
}

func (m *mockAuthService) Register(ctx context.Context, email, password, name, title, role string, isAdmin bool) (*domain.User, error) {
	return m.registerFunc(ctx, email, password, name, title, role, isAdmin)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) TokenTTL() time.Duration {
	if m.tokenTTL == 0 {
		return 24 * time.Hour
	}
	return m.tokenTTL
}
