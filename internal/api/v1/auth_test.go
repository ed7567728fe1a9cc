package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/taskhive/internal/api/v1"
	"github.com/gosuda/taskhive/internal/auth"
	"github.com/gosuda/taskhive/internal/domain"
)

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New(), Name: "Amy", Email: "amy@example.com", IsActive: true}

	t.Run("sets_httponly_session_cookie", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, email, password string) (*domain.User, string, error) {
				assert.Equal(t, "amy@example.com", email)
				assert.Equal(t, "hunter2hunter2", password)
				return user, "signed-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc, false)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "amy@example.com",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		cookie := sessionCookieFrom(t, resp)
		require.NotNil(t, cookie, "login must set the token cookie")
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, 24*60*60, cookie.MaxAge, "cookie lives for one day")

		assert.Contains(t, resp.Body.String(), `"status":true`)
		assert.Contains(t, resp.Body.String(), "amy@example.com")
		assert.NotContains(t, resp.Body.String(), "passwordHash")
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*domain.User, string, error) {
				return nil, "", auth.ErrInvalidCredentials
			},
		}
		v1.RegisterAuthRoutes(api, svc, false)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "amy@example.com",
			"password": "wrongwrong",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"status":false,"message":"Invalid email or password."}`, resp.Body.String())
	})

	t.Run("disabled_account", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*domain.User, string, error) {
				return nil, "", auth.ErrAccountDisabled
			},
		}
		v1.RegisterAuthRoutes(api, svc, false)

		resp := api.Post("/auth/login", map[string]any{
			"email":    "amy@example.com",
			"password": "hunter2hunter2",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates_user_and_starts_session", func(t *testing.T) {
		t.Parallel()

		created := &domain.User{ID: uuid.New(), Name: "Amy", Email: "amy@example.com", IsActive: true}

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, email, _, name, title, role string, isAdmin bool) (*domain.User, error) {
				assert.Equal(t, "amy@example.com", email)
				assert.Equal(t, "Amy", name)
				assert.Equal(t, "Engineer", title)
				assert.Equal(t, "developer", role)
				assert.False(t, isAdmin)
				return created, nil
			},
			loginFunc: func(_ context.Context, _, _ string) (*domain.User, string, error) {
				return created, "signed-token", nil
			},
		}
		v1.RegisterAuthRoutes(api, svc, false)

		resp := api.Post("/auth/register", map[string]any{
			"name":     "Amy",
			"title":    "Engineer",
			"role":     "developer",
			"email":    "amy@example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		cookie := sessionCookieFrom(t, resp)
		require.NotNil(t, cookie)
		assert.Equal(t, "signed-token", cookie.Value)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			registerFunc: func(_ context.Context, _, _, _, _, _ string, _ bool) (*domain.User, error) {
				return nil, auth.ErrUserAlreadyExists
			},
		}
		v1.RegisterAuthRoutes(api, svc, false)

		resp := api.Post("/auth/register", map[string]any{
			"name":     "Amy",
			"email":    "amy@example.com",
			"password": "hunter2hunter2",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "User already exists")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	v1.RegisterAuthRoutes(api, &mockAuthService{}, false)

	resp := api.Post("/auth/logout")
	require.Equal(t, http.StatusOK, resp.Code)

	cookie := sessionCookieFrom(t, resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "logout expires the cookie")
}
