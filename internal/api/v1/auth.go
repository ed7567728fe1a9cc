package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskhive/internal/auth"
	"github.com/gosuda/taskhive/internal/domain"
	"github.com/gosuda/taskhive/internal/server/middleware"
)

type RegisterInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Title    string `json:"title,omitempty" maxLength:"255" doc:"Job title"`
		Role     string `json:"role,omitempty" maxLength:"255" doc:"Team role"`
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		IsAdmin  bool   `json:"isAdmin,omitempty" doc:"Grant admin rights"`
	}
}

type RegisterOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Status  bool         `json:"status"`
		User    *domain.User `json:"user"`
		Message string       `json:"message"`
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Status  bool         `json:"status"`
		User    *domain.User `json:"user"`
		Message string       `json:"message"`
	}
}

type LogoutInput struct{}

type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
}

// sessionCookie builds the httpOnly auth cookie. Cross-site cookies need
// SameSite=None plus Secure, which self-hosted plain-HTTP deployments
// cannot satisfy, so those fall back to Lax.
func sessionCookie(token string, maxAge int, selfHosted bool) http.Cookie {
	c := http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if selfHosted {
		c.SameSite = http.SameSiteLaxMode
	} else {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
	}
	return c
}

func RegisterAuthRoutes(api huma.API, authSvc AuthService, selfHosted bool) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password,
			input.Body.Name, input.Body.Title, input.Body.Role, input.Body.IsAdmin)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error400BadRequest("User already exists")
			}
			return nil, huma.Error400BadRequest(err.Error())
		}

		_, token, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		out := &RegisterOutput{
			SetCookie: sessionCookie(token, int(authSvc.TokenTTL().Seconds()), selfHosted),
		}
		out.Body.Status = true
		out.Body.User = user
		out.Body.Message = "User registered successfully."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		user, token, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrAccountDisabled) {
				return nil, huma.Error401Unauthorized("User account has been deactivated, contact the administrator")
			}
			return nil, huma.Error400BadRequest("Invalid email or password.")
		}

		out := &LoginOutput{
			SetCookie: sessionCookie(token, int(authSvc.TokenTTL().Seconds()), selfHosted),
		}
		out.Body.Status = true
		out.Body.User = user
		out.Body.Message = "Login successful."
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Clear the session cookie",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, _ *LogoutInput) (*LogoutOutput, error) {
		out := &LogoutOutput{
			SetCookie: sessionCookie("", -1, selfHosted),
		}
		out.Body.Status = true
		out.Body.Message = "Logout successful."
		return out, nil
	})
}
