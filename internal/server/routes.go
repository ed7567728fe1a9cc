package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/taskhive/internal/api/v1"
	"github.com/gosuda/taskhive/internal/auth"
	"github.com/gosuda/taskhive/internal/notify"
	"github.com/gosuda/taskhive/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service, selfHosted bool) {
	v1.RegisterAuthRoutes(api, authSvc, selfHosted)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, notifier *notify.Notifier) {
	v1.RegisterTaskRoutes(api, store, notifier)
	v1.RegisterUserRoutes(api, store)
}

func registerAdminRoutes(api huma.API, store *postgres.Store) {
	v1.RegisterTaskAdminRoutes(api, store)
	v1.RegisterUserAdminRoutes(api, store)
}
