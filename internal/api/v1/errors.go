package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskhive/internal/domain"
)

// ErrorModel is the failure envelope every endpoint shares: a literal
// status:false plus a human-readable message. Installed as huma's error
// constructor so validation failures use the same shape.
type ErrorModel struct {
	code    int
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func (e *ErrorModel) Error() string { return e.Message }

func (e *ErrorModel) GetStatus() int { return e.code }

// ContentType keeps error responses as plain application/json instead of
// huma's default problem+json.
func (e *ErrorModel) ContentType(string) string { return "application/json" }

func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		if len(errs) > 0 && message == "" {
			message = errs[0].Error()
		}
		return &ErrorModel{code: status, Message: message}
	}
}

// storeError maps repository failures to the client-visible envelope.
// Missing rows get their own message; any other store failure is
// forwarded to the client as-is.
func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error400BadRequest(notFoundMsg)
	}
	return huma.Error400BadRequest(err.Error())
}
