package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
)

// HandleError maps a core service error to an HTTP response. Kind
// classification is mechanical: the core does the judgment call once,
// at the point of failure, and this switch never re-derives it from
// message text.
func HandleError(w http.ResponseWriter, err error) {
	var domainErr *attendance.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case attendance.KindNotFound:
			NotFound(w, domainErr.Message)
		case attendance.KindForbidden:
			Forbidden(w, domainErr.Message)
		case attendance.KindConflict:
			Conflict(w, domainErr.Message)
		case attendance.KindBadRequest:
			BadRequest(w, domainErr.Message)
		case attendance.KindPreconditionFailed:
			// Aliased to 500 pending a dedicated precondition-failed
			// status; see the design notes on this kind.
			InternalServerError(w, domainErr.Message)
		default:
			InternalServerError(w, "an unexpected error occurred")
		}
		return
	}

	InternalServerError(w, "an unexpected error occurred")
}
