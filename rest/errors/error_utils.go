package errors

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/frame"
	"github.com/milaboratories/clonotype-browser/model"
)

// StatusCode maps an error returned by the application to the http status
// reported to the client.
func StatusCode(err error) int {
	switch cause := errors.Cause(err); cause.(type) {
	case *NotFoundError:
		return http.StatusNotFound
	case *ConflictError:
		return http.StatusConflict
	case *BadRequestError:
		return http.StatusBadRequest
	case *InternalError:
		return http.StatusInternalServerError
	default:
		switch cause {
		case frame.ErrFrameNotFound, frame.ErrColumnNotFound:
			return http.StatusNotFound
		case model.ErrPFrameNotAvailable:
			return http.StatusConflict
		case model.ErrInvalidSelectionKey, model.ErrUnknownMode:
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
