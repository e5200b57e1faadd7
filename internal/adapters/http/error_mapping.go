package httpadapter

import (
	"errors"
	"net/http"

	"github.com/rfp-optimize/platform/internal/auth"
	"github.com/rfp-optimize/platform/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCreds):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrRFPNotFound), domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrConflict), errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
