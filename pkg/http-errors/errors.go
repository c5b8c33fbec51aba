package httperrors

import (
	"errors"
	"net/http"

	dErrors "docport/pkg/domain-errors"
)

// ToHTTPStatus maps a domain error code to an HTTP status code.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StatusFor resolves the HTTP status for any error. Non-domain errors map to 500.
func StatusFor(err error) int {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return ToHTTPStatus(de.Code)
	}
	return http.StatusInternalServerError
}

// CodeFor resolves the stable error code string for any error.
func CodeFor(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}
