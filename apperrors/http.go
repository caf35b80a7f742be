package apperrors

import "net/http"

// HTTPStatus maps a service error onto the response status code the
// controllers return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsIllegalTransition(err):
		return http.StatusConflict
	case IsCapacityExceeded(err):
		return http.StatusConflict
	case IsGateway(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
