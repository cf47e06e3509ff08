package handler

import (
	"errors"
	"net/http"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/service"
	"creatorstack/internal/rbac/util"

	"github.com/labstack/echo/v4"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, model.ErrorResponse) {
	var detail *model.ErrorDetail
	if errors.As(err, &detail) {
		return http.StatusBadRequest, model.ErrorResponse{Error: *detail}
	}

	var status int
	msg := err.Error()

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
		msg = "Authentication required"
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrCategoryInUse):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSystemRoleNameLocked),
		errors.Is(err, service.ErrSystemRoleProtected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidPermission),
		errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPersistence):
		status = http.StatusServiceUnavailable
		msg = "Storage temporarily unavailable"
	default:
		status = http.StatusInternalServerError
		msg = "Internal server error"
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: service.ErrorCode(err), Message: msg},
	}
}

func validationError(err error) model.ErrorResponse {
	if e, ok := err.(*model.ErrorDetail); ok {
		return model.ErrorResponse{Error: *e}
	}
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: err.Error()},
	}
}

// errorJSON writes err in the error envelope, stamped with the request id.
func errorJSON(c echo.Context, err error) error {
	code, body := httpError(err)
	body.Error.RequestID = RequestID(c)
	if code >= http.StatusInternalServerError {
		util.GetLogger().Error("request failed", "request_id", body.Error.RequestID, "path", c.Path(), "error", err)
	}
	return c.JSON(code, body)
}

func badBody(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: msg, RequestID: RequestID(c)},
	})
}

func invalid(c echo.Context, err error) error {
	body := validationError(err)
	body.Error.RequestID = RequestID(c)
	return c.JSON(http.StatusBadRequest, body)
}
