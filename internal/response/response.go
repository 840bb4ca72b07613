package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/logger"
)

// Response is the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the envelope for error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// SuccessResponse sends a success envelope.
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage sends an error envelope with a custom message.
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequestError sends a 400 error.
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError sends a 404 error.
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError sends a 500 error.
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// UnauthorizedError sends a 401 error.
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

// ForbiddenError sends a 403 error.
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}

// ConflictError sends a 409 error.
func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

// DomainError maps a domain error to its HTTP status. Handlers call this
// for any error a service returns; unknown errors become a 500 with the
// cause logged and hidden from the client.
func DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		NotFoundError(c, "Resource not found")
	case errors.Is(err, common.ErrAccessDenied):
		ForbiddenError(c, "Access denied")
	case errors.Is(err, common.ErrForbidden):
		ForbiddenError(c, "You do not have permission to perform this action")
	case errors.Is(err, common.ErrInvalidCredentials):
		UnauthorizedError(c, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrAccountDisabled):
		ForbiddenError(c, common.ErrAccountDisabled.Error())
	case errors.Is(err, common.ErrAlreadyMember),
		errors.Is(err, common.ErrAlreadySupported),
		errors.Is(err, common.ErrUsernameTaken),
		errors.Is(err, common.ErrEmailTaken):
		ConflictError(c, err.Error())
	case errors.Is(err, common.ErrNotMember),
		errors.Is(err, common.ErrOwnerCannotLeave),
		errors.Is(err, common.ErrInvalidInvitation),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, common.ErrValidation):
		BadRequestError(c, err.Error())
	default:
		logger.HTTP().Error("Unhandled error", "error", err, "path", c.FullPath())
		InternalServerError(c, "Internal server error")
	}
}
