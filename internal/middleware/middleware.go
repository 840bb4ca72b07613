// Package middleware provides request logging and session authentication
// for the HTTP layer.
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/auth"
	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

const currentUserKey = "current_user"

// RequestLogger logs request start and completion with a per-request ID.
func RequestLogger() gin.HandlerFunc {
	log := logger.HTTP()

	return func(c *gin.Context) {
		requestID := "req_" + uuid.NewString()
		c.Set("request_id", requestID)

		log.Debug("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		)

		c.Next()

		status := c.Writer.Status()
		logFn := log.Info
		if status >= 500 {
			logFn = log.Error
		} else if status >= 400 {
			logFn = log.Warn
		}

		logFn("Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"size", c.Writer.Size(),
		)
	}
}

// RequireUser rejects requests without a valid session cookie and loads
// the authenticated user into the request context.
func RequireUser(sessions *auth.SessionManager, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessions.ReadCookie(c)
		if token == "" {
			response.UnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			response.UnauthorizedError(c, "Invalid or expired session")
			c.Abort()
			return
		}

		u, err := store.Users().GetByID(userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				response.UnauthorizedError(c, "Invalid or expired session")
			} else {
				response.InternalServerError(c, "Internal server error")
			}
			c.Abort()
			return
		}
		if !u.IsActive {
			response.ForbiddenError(c, common.ErrAccountDisabled.Error())
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user loaded by RequireUser.
func CurrentUser(c *gin.Context) *user.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := value.(*user.User)
	return u
}
