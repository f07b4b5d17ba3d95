package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nxtlevel/rent_ledger_app/internal/apperrors"
	portsrepo "github.com/nxtlevel/rent_ledger_app/internal/core/ports/repositories"
)

// RequireAdmin gates a route group to admin and super-admin users. The role
// is resolved from the user directory rather than token claims, so a role
// change takes effect without reissuing tokens.
func RequireAdmin(directory portsrepo.DirectoryReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := directory.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Admin access required"})
				return
			}
			logger.Error("Failed to resolve user role", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !user.Role.IsAdmin() {
			logger.Warn("Non-admin attempted admin route", "role", string(user.Role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Admin access required"})
			return
		}

		c.Next()
	}
}
