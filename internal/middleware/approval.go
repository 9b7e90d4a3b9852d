package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
)

// RequireApproved gates role routes behind the approval check. The check
// receives the caller's user id and returns an error while the account is
// still pending (or gone).
func RequireApproved(check func(ctx context.Context, userID uuid.UUID) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		if err := check(c.Request.Context(), claims.UserID); err != nil {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("account pending approval"))
			c.Abort()
			return
		}
		c.Next()
	}
}
