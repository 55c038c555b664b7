package middleware

import (
	"net/http"

	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"
	"focuslist/focuslist/utils/token"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			apierror.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			apierror.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		// Store user info in the context for later use
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
