package middleware

import (
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireUUIDParams rejects the request unless every named path parameter is
// a UUID. Parsed values are stored in the context under the parameter name.
func RequireUUIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := uuid.Parse(c.Param(name))
			if err != nil {
				apierror.BadRequest(c, "Invalid "+name, map[string]string{name: "must be a valid UUID"})
				return
			}
			c.Set(name, id)
		}
		c.Next()
	}
}
