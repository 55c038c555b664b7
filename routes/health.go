package routes

import (
	"net/http"
	"time"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterHealthRoutes reports liveness and whether the database answers.
func RegisterHealthRoutes(group *gin.RouterGroup, db *database.Database) {
	group.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			zap.L().Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unavailable",
				"database": "down",
				"time":     time.Now().UTC(),
			})
			return
		}

		var pending int64
		db.DB.Model(&models.Event{}).Where("dispatched = ?", false).Count(&pending)

		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"database":       "up",
			"pending_events": pending,
			"time":           time.Now().UTC(),
		})
	})
}
