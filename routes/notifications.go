package routes

import (
	"net/http"
	"strconv"

	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(group *gin.RouterGroup, db *database.Database, notificationService services.NotificationServiceInterface) {
	group.GET("/notifications", func(c *gin.Context) { GetNotifications(c, db, notificationService) })
	group.GET("/notifications/unread-count", func(c *gin.Context) { CountUnread(c, db, notificationService) })
	group.POST("/notifications/read-all", func(c *gin.Context) { MarkAllRead(c, db, notificationService) })
	group.POST("/notifications/:id/read", middleware.RequireUUIDParams("id"), func(c *gin.Context) { MarkRead(c, db, notificationService) })
	group.DELETE("/notifications/:id", middleware.RequireUUIDParams("id"), func(c *gin.Context) { DeleteNotification(c, db, notificationService) })
}

func GetNotifications(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	unreadOnly := false
	if value := c.Query("unread"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			apierror.BadRequest(c, "Invalid filter", map[string]string{"unread": "must be a boolean"})
			return
		}
		unreadOnly = parsed
	}

	notifications, err := notificationService.GetNotifications(db, userID, unreadOnly)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func CountUnread(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := notificationService.CountUnread(db, userID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func MarkRead(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := notificationService.MarkRead(db, userID, notificationID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func MarkAllRead(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := notificationService.MarkAllRead(db, userID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func DeleteNotification(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := notificationService.DeleteNotification(db, userID, notificationID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
