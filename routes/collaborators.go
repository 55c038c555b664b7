package routes

import (
	"net/http"

	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
)

type permissionRequest struct {
	CanEdit *bool `json:"can_edit" binding:"required"`
}

func RegisterCollaboratorRoutes(group *gin.RouterGroup, db *database.Database, collaboratorService services.CollaboratorServiceInterface) {
	group.GET("/tasks/:id/collaborators", middleware.RequireUUIDParams("id"),
		func(c *gin.Context) { ListCollaborators(c, db, collaboratorService) })
	group.PATCH("/tasks/:id/collaborators/:userId", middleware.RequireUUIDParams("id", "userId"),
		func(c *gin.Context) { UpdateCollaboratorPermission(c, db, collaboratorService) })
	group.DELETE("/tasks/:id/collaborators/:userId", middleware.RequireUUIDParams("id", "userId"),
		func(c *gin.Context) { RemoveCollaborator(c, db, collaboratorService) })
}

func ListCollaborators(c *gin.Context, db *database.Database, collaboratorService services.CollaboratorServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	collaborators, err := collaboratorService.ListCollaborators(db, userID, taskID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborators)
}

func UpdateCollaboratorPermission(c *gin.Context, db *database.Database, collaboratorService services.CollaboratorServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var request permissionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, "Invalid input", map[string]string{"can_edit": "is required"})
		return
	}

	collaborator, err := collaboratorService.UpdateCollaboratorPermission(db, userID, taskID, targetID, *request.CanEdit)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, collaborator)
}

func RemoveCollaborator(c *gin.Context, db *database.Database, collaboratorService services.CollaboratorServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := collaboratorService.RemoveCollaborator(db, userID, taskID, targetID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
