package routes

import (
	"net/http"

	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
)

type createInviteRequest struct {
	CanEdit bool `json:"can_edit"`
}

// RegisterPublicInviteRoutes exposes invite previews to visitors without an account.
func RegisterPublicInviteRoutes(group *gin.RouterGroup, db *database.Database, inviteService services.InviteServiceInterface) {
	group.GET("/invites/:token", func(c *gin.Context) { ValidateInvite(c, db, inviteService) })
}

func RegisterInviteRoutes(group *gin.RouterGroup, db *database.Database, inviteService services.InviteServiceInterface) {
	group.GET("/tasks/:id/invites", middleware.RequireUUIDParams("id"), func(c *gin.Context) { ListInvites(c, db, inviteService) })
	group.POST("/tasks/:id/invites", middleware.RequireUUIDParams("id"), func(c *gin.Context) { CreateInvite(c, db, inviteService) })
	group.DELETE("/tasks/:id/invites/:inviteId", middleware.RequireUUIDParams("id", "inviteId"), func(c *gin.Context) { RevokeInvite(c, db, inviteService) })
	group.POST("/invites/:token/accept", func(c *gin.Context) { AcceptInvite(c, db, inviteService) })
}

func CreateInvite(c *gin.Context, db *database.Database, inviteService services.InviteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request createInviteRequest
	if !bindJSON(c, &request, true) {
		return
	}

	invite, err := inviteService.CreateInvite(db, userID, taskID, request.CanEdit)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func ListInvites(c *gin.Context, db *database.Database, inviteService services.InviteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invites, err := inviteService.ListInvites(db, userID, taskID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, invites)
}

func RevokeInvite(c *gin.Context, db *database.Database, inviteService services.InviteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	inviteID, ok := pathID(c, "inviteId")
	if !ok {
		return
	}

	if err := inviteService.RevokeInvite(db, userID, inviteID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateInvite always answers 200; an unusable token is reported in the body.
func ValidateInvite(c *gin.Context, db *database.Database, inviteService services.InviteServiceInterface) {
	result, err := inviteService.ValidateInvite(db, c.Param("token"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func AcceptInvite(c *gin.Context, db *database.Database, inviteService services.InviteServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := inviteService.AcceptInvite(db, userID, c.Param("token"))
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
