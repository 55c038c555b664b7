package routes

import (
	"net/http"

	"focuslist/focuslist/database"
	"focuslist/focuslist/models"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type wheelRequest struct {
	MaxDuration *int       `json:"max_duration" form:"max_duration"`
	Effort      string     `json:"effort" form:"effort"`
	Urgency     string     `json:"urgency" form:"urgency"`
	CategoryID  *uuid.UUID `json:"category_id" form:"-"`
}

func (r wheelRequest) filter() services.WheelFilter {
	filter := services.WheelFilter{MaxDuration: r.MaxDuration, CategoryID: r.CategoryID}
	if r.Effort != "" {
		effort := models.Effort(r.Effort)
		filter.Effort = &effort
	}
	if r.Urgency != "" {
		urgency := models.Urgency(r.Urgency)
		filter.Urgency = &urgency
	}
	return filter
}

func RegisterWheelRoutes(group *gin.RouterGroup, db *database.Database, wheelService services.WheelServiceInterface) {
	group.POST("/wheel/spin", func(c *gin.Context) { SpinWheel(c, db, wheelService) })
	group.GET("/wheel/candidates", func(c *gin.Context) { GetWheelCandidates(c, db, wheelService) })
}

func SpinWheel(c *gin.Context, db *database.Database, wheelService services.WheelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request wheelRequest
	if !bindJSON(c, &request, true) {
		return
	}

	task, err := wheelService.Spin(db, userID, request.filter())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func GetWheelCandidates(c *gin.Context, db *database.Database, wheelService services.WheelServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request wheelRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		apierror.BadRequest(c, "Invalid filter", map[string]string{"max_duration": "must be a number"})
		return
	}
	if value := c.Query("category_id"); value != "" {
		id, err := uuid.Parse(value)
		if err != nil {
			apierror.BadRequest(c, "Invalid filter", map[string]string{"category_id": "must be a valid UUID"})
			return
		}
		request.CategoryID = &id
	}

	tasks, err := wheelService.Candidates(db, userID, request.filter())
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
