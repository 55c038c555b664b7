package routes

import (
	"net/http"
	"strconv"

	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/models"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type statusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

type reorderRequest struct {
	TaskIDs []uuid.UUID `json:"task_ids" binding:"required"`
}

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	requireID := middleware.RequireUUIDParams("id")

	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.POST("/tasks/reorder", func(c *gin.Context) { ReorderTasks(c, db, taskService) })
	group.GET("/tasks/:id", requireID, func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PATCH("/tasks/:id", requireID, func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", requireID, func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.PUT("/tasks/:id/status", requireID, func(c *gin.Context) { SetTaskStatus(c, db, taskService) })
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CreateTaskInput
	if !bindJSON(c, &input, false) {
		return
	}

	task, err := taskService.CreateTask(db, userID, input)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := taskService.GetTaskById(db, userID, taskID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter, ok := taskFilterFromQuery(c)
	if !ok {
		return
	}

	tasks, err := taskService.GetTasks(db, userID, filter)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func taskFilterFromQuery(c *gin.Context) (services.TaskFilter, bool) {
	var filter services.TaskFilter

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		filter.Status = &s
	}
	if urgency := c.Query("urgency"); urgency != "" {
		u := models.Urgency(urgency)
		filter.Urgency = &u
	}
	if effort := c.Query("effort"); effort != "" {
		e := models.Effort(effort)
		filter.Effort = &e
	}
	for name, target := range map[string]**uuid.UUID{
		"category_id": &filter.CategoryID,
		"parent_id":   &filter.ParentID,
	} {
		value := c.Query(name)
		if value == "" {
			continue
		}
		id, err := uuid.Parse(value)
		if err != nil {
			apierror.BadRequest(c, "Invalid filter", map[string]string{name: "must be a valid UUID"})
			return filter, false
		}
		*target = &id
	}
	if rootOnly := c.Query("root_only"); rootOnly != "" {
		value, err := strconv.ParseBool(rootOnly)
		if err != nil {
			apierror.BadRequest(c, "Invalid filter", map[string]string{"root_only": "must be a boolean"})
			return filter, false
		}
		filter.RootOnly = value
	}
	filter.Search = c.Query("q")
	return filter, true
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch services.TaskPatch
	present, ok := bindPatch(c, &patch)
	if !ok {
		return
	}
	patch.DurationSet = present["duration"]
	patch.LocationSet = present["location"]
	patch.DeadlineSet = present["deadline"]
	patch.ParentIDSet = present["parent_id"]
	patch.CategoryIDSet = present["category_id"]

	task, err := taskService.UpdateTask(db, userID, taskID, patch)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func SetTaskStatus(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request statusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, "Invalid input", map[string]string{"status": "is required"})
		return
	}

	task, err := taskService.SetTaskStatus(db, userID, taskID, request.Status)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := taskService.DeleteTask(db, userID, taskID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ReorderTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request reorderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, "Invalid input", map[string]string{"task_ids": "must be a list of task ids"})
		return
	}

	if err := taskService.ReorderTasks(db, userID, request.TaskIDs); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
