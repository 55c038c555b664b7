package routes

import (
	"net/http"

	"focuslist/focuslist/database"
	"focuslist/focuslist/middleware"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
)

func RegisterCategoryRoutes(group *gin.RouterGroup, db *database.Database, categoryService services.CategoryServiceInterface) {
	group.GET("/categories", func(c *gin.Context) { GetCategories(c, db, categoryService) })
	group.POST("/categories", func(c *gin.Context) { CreateCategory(c, db, categoryService) })
	group.PATCH("/categories/:id", middleware.RequireUUIDParams("id"), func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
	group.DELETE("/categories/:id", middleware.RequireUUIDParams("id"), func(c *gin.Context) { DeleteCategory(c, db, categoryService) })
}

func GetCategories(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categories, err := categoryService.GetCategories(db, userID)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CategoryInput
	if !bindJSON(c, &input, false) {
		return
	}

	category, err := categoryService.CreateCategory(db, userID, input)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var patch services.CategoryPatch
	present, ok := bindPatch(c, &patch)
	if !ok {
		return
	}
	patch.IconSet = present["icon"]

	category, err := categoryService.UpdateCategory(db, userID, categoryID, patch)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := categoryService.DeleteCategory(db, userID, categoryID); err != nil {
		apierror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
