package routes

import (
	"net/http"

	"focuslist/focuslist/database"
	"focuslist/focuslist/services"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func RegisterAuthRoutes(group *gin.RouterGroup, db *database.Database, authService services.AuthServiceInterface, userService services.UserServiceInterface) {
	auth := group.Group("/auth")
	{
		auth.POST("/register", func(c *gin.Context) { Register(c, db, userService) })
		auth.POST("/login", func(c *gin.Context) { Login(c, db, authService) })
	}
}

func Register(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	var input services.RegisterInput
	if !bindJSON(c, &input, false) {
		return
	}

	user, err := userService.Register(db, input)
	if err != nil {
		apierror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, "Email and password are required", nil)
		return
	}

	token, err := authService.Login(db, request.Email, request.Password)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}
