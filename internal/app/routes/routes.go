package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/controllers"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	registrationController *controllers.RegistrationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/claim/player", authController.ClaimPlayer)
		auth.POST("/claim/coach", authController.ClaimCoach)
		auth.POST("/claim/parent", authController.ClaimParent)
		auth.POST("/login", authController.Login)
	}

	v1.POST("/registrations", registrationController.Submit)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)
		authenticated.GET("/registrations/:id", registrationController.Get)

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/registrations/:id/accept", registrationController.Accept)
			admin.POST("/registrations/:id/reject", registrationController.Reject)
		}
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
