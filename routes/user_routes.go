// routes/user_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterUserRoutes sets up team-management routes.
func RegisterUserRoutes(e *echo.Echo, deps Deps) {
	userController := controllers.NewUserController(deps.DB)

	users := e.Group("/api/users", custommw.JWTMiddleware())
	users.GET("/me", userController.GetProfile)
	users.PUT("/me/fcm-token", userController.UpdateFCMToken)
	users.PUT("/me/telegram", userController.LinkTelegram)
	users.GET("/salespeople", userController.ListSalespeople)

	managers := users.Group("", custommw.RequireManager())
	managers.POST("", userController.CreateUser)
	managers.GET("", userController.ListUsers)
	managers.PUT("/:id/goals", userController.UpdateUserGoals)
	managers.PUT("/:id/active", userController.SetUserActive)
}
