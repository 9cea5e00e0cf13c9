// routes/auth_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and password-reset routes.
func RegisterAuthRoutes(e *echo.Echo, deps Deps) {
	authController := controllers.NewAuthController(deps.DB)
	passwordController := controllers.NewPasswordController(deps.DB)

	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/login/remember", authController.LoginWithRememberToken)
	e.POST("/api/auth/google", authController.GoogleLogin)
	e.GET("/api/auth/validate", authController.ValidateSession)
	e.POST("/api/auth/password-reset", passwordController.RequestReset)
	e.POST("/api/auth/password-reset/confirm", passwordController.ConfirmReset)

	e.POST("/api/auth/logout", authController.Logout, custommw.JWTMiddleware())
}
