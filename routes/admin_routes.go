// routes/admin_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterAdminRoutes sets up the manager-only sprint operations.
func RegisterAdminRoutes(e *echo.Echo, deps Deps) {
	adminController := controllers.NewAdminController(deps.DB, deps.Goals, deps.VAT, deps.Telegram, deps.Hub)

	admin := e.Group("/api/admin", custommw.JWTMiddleware(), custommw.RequireManager())
	admin.POST("/goals/distribute", adminController.DistributeGoals)
	admin.POST("/goals/reset", adminController.ResetSprint)
	admin.GET("/vat/candidates", adminController.VATCandidates)
	admin.POST("/vat/normalize", adminController.VATNormalize)
}
