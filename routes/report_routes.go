// routes/report_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterReportRoutes sets up the sprint dashboard endpoints.
func RegisterReportRoutes(e *echo.Echo, deps Deps) {
	reportController := controllers.NewReportController(deps.DB, deps.Sales)

	reports := e.Group("/api/reports", custommw.JWTMiddleware())
	reports.GET("/me", reportController.MyFigures)
	reports.GET("/sprint", reportController.SprintDashboard, custommw.RequireManager())
}
