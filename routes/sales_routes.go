// routes/sales_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterSalesRoutes sets up sale recording and listing. Editing and
// deleting reconcile inventory, so they stay manager only.
func RegisterSalesRoutes(e *echo.Echo, deps Deps) {
	saleController := controllers.NewSaleController(deps.DB, deps.Sales, deps.Telegram, deps.Hub)

	sales := e.Group("/api/sales", custommw.JWTMiddleware())
	sales.POST("", saleController.CreateSale)
	sales.GET("", saleController.ListSales)

	managers := sales.Group("", custommw.RequireManager())
	managers.PUT("/:id", saleController.UpdateSale)
	managers.DELETE("/:id", saleController.DeleteSale)
}
