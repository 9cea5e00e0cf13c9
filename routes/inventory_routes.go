// routes/inventory_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterInventoryRoutes sets up catalog and stock routes. Reads are open
// to the whole team; writes are manager only.
func RegisterInventoryRoutes(e *echo.Echo, deps Deps) {
	inventoryController := controllers.NewInventoryController(deps.DB, deps.Store, deps.Extraction, deps.Hub)

	inventory := e.Group("/api/inventory", custommw.JWTMiddleware())
	inventory.GET("", inventoryController.ListItems)
	inventory.GET("/:id", inventoryController.GetItem)
	inventory.GET("/:id/barcode/:sku", inventoryController.SKUBarcode)

	managers := inventory.Group("", custommw.RequireManager())
	managers.POST("", inventoryController.AddItem)
	managers.PUT("/:id", inventoryController.UpdateItem)
	managers.DELETE("/:id", inventoryController.DeleteItem)
	managers.POST("/:id/photo", inventoryController.UploadPhoto)
	managers.POST("/upload", inventoryController.BulkUpload)
}
