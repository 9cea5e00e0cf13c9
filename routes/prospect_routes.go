// routes/prospect_routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/motoventas/crm_backend/controllers"
	custommw "github.com/motoventas/crm_backend/middleware"
)

// RegisterProspectRoutes sets up the sales pipeline and its AI helpers.
func RegisterProspectRoutes(e *echo.Echo, deps Deps) {
	prospectController := controllers.NewProspectController(deps.DB, deps.Extraction)

	prospects := e.Group("/api/prospects", custommw.JWTMiddleware())
	prospects.POST("", prospectController.CreateProspect)
	prospects.GET("", prospectController.ListProspects)
	prospects.PUT("/:id", prospectController.UpdateProspect)
	prospects.DELETE("/:id", prospectController.DeleteProspect)
	prospects.POST("/:id/notes", prospectController.AddNote)
	prospects.GET("/:id/summary", prospectController.SummarizeNotes)
	prospects.GET("/:id/draft-message", prospectController.DraftMessage)
}
