// routes/main_routes.go
package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	custommw "github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/websocket"
)

// Deps carries the shared services every route group draws from.
type Deps struct {
	DB         *mongo.Database
	Store      services.Store
	Hub        *websocket.Hub
	Sales      *services.SaleService
	Goals      *services.GoalService
	VAT        *services.VATService
	Telegram   *services.TelegramService
	Extraction *services.ExtractionService
}

// SetupRoutes configures all API routes by calling the individual route
// registration functions.
func SetupRoutes(e *echo.Echo, deps Deps) {
	RegisterAuthRoutes(e, deps)
	RegisterUserRoutes(e, deps)
	RegisterInventoryRoutes(e, deps)
	RegisterSalesRoutes(e, deps)
	RegisterProspectRoutes(e, deps)
	RegisterReportRoutes(e, deps)
	RegisterAdminRoutes(e, deps)
	RegisterWebSocketRoutes(e, deps)

	// Uploaded catalog images are served as static files.
	e.Static("/uploads", "uploads")
}

// RegisterWebSocketRoutes exposes the live dashboard socket.
func RegisterWebSocketRoutes(e *echo.Echo, deps Deps) {
	ws := e.Group("/ws", custommw.JWTMiddleware())
	ws.GET("/dashboard", func(c echo.Context) error {
		userID, err := primitive.ObjectIDFromHex(custommw.GetUserIDFromToken(c))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return websocket.HandleWebSocket(c, deps.Hub, userID)
	})
}
