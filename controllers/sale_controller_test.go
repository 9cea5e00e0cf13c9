// controllers/sale_controller_test.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
)

func saleListContext(t *testing.T, target string, claims *middleware.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
	return c, rec
}

func TestListSalesRejectsMalformedSalespersonFilter(t *testing.T) {
	c, rec := saleListContext(t, "/api/sales?sprint=2026-08&salespersonId=not-a-hex-id", &middleware.JwtCustomClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   models.RoleManager,
	})

	sc := NewSaleController(nil, nil, nil, nil)
	if err := sc.ListSales(c); err != nil {
		t.Fatalf("ListSales() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListSalesRejectsTokenWithBadUserID(t *testing.T) {
	c, rec := saleListContext(t, "/api/sales?sprint=2026-08", &middleware.JwtCustomClaims{
		UserID: "garbled",
		Role:   models.RoleSalesperson,
	})

	sc := NewSaleController(nil, nil, nil, nil)
	if err := sc.ListSales(c); err != nil {
		t.Fatalf("ListSales() error = %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
