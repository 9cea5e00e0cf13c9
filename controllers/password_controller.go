// controllers/password_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/security"
	"github.com/motoventas/crm_backend/utils"
)

const resetTokenTTL = 30 * time.Minute

type PasswordController struct {
	DB *mongo.Database
}

func NewPasswordController(db *mongo.Database) *PasswordController {
	return &PasswordController{DB: db}
}

// RequestReset emails a reset token. The response is identical whether or
// not the email exists, so the endpoint cannot be used to enumerate accounts.
func (pc *PasswordController) RequestReset(c echo.Context) error {
	var req models.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	genericResponse := models.Response{
		Status:  http.StatusOK,
		Message: "If the account exists, a reset email has been sent",
	}

	var user models.User
	if err := pc.DB.Collection("users").FindOne(ctx, bson.M{"email": email, "isActive": true}).Decode(&user); err != nil {
		return c.JSON(http.StatusOK, genericResponse)
	}

	token, err := security.GenerateToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate reset token",
		})
	}

	_, err = pc.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"resetPasswordToken":  token,
			"resetTokenExpiresAt": time.Now().Add(resetTokenTTL),
			"updatedAt":           time.Now(),
		},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store reset token",
		})
	}

	go func() {
		if err := utils.SendPasswordResetEmail(user.Email, user.FullName, token); err != nil {
			c.Logger().Errorf("failed to send reset email to %s: %v", user.Email, err)
		}
	}()

	return c.JSON(http.StatusOK, genericResponse)
}

// ConfirmReset sets a new password given a valid, unexpired token.
func (pc *PasswordController) ConfirmReset(c echo.Context) error {
	var req models.PasswordResetConfirm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Token and new password are required",
			Data:    err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := pc.DB.Collection("users").FindOne(ctx, bson.M{
		"resetPasswordToken":  req.Token,
		"resetTokenExpiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired reset token",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	_, err = pc.DB.Collection("users").UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":  string(hashed),
			"updatedAt": time.Now(),
		},
		"$unset": bson.M{
			"resetPasswordToken":  "",
			"resetTokenExpiresAt": "",
		},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password updated successfully",
	})
}
