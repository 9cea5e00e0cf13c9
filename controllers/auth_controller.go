// controllers/auth_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/motoventas/crm_backend/config"
	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
	"github.com/motoventas/crm_backend/services"
	"github.com/motoventas/crm_backend/utils"
)

type AuthController struct {
	DB         *mongo.Database
	googleAuth *services.GoogleAuthService
}

func NewAuthController(db *mongo.Database) *AuthController {
	return &AuthController{
		DB:         db,
		googleAuth: services.NewGoogleAuthService(db),
	}
}

// Login authenticates with email/password and issues a JWT. With
// rememberMe set, a long-lived remember token is minted in Redis as well.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
			Data:    err.Error(),
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

	var user models.User
	err = ac.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}
	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account is inactive",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	resp := models.LoginResponse{Token: token, User: sanitizeUser(user)}

	if req.RememberMe {
		rememberToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			err = utils.StoreRememberedSession(config.GetRedisClient(), rememberToken, utils.RememberedSession{
				UserID:    user.ID.Hex(),
				Email:     user.Email,
				Role:      user.Role,
				ExpiresAt: time.Now().Add(utils.RememberMeDuration),
			})
		}
		if err == nil {
			resp.RememberToken = rememberToken
		}
		// Remember-me is a convenience; a Redis hiccup never fails a login.
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    resp,
	})
}

// LoginWithRememberToken exchanges a remember-me token for a fresh JWT.
func (ac *AuthController) LoginWithRememberToken(c echo.Context) error {
	var req struct {
		RememberToken string `json:"rememberToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.RememberToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Remember token is required",
		})
	}

	session, err := utils.RetrieveRememberedSession(config.GetRedisClient(), req.RememberToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Session expired, please log in again",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := ac.DB.Collection("users").FindOne(ctx, bson.M{"email": session.Email}).Decode(&user); err != nil || !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account not found or inactive",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.LoginResponse{Token: token, User: sanitizeUser(user)},
	})
}

// GoogleLogin verifies a Google ID token and signs the mapped account in.
func (ac *AuthController) GoogleLogin(c echo.Context) error {
	var req models.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Google ID token is required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	user, err := ac.googleAuth.AuthenticateIDToken(ctx, req.IDToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Google sign-in failed",
			Data:    err.Error(),
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.LoginResponse{Token: token, User: *user},
	})
}

// Logout blacklists the presented JWT and drops the remember-me session.
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Not authenticated",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 {
		middleware.BlacklistToken(authHeader[7:], time.Unix(claims.ExpiresAt, 0))
	}

	var req struct {
		RememberToken string `json:"rememberToken"`
	}
	if err := c.Bind(&req); err == nil && req.RememberToken != "" {
		utils.ForgetRememberedSession(config.GetRedisClient(), req.RememberToken)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// ValidateSession lets the frontend check a stored token on reload.
func (ac *AuthController) ValidateSession(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	token := ""
	if len(authHeader) > 7 {
		token = authHeader[7:]
	}

	result, err := utils.ValidateToken(token, ac.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Validation error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Session validated",
		Data:    result,
	})
}

func sanitizeUser(user models.User) models.User {
	user.Password = ""
	return user
}
