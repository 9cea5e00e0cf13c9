// utils/auth.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/middleware"
	"github.com/motoventas/crm_backend/models"
)

// ValidateTokenResponse represents the response for token validation
type ValidateTokenResponse struct {
	Valid     bool         `json:"valid"`
	User      *models.User `json:"user,omitempty"`
	Message   string       `json:"message,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

// ValidateToken validates a JWT token and returns user information if valid.
// The frontend calls this to check session validity on reload.
func ValidateToken(tokenString string, db *mongo.Database) (*ValidateTokenResponse, error) {
	if tokenString == "" {
		return &ValidateTokenResponse{Valid: false, Message: "No token provided"}, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &middleware.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil {
		return &ValidateTokenResponse{Valid: false, Message: "Invalid token: " + err.Error()}, nil
	}
	if !token.Valid {
		return &ValidateTokenResponse{Valid: false, Message: "Token is not valid"}, nil
	}

	claims, ok := token.Claims.(*middleware.JwtCustomClaims)
	if !ok {
		return &ValidateTokenResponse{Valid: false, Message: "Invalid token claims"}, nil
	}
	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return &ValidateTokenResponse{Valid: false, Message: "Token has expired"}, nil
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return &ValidateTokenResponse{Valid: false, Message: "Invalid user ID format"}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &ValidateTokenResponse{Valid: false, Message: "User not found"}, nil
		}
		return &ValidateTokenResponse{Valid: false, Message: "Error retrieving user: " + err.Error()}, nil
	}
	if !user.IsActive {
		return &ValidateTokenResponse{Valid: false, Message: "User account is inactive"}, nil
	}

	user.Password = ""

	var expiresAt *time.Time
	if claims.ExpiresAt > 0 {
		t := time.Unix(claims.ExpiresAt, 0)
		expiresAt = &t
	}

	return &ValidateTokenResponse{Valid: true, User: &user, ExpiresAt: expiresAt}, nil
}
