// services/google_auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motoventas/crm_backend/models"
)

const googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleAuthService verifies Google ID tokens from the web client and maps
// them onto CRM accounts. Only pre-provisioned emails can sign in; Google
// login never creates a profile a manager didn't register first.
type GoogleAuthService struct {
	DB *mongo.Database
}

func NewGoogleAuthService(db *mongo.Database) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// googleClaims is the subset of the ID token payload we consume.
type googleClaims struct {
	Email   string `json:"email"`
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.StandardClaims
}

// AuthenticateIDToken verifies the token signature against Google's JWKs
// and returns the matching active user.
func (s *GoogleAuthService) AuthenticateIDToken(ctx context.Context, idToken string) (*models.User, error) {
	claims, err := verifyGoogleIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	users := s.DB.Collection("users")
	var user models.User
	err = users.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New("no account registered for this Google email")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("account is inactive")
	}

	// Remember the Google linkage and freshest profile photo.
	update := bson.M{"$set": bson.M{
		"googleId":  claims.Subject,
		"updatedAt": time.Now(),
	}}
	if claims.Picture != "" {
		update["$set"].(bson.M)["profilePic"] = claims.Picture
	}
	if _, err := users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

func verifyGoogleIDToken(ctx context.Context, idToken string) (*googleClaims, error) {
	jwkSet, err := jwk.Fetch(ctx, googleCertsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google signing keys: %w", err)
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok {
			return nil, errors.New("token missing kid header")
		}
		key, found := jwkSet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("no Google key for kid %s", kid)
		}
		var pubKey interface{}
		if err := key.Raw(&pubKey); err != nil {
			return nil, err
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid Google ID token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid Google ID token")
	}
	if claims.Email == "" {
		return nil, errors.New("Google token carries no email")
	}
	return claims, nil
}
