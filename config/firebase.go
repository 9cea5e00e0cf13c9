// config/firebase.go
package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

var FirebaseApp *firebase.App

// InitFirebase initializes the Firebase Admin SDK, used only for FCM push
// notifications to the dealership's mobile clients. Missing credentials
// leave FirebaseApp nil and push delivery disabled.
func InitFirebase() {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	cfg := &firebase.Config{ProjectID: projectID}

	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			log.Printf("Warning: error decoding FIREBASE_CREDENTIALS_BASE64: %v", err)
			return
		}
		app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsJSON(decoded))
		if err != nil {
			log.Printf("Warning: error initializing firebase app: %v", err)
			return
		}
		FirebaseApp = app
		return
	}

	credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credFile == "" {
		log.Println("Warning: no Firebase credentials configured, push notifications disabled")
		return
	}

	app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsFile(credFile))
	if err != nil {
		log.Printf("Warning: error initializing firebase app: %v", err)
		return
	}
	FirebaseApp = app
}
