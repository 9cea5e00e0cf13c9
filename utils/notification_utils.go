// utils/notification_utils.go
package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/motoventas/crm_backend/config"
	"github.com/motoventas/crm_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Database, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := db.Collection("notifications").InsertOne(context.Background(), notification)
	return err
}

// SendPush delivers an FCM push to one device token, best effort.
func SendPush(fcmToken, title, body string) error {
	if config.FirebaseApp == nil || fcmToken == "" {
		return nil
	}

	client, err := config.FirebaseApp.Messaging(context.Background())
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	msg := &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	_, err = client.Send(context.Background(), msg)
	return err
}

// NotifyManagersOfSale fans a committed sale out to every manager: in-app
// notification plus FCM push. Best effort, errors are logged and swallowed
// so a dead push channel never blocks the sale path.
func NotifyManagersOfSale(db *mongo.Database, sale *models.Sale, salespersonName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection("users").Find(ctx, bson.M{"role": models.RoleManager, "isActive": true})
	if err != nil {
		log.Printf("Failed to load managers for sale notification: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var managers []models.User
	if err := cursor.All(ctx, &managers); err != nil {
		log.Printf("Failed to decode managers for sale notification: %v", err)
		return
	}

	title := "New sale recorded"
	body := fmt.Sprintf("%s sold a %s to %s for $%s", salespersonName,
		sale.MotorcycleModel, sale.ProspectName, sale.Amount.String())

	for _, m := range managers {
		if err := SaveNotification(db, m.ID, title, body, "sale_recorded", map[string]interface{}{
			"saleId": sale.ID.Hex(),
			"sprint": sale.Sprint,
		}); err != nil {
			log.Printf("Failed to save sale notification for %s: %v", m.Email, err)
		}
		if err := SendPush(m.FCMToken, title, body); err != nil {
			log.Printf("Failed to push sale notification to %s: %v", m.Email, err)
		}
	}
}

// SendEmail sends a plain-text email through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendPasswordResetEmail emails the reset link/token to the user.
func SendPasswordResetEmail(to, fullName, token string) error {
	subject := "MotoVentas CRM password reset"
	body := fmt.Sprintf("Dear %s,\n\nA password reset was requested for your account."+
		"\nUse this code within one hour: %s\n\nIf you did not request this, ignore this email.", fullName, token)
	return SendEmail(to, subject, body)
}
