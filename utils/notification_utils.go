package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

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

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email using the configured SMTP server
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
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

// SendCreditWindowDigest emails the credit window digest to all active
// admins and saves an in-app notification per admin. Email failures are
// logged, not fatal; the in-app notification still goes out.
func SendCreditWindowDigest(db *mongo.Client, alerts []models.CreditWindowAlert) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(db, "users").Find(ctx, bson.M{
		"userType": models.UserTypeAdmin,
		"isActive": true,
	})
	if err != nil {
		return fmt.Errorf("failed to find admins: %w", err)
	}
	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		return fmt.Errorf("failed to decode admins: %w", err)
	}

	subject, body := BuildAlertEmail(alerts)
	counts := CountAlerts(alerts)

	for _, admin := range admins {
		if err := SendEmail(admin.Email, subject, body); err != nil {
			log.Printf("Failed to send credit window digest to %s: %v", admin.Email, err)
		}
		_ = SaveNotification(db, admin.ID, "Credit window digest", subject, "credit_window_alert", map[string]interface{}{
			"critical": counts.Critical,
			"expiring": counts.Expiring,
			"expired":  counts.Expired,
		})
	}

	return nil
}

// NotifySetterOfApproval records an in-app notification for the setter
// when an admin approves or rejects one of their deals.
func NotifySetterOfApproval(db *mongo.Client, deal *models.Deal, approved bool) error {
	if deal.SetterID.IsZero() {
		return nil
	}

	notifType := "deal_approved"
	title := "Deal approved"
	message := fmt.Sprintf("Your deal %d (%s) was approved. Commission: %s.", deal.DealID, deal.Title, FormatSEK(deal.TotalCommission))
	if !approved {
		notifType = "deal_rejected"
		title = "Deal rejected"
		message = fmt.Sprintf("Your deal %d (%s) was rejected.", deal.DealID, deal.Title)
	}

	return SaveNotification(db, deal.SetterID, title, message, notifType, map[string]interface{}{
		"dealId": deal.DealID,
	})
}
