package Notifications

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"TaskHive/Models"
)

var firebaseClient *messaging.Client
var ctx = context.Background()

// InitFirebase wires the optional mobile push mirror. Without the
// FIREBASE_CREDENTIALS env var the mirror stays disabled and durable
// notifications are web-only.
func InitFirebase() error {
	credentials := os.Getenv("FIREBASE_CREDENTIALS")
	if credentials == "" {
		log.Println("Firebase credentials not configured, mobile push disabled")
		return nil
	}

	opt := option.WithCredentialsFile(credentials)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("error getting Messaging client: %v", err)
	}

	firebaseClient = client
	log.Println("Firebase initialized successfully")
	return nil
}

// mirrorToDevice sends a durable notification to the user's registered
// device token, if both the client and a token exist. Failures are logged
// only; the web notification row is the guaranteed path.
func (n *Notifier) mirrorToDevice(userID uint, title, body string) {
	if firebaseClient == nil {
		return
	}
	var token Models.FCMToken
	if err := n.DB.Where("user_id = ?", userID).First(&token).Error; err != nil {
		return
	}
	message := &messaging.Message{
		Token: token.Value,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if _, err := firebaseClient.Send(ctx, message); err != nil {
		log.Printf("fanout: FCM push to user %d failed: %v", userID, err)
	}
}
