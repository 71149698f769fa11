package services

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

const notifyTimeout = 10 * time.Second

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers a push notification to every device of a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// NopNotifier drops notifications. Used when no Firebase credentials are set.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, Notification) error { return nil }

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushNotifier sends through Firebase Cloud Messaging to the tokens stored in
// fcm_tokens.
type PushNotifier struct {
	client multicastSender
	store  store.RecordStore
}

func NewPushNotifier(ctx context.Context, credentialsPath string, s store.RecordStore) (*PushNotifier, error) {
	log.Printf("[FCM] Initializing Firebase with credentials: %s", credentialsPath)

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get messaging client")
	}

	log.Println("[FCM] Firebase Messaging client initialized successfully")
	return &PushNotifier{client: client, store: s}, nil
}

func (p *PushNotifier) Notify(ctx context.Context, userID string, n Notification) error {
	var devices []models.DeviceToken
	q := store.From(store.DeviceTokens).Select("user_id", "token").Eq("user_id", userID)
	if err := p.store.Find(ctx, q, &devices); err != nil {
		return errors.Wrap(err, "load device tokens")
	}
	if len(devices) == 0 {
		log.Debugf("[FCM] No tokens for user %s", userID)
		return nil
	}

	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}

	response, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data:   n.Data,
		Tokens: tokens,
	})
	if err != nil {
		return errors.Wrap(err, "multicast send")
	}

	log.Printf("[FCM] Multicast result | success=%d failure=%d", response.SuccessCount, response.FailureCount)

	for i, resp := range response.Responses {
		if resp.Success || i >= len(tokens) {
			continue
		}
		token := tokens[i]
		log.Printf("[FCM][TOKEN ERROR] token=%s error=%v", token, resp.Error)

		if messaging.IsUnregistered(resp.Error) {
			log.Printf("[FCM] Deleting dead token: %s", token)
			if _, err := p.store.Delete(ctx, store.From(store.DeviceTokens).Eq("token", token)); err != nil {
				log.Printf("[FCM][ERROR] Failed to delete token %s: %v", token, err)
			}
		}
	}
	return nil
}

// notifyInBackground sends n without blocking the request. Failures are
// logged only.
func notifyInBackground(notifier Notifier, userID string, n Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := notifier.Notify(ctx, userID, n); err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Push notification failed")
		}
	}()
}
