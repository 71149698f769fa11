package services

import (
	"context"
	"strings"
	"time"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

var deviceTokenKey = []string{"user_id", "token"}

// DeviceTokenService keeps the FCM registration tokens PushNotifier sends to.
type DeviceTokenService struct {
	store store.RecordStore
}

func NewDeviceTokenService(s store.RecordStore) *DeviceTokenService {
	return &DeviceTokenService{store: s}
}

// Register stores token for userID. Registering the same token twice keeps one row.
func (s *DeviceTokenService) Register(ctx context.Context, in models.DeviceToken) error {
	in.Token = strings.TrimSpace(in.Token)
	if in.UserID == "" || in.Token == "" {
		return errs.Validation("user_id and token are required")
	}
	values := store.Values{"user_id": in.UserID, "token": in.Token, "updated_at": time.Now().UTC()}
	if err := s.store.Upsert(ctx, store.DeviceTokens, values, deviceTokenKey, nil); err != nil {
		return errs.Upstream("Failed to register FCM token", err)
	}
	return nil
}

func (s *DeviceTokenService) Unregister(ctx context.Context, in models.DeviceToken) error {
	if in.UserID == "" || in.Token == "" {
		return errs.Validation("user_id and token are required")
	}
	q := store.From(store.DeviceTokens).Eq("user_id", in.UserID).Eq("token", in.Token)
	if _, err := s.store.Delete(ctx, q); err != nil {
		return errs.Upstream("Failed to remove FCM token", err)
	}
	return nil
}
