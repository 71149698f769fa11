package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

func TestDeviceTokenService(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	svc := NewDeviceTokenService(m)

	require.NoError(t, svc.Register(ctx, models.DeviceToken{UserID: "u1", Token: " tok-1 "}))
	require.NoError(t, svc.Register(ctx, models.DeviceToken{UserID: "u1", Token: "tok-1"}))
	require.NoError(t, svc.Register(ctx, models.DeviceToken{UserID: "u1", Token: "tok-2"}))

	var tokens []models.DeviceToken
	require.NoError(t, m.Find(ctx, store.From(store.DeviceTokens).Eq("user_id", "u1").Order("token", true), &tokens))
	require.Len(t, tokens, 2)
	assert.Equal(t, "tok-1", tokens[0].Token)

	require.NoError(t, svc.Unregister(ctx, models.DeviceToken{UserID: "u1", Token: "tok-1"}))
	n, err := m.Count(ctx, store.From(store.DeviceTokens).Eq("user_id", "u1"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = svc.Register(ctx, models.DeviceToken{UserID: "u1", Token: "  "})
	requireKind(t, err, errs.KindValidation, "user_id and token are required")
}
