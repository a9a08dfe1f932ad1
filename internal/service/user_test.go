package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/transport"
)

func TestUserService_ActiveAndRole(t *testing.T) {
	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	user := createTestUser(t, r, "user")

	require.NoError(t, svc.SetRole(ctx, user.ID, "admin"))
	stored, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", stored.Role)

	require.ErrorIs(t, svc.SetRole(ctx, user.ID, "root"), ErrValidation)
	require.ErrorIs(t, svc.SetRole(ctx, 999, "user"), repo.ErrUserNotFound)

	require.NoError(t, svc.SetActive(ctx, user.ID, false))
	stored, err = svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	require.ErrorIs(t, svc.SetActive(ctx, 999, true), repo.ErrUserNotFound)
}

func TestUserService_PushSubscriptions(t *testing.T) {
	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()

	user := createTestUser(t, r, "user")

	var req transport.PushSubscriptionRequest
	req.Endpoint = "https://push.example/sub/abc"
	req.Keys.P256dh = "p256dh-key"
	req.Keys.Auth = "auth-key"

	require.NoError(t, svc.RegisterPushSubscription(ctx, user.ID, req, "Mozilla/5.0"))

	// Re-registering the same endpoint does not duplicate the row.
	require.NoError(t, svc.RegisterPushSubscription(ctx, user.ID, req, "Mozilla/5.0"))

	var count int64
	require.NoError(t, r.DB.Model(&models.PushSubscription{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.ErrorIs(t, svc.RegisterPushSubscription(ctx, user.ID, transport.PushSubscriptionRequest{}, ""), ErrValidation)

	require.NoError(t, svc.UnregisterPushSubscriptions(ctx, user.ID))
	require.NoError(t, r.DB.Model(&models.PushSubscription{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}
