package service

import (
	"context"
	"fmt"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/transport"
)

var userRoles = map[string]bool{
	"user":  true,
	"admin": true,
}

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.Repo.ListUsers(ctx, limit, offset)
}

func (s *UserService) SetActive(ctx context.Context, id uint, active bool) error {
	return s.Repo.SetUserActive(ctx, id, active)
}

func (s *UserService) SetRole(ctx context.Context, id uint, role string) error {
	if !userRoles[role] {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.Repo.SetUserRole(ctx, id, role)
}

func (s *UserService) RegisterPushSubscription(ctx context.Context, userID uint, req transport.PushSubscriptionRequest, userAgent string) error {
	if req.Endpoint == "" {
		return fmt.Errorf("%w: endpoint required", ErrValidation)
	}
	return s.Repo.AddPushSubscription(ctx, &models.PushSubscription{
		UserID:    userID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: userAgent,
	})
}

func (s *UserService) UnregisterPushSubscriptions(ctx context.Context, userID uint) error {
	return s.Repo.RemovePushSubscriptions(ctx, userID)
}
