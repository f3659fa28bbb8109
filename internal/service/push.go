package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/push"
	"github.com/caminho-companion/api/internal/repository"
)

var ErrSubscriptionNotFound = repository.ErrSubscriptionNotFound

type PushSubscriptionRepository interface {
	Save(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error)
	FindByUserID(ctx context.Context, userID string) (domain.PushSubscription, error)
	Delete(ctx context.Context, userID string) error
}

type PushSender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload domain.PushPayload) error
}

type PushService struct {
	repo   PushSubscriptionRepository
	sender PushSender
}

func NewPushService(repo PushSubscriptionRepository, sender PushSender) *PushService {
	return &PushService{
		repo:   repo,
		sender: sender,
	}
}

func (s *PushService) Subscribe(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	saved, err := s.repo.Save(ctx, sub)
	if err != nil {
		return domain.PushSubscription{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved, nil
}

func (s *PushService) Unsubscribe(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}
	return nil
}

// HasSubscription reports whether the user currently has a stored web-push
// subscription.
func (s *PushService) HasSubscription(ctx context.Context, userID string) (bool, error) {
	_, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return true, nil
}

// SendTest pushes a canned payload to the caller's own subscription so the
// client can confirm delivery end to end. Unlike NotifyUser, having no
// subscription is an error the caller should see; a subscription the push
// service reports gone is still pruned.
func (s *PushService) SendTest(ctx context.Context, userID string) error {
	if _, err := s.repo.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return s.NotifyUser(ctx, userID, domain.PushPayload{
		Title: "Caminho Companion",
		Body:  "As notificações estão a funcionar. Bom caminho!",
	})
}

// NotifyUser pushes the payload to the user's subscription. Users without a
// subscription are skipped silently. An endpoint the delivery service
// reports as permanently gone is pruned so it is never retried.
func (s *PushService) NotifyUser(ctx context.Context, userID string, payload domain.PushPayload) error {
	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil
		}
		return fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	if err := s.sender.Send(ctx, sub, payload); err != nil {
		if errors.Is(err, push.ErrSubscriptionGone) {
			if delErr := s.repo.Delete(ctx, userID); delErr != nil {
				zap.L().Warn("failed to prune dead push subscription",
					zap.String("user_id", userID),
					zap.Error(delErr))
			}
			return nil
		}
		return fmt.Errorf("s.sender.Send -> %w", err)
	}

	return nil
}
