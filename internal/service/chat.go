package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/repository"
)

// Notifier delivers a small payload to one user's push subscription, if any.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, payload domain.PushPayload) error
}

type ChatService struct {
	repo       ActivityRepository
	activities *ActivityService
	notifier   Notifier
}

func NewChatService(repo ActivityRepository, activities *ActivityService, notifier Notifier) *ChatService {
	return &ChatService{
		repo:       repo,
		activities: activities,
		notifier:   notifier,
	}
}

// ListMessages returns the activity's chat history, oldest first. Only
// members (creator or participant) may read.
func (s *ChatService) ListMessages(ctx context.Context, activityID uint, viewerID string) ([]domain.ChatMessage, error) {
	isMember, err := s.activities.IsMember(ctx, activityID, viewerID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("s.activities.IsMember -> %w", err)
	}
	if !isMember {
		return nil, ErrNotMember
	}

	messages, err := s.repo.ListMessages(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMessages -> %w", err)
	}

	return messages, nil
}

// PostMessage appends a message to the activity's chat and pushes a
// notification to the other members. Posting requires a verified identity,
// admins exempt, on top of membership. Delivery is best effort; a failed
// push never fails the post.
func (s *ChatService) PostMessage(ctx context.Context, activityID uint, senderID, content string, isAdmin bool) (domain.ChatMessage, error) {
	if !isAdmin {
		profile, err := s.activities.profileRepo.FindByUserID(ctx, senderID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domain.ChatMessage{}, ErrVerificationRequired
			}
			return domain.ChatMessage{}, fmt.Errorf("s.activities.profileRepo.FindByUserID -> %w", err)
		}
		if profile.VerificationStatus != domain.VerificationVerified {
			return domain.ChatMessage{}, ErrVerificationRequired
		}
	}

	isMember, err := s.activities.IsMember(ctx, activityID, senderID)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			return domain.ChatMessage{}, ErrActivityNotFound
		}
		return domain.ChatMessage{}, fmt.Errorf("s.activities.IsMember -> %w", err)
	}
	if !isMember {
		return domain.ChatMessage{}, ErrNotMember
	}

	message, err := s.repo.CreateMessage(ctx, domain.ChatMessage{
		ActivityID: activityID,
		UserID:     senderID,
		Content:    content,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("s.repo.CreateMessage -> %w", err)
	}

	s.notifyMembers(ctx, activityID, senderID, content)

	return message, nil
}

func (s *ChatService) notifyMembers(ctx context.Context, activityID uint, senderID, content string) {
	if s.notifier == nil {
		return
	}

	activity, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		zap.L().Warn("failed to load activity for chat notification", zap.Error(err))
		return
	}

	recipients := map[string]bool{activity.CreatorID: true}
	participants, err := s.repo.ParticipantProfiles(ctx, activityID)
	if err != nil {
		zap.L().Warn("failed to load participants for chat notification", zap.Error(err))
	} else {
		for _, p := range participants {
			recipients[p.UserID] = true
		}
	}
	delete(recipients, senderID)

	senderName := domain.FallbackDisplayName
	if sender, err := s.activities.profileRepo.FindByUserID(ctx, senderID); err == nil {
		senderName = sender.DisplayName
	}

	payload := domain.PushPayload{
		Title: activity.Title,
		Body:  senderName + ": " + truncateBody(content, 120),
	}

	for userID := range recipients {
		if err := s.notifier.NotifyUser(ctx, userID, payload); err != nil {
			zap.L().Warn("chat push delivery failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
}

func truncateBody(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "…"
}
