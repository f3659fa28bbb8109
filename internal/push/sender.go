package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/caminho-companion/api/internal/config"
	"github.com/caminho-companion/api/internal/domain"
)

// ErrSubscriptionGone marks an endpoint the delivery service reports as
// permanently invalid. Callers should drop the stored subscription.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers web-push payloads signed with the configured VAPID keys.
type Sender struct {
	subscriber string
	publicKey  string
	privateKey string
}

func NewSender(conf *config.PushConfig) *Sender {
	return &Sender{
		subscriber: conf.Subscriber,
		publicKey:  conf.VAPIDPublicKey,
		privateKey: conf.VAPIDPrivateKey,
	}
}

func (s *Sender) Send(ctx context.Context, sub domain.PushSubscription, payload domain.PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             60,
	})
	if err != nil {
		return fmt.Errorf("webpush.SendNotification -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return ErrSubscriptionGone
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
