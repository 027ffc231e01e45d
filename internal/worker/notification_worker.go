package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opencampus/admission-backend/internal/config"
	"github.com/opencampus/admission-backend/internal/notify"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	NotifyPollTimeout    = 1 * time.Second
	NotifyDeliverTimeout = 10 * time.Second
)

// NotificationWorker drains the Redis notification queue and delivers each
// message to the configured webhook. With no webhook configured, messages are
// logged and dropped. Delivery is best-effort: a failed delivery is requeued
// once per attempt, never blocking the producers.
type NotificationWorker struct {
	rdb        *redis.Client
	webhookURL string
	client     *http.Client
	log        zerolog.Logger
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(rdb *redis.Client, webhookURL string, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:        rdb,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: NotifyDeliverTimeout},
		log:        log.With().Str("component", "notification_worker").Logger(),
	}
}

// Start runs the delivery loop until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Str("webhook", w.webhookURL).Msg("NotificationWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationWorker shutting down")
			return

		default:
			item, err := w.rdb.BLPop(ctx, NotifyPollTimeout, config.QueueKey.NotificationQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var msg notify.Message
			if err := json.Unmarshal([]byte(item[1]), &msg); err != nil {
				w.log.Error().Err(err).Msg("Invalid notification payload, dropping")
				continue
			}

			if err := w.deliver(ctx, []byte(item[1]), msg); err != nil {
				w.log.Warn().Err(err).
					Str("kind", string(msg.Kind)).
					Int("applicant_id", msg.ApplicantID).
					Msg("Delivery failed, requeueing")
				w.rdb.RPush(ctx, config.QueueKey.NotificationQueue, item[1])
				// Back off so a dead webhook does not spin the loop.
				time.Sleep(NotifyPollTimeout)
			}
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, raw []byte, msg notify.Message) error {
	if w.webhookURL == "" {
		w.log.Info().
			Str("kind", string(msg.Kind)).
			Int("applicant_id", msg.ApplicantID).
			Str("email", msg.Email).
			Msg("Notification (no webhook configured)")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &deliveryError{status: resp.StatusCode}
	}

	w.log.Debug().
		Str("kind", string(msg.Kind)).
		Int("applicant_id", msg.ApplicantID).
		Msg("Notification delivered")
	return nil
}

type deliveryError struct {
	status int
}

func (e *deliveryError) Error() string {
	return http.StatusText(e.status)
}
