// Package notify pushes per-user notifications. Delivery is fire-and-forget:
// publish failures are logged and never returned to the caller.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventPaymentSucceeded      = "payment_succeeded"
	EventPaymentFailed         = "payment_failed"
	EventSubscriptionActivated = "subscription_activated"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionExpired   = "subscription_expired"
	EventSubscriptionExpiring  = "subscription_expiring"
	EventRefundIssued          = "refund_issued"
)

type Publisher interface {
	Publish(ctx context.Context, userID int64, event string, payload map[string]any)
}

// Message is the JSON body sent on a user channel.
type Message struct {
	Event   string         `json:"event"`
	UserID  int64          `json:"user_id,string"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  time.Time      `json:"sent_at"`
}

// UserChannel is the pub/sub channel for one user.
func UserChannel(prefix string, userID int64) string {
	return fmt.Sprintf("%s:user:%d", prefix, userID)
}

// redisClient is the slice of go-redis the publisher uses.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type redisPublisher struct {
	client    redisClient
	prefix    string
	stream    string
	streamLen int64
	logger    *slog.Logger
}

type Option func(*redisPublisher)

// WithHistory also appends each message to a capped stream so clients that
// were offline can catch up.
func WithHistory(stream string, maxLen int64) Option {
	return func(p *redisPublisher) {
		p.stream = stream
		p.streamLen = maxLen
	}
}

func NewRedisPublisher(client redisClient, prefix string, logger *slog.Logger, opts ...Option) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &redisPublisher{client: client, prefix: prefix, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *redisPublisher) Publish(ctx context.Context, userID int64, event string, payload map[string]any) {
	body, err := json.Marshal(Message{
		Event:   event,
		UserID:  userID,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to encode notification", "user_id", userID, "event", event, "error", err)
		return
	}

	channel := UserChannel(p.prefix, userID)
	receivers, err := p.client.Publish(ctx, channel, body).Result()
	if err != nil {
		p.logger.WarnContext(ctx, "failed to publish notification", "channel", channel, "event", event, "error", err)
		return
	}

	if p.stream != "" {
		if err := p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.streamLen,
			Approx: true,
			Values: map[string]any{
				"user_id": userID,
				"event":   event,
				"body":    string(body),
			},
		}).Err(); err != nil {
			p.logger.WarnContext(ctx, "failed to append notification history", "stream", p.stream, "error", err)
		}
	}

	p.logger.DebugContext(ctx, "notification published", "channel", channel, "event", event, "receivers", receivers)
}

type nop struct{}

// Nop discards every notification.
func Nop() Publisher { return nop{} }

func (nop) Publish(context.Context, int64, string, map[string]any) {}

// Recorder keeps published messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, userID int64, event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Event: event, UserID: userID, Payload: payload, SentAt: time.Now().UTC()})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
