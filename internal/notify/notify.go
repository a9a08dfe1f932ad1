// Package notify publishes notification events for an external delivery
// worker (web push lives outside this service). Dispatch is best effort:
// callers log failures and never let them fail the business operation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	AudienceAdmins = "admins"
	AudienceUser   = "user"

	publishTimeout = 5 * time.Second
)

type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

type Event struct {
	Audience string  `json:"audience"`
	UserID   uint    `json:"user_id,omitempty"`
	Payload  Payload `json:"payload"`
	SentAt   int64   `json:"sent_at"`
}

type Dispatcher struct {
	writer *kafka.Writer
}

func NewDispatcher(brokers []string, topic string) *Dispatcher {
	return &Dispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (d *Dispatcher) publish(ctx context.Context, key string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("notify: publish failed: %w", err)
	}
	return nil
}

func (d *Dispatcher) NotifyAdmins(ctx context.Context, payload Payload) error {
	return d.publish(ctx, AudienceAdmins, Event{
		Audience: AudienceAdmins,
		Payload:  payload,
		SentAt:   time.Now().Unix(),
	})
}

func (d *Dispatcher) NotifyUser(ctx context.Context, userID uint, payload Payload) error {
	return d.publish(ctx, "user-"+strconv.FormatUint(uint64(userID), 10), Event{
		Audience: AudienceUser,
		UserID:   userID,
		Payload:  payload,
		SentAt:   time.Now().Unix(),
	})
}

func (d *Dispatcher) Close() error {
	return d.writer.Close()
}
