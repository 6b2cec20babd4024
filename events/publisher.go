package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Fraol7/FoodWagen/models"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const (
	FoodCreated = "food.created"
	FoodUpdated = "food.updated"
	FoodDeleted = "food.deleted"
)

// Event describes one change to a food item. Food is nil for deletions.
type Event struct {
	EventID    string       `json:"event_id"`
	Type       string       `json:"type"`
	FoodID     string       `json:"food_id"`
	Food       *models.Food `json:"food,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func NewEvent(kind, id string, food *models.Food) Event {
	return Event{
		EventID:    uuid.NewString(),
		Type:       kind,
		FoodID:     id,
		Food:       food,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
}

// DialRabbit connects to the broker and declares a durable topic exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		ev.Type,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    ev.EventID,
			Body:         body,
			Timestamp:    ev.OccurredAt,
		})
}

func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
