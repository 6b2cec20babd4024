package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Fraol7/FoodWagen/models"
	"github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange, key string
	msg           amqp091.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange, key, msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitPublisherPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch, exchange: "foodwagen_topic"}

	food := &models.Food{ID: "65f1c0ffee0000000000abcd", Name: "Pancake"}
	ev := NewEvent(FoodCreated, food.ID, food)
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(ch.sent) != 1 {
		t.Fatalf("sent %d messages", len(ch.sent))
	}
	got := ch.sent[0]
	if got.exchange != "foodwagen_topic" || got.key != FoodCreated {
		t.Errorf("published to %s/%s", got.exchange, got.key)
	}
	if got.msg.DeliveryMode != amqp091.Persistent || got.msg.ContentType != "application/json" {
		t.Errorf("publishing = %+v", got.msg)
	}

	var decoded Event
	if err := json.Unmarshal(got.msg.Body, &decoded); err != nil {
		t.Fatalf("body: %v", err)
	}
	if decoded.FoodID != food.ID || decoded.Food == nil || decoded.Food.Name != "Pancake" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.EventID == "" || decoded.EventID != got.msg.MessageId {
		t.Errorf("event id %q, message id %q", decoded.EventID, got.msg.MessageId)
	}
}

func TestRabbitPublisherDeleteHasNoBody(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch, exchange: "x"}

	p.Publish(context.Background(), NewEvent(FoodDeleted, "abc", nil))

	var raw map[string]any
	json.Unmarshal(ch.sent[0].msg.Body, &raw)
	if _, ok := raw["food"]; ok {
		t.Errorf("delete event should omit food: %v", raw)
	}
}

func TestRabbitPublisherError(t *testing.T) {
	boom := errors.New("channel closed")
	p := &RabbitPublisher{ch: &fakeChannel{err: boom}, exchange: "x"}

	if err := p.Publish(context.Background(), NewEvent(FoodUpdated, "abc", nil)); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestRabbitPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch}
	if err := p.Close(); err != nil || !ch.closed {
		t.Errorf("Close = %v, closed = %v", err, ch.closed)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), NewEvent(FoodCreated, "x", nil)); err != nil {
		t.Errorf("Publish: %v", err)
	}
}
