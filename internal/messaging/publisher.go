package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"swiftfood/internal/pricing"
)

// Publisher emits order lifecycle events.
type Publisher struct {
	conn *Connection
}

func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// OrderCreatedEvent is the payload published when a customer commits an
// order. It carries the full breakdown as committed, so consumers never
// need a database read to reconstruct the order.
type OrderCreatedEvent struct {
	OrderID       string                    `json:"order_id"`
	CustomerID    string                    `json:"customer_id"`
	RestaurantIDs []string                  `json:"restaurant_ids"`
	TotalPence    int64                     `json:"total_pence"`
	PromoCode     string                    `json:"promo_code,omitempty"`
	Breakdown     *pricing.PricingBreakdown `json:"breakdown"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// PublishOrderCreated publishes the event with routing key
// order.created.<orderID>, persistent, as JSON.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	routingKey := fmt.Sprintf("order.created.%s", event.OrderID)
	return p.publish(ctx, OrdersExchange, routingKey, event)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, message interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", exchange, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
