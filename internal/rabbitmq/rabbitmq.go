// Package rabbitmq publishes outbound mail jobs for the separate mail
// sender worker to consume.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"survey_backend/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

const purposeWelcome = "welcome"

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func New(urlForConn string, queueName string) (*Client, error) {
	const op = "rabbitmq.New"

	conn, err := amqp.Dial(urlForConn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		queueName, true, false, false, false, nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   q,
	}, nil
}

// PublishWelcome enqueues the welcome email for a freshly registered user.
func (c *Client) PublishWelcome(ctx context.Context, user models.User) error {
	const op = "rabbitmq.PublishWelcome"

	msg := models.Message{
		Email:   user.Email,
		Name:    user.FullName(),
		Purpose: purposeWelcome,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		"",
		c.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) Close() {
	_ = c.channel.Close()
	_ = c.conn.Close()
}
