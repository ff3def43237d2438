package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veltta-hub/pkg/config"
	"veltta-hub/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notifications"
	NotificationRoutingKey = "notify"

	maxPriority = 10
)

// NotificationTask is the message body exchanged between the hub and the notification worker.
type NotificationTask struct {
	Type        string    `json:"type"`
	Destination string    `json:"destination"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	ReplyTo     string    `json:"reply_to,omitempty"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": maxPriority,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		NotificationQueueName,  // queue name
		NotificationRoutingKey, // routing key
		NotificationExchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func clampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return uint8(p)
}

// PublishNotificationTask publishes a notification task to the queue with priority
func (c *Client) PublishNotificationTask(ctx context.Context, task NotificationTask) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		NotificationExchange,   // exchange
		NotificationRoutingKey, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     clampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    task.CreatedAt,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish message to exchange=%s, routing_key=%s: %v", NotificationExchange, NotificationRoutingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published notification task type=%s destination=%s", task.Type, task.Destination)
	return nil
}

// DecodeTask parses a delivery body into a task.
func DecodeTask(body []byte) (NotificationTask, error) {
	var task NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("failed to unmarshal notification task: %w", err)
	}
	if task.Destination == "" || task.Message == "" {
		return task, fmt.Errorf("notification task is missing destination or message")
	}
	return task, nil
}

// ConsumeNotificationTasks consumes notification tasks from the queue until ctx is done.
func (c *Client) ConsumeNotificationTasks(ctx context.Context, handler func(task NotificationTask) error) error {
	msgs, err := c.channel.Consume(
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from notification queue: %s", NotificationQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("[RABBITMQ] Delivery channel closed")
					return
				}

				c.handleDelivery(msg, handler)
			}
		}
	}()

	return nil
}

// handleDelivery acks handled tasks and drops malformed ones. A failed task is requeued once;
// a failed redelivery is dropped.
func (c *Client) handleDelivery(msg amqp.Delivery, handler func(task NotificationTask) error) {
	task, err := DecodeTask(msg.Body)
	if err != nil {
		c.logger.Error("[RABBITMQ] Dropping message: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(task); err != nil {
		requeue := !msg.Redelivered
		c.logger.Error("[RABBITMQ] Handler failed to process notification task type=%s requeue=%t: %v", task.Type, requeue, err)
		msg.Nack(false, requeue)
		return
	}

	msg.Ack(false)
}

// GetQueueLength returns the number of messages in the queue
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
