package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConfirmationQueue 确认邮件任务队列
const ConfirmationQueue = "mail.confirmation"

// Notification 待发送的通知
type Notification struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationSender 通知发送方，失败只记录不影响主流程
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// AMQPNotifier 将邮件任务投递到 RabbitMQ，由独立的邮件服务消费
type AMQPNotifier struct {
	url   string
	queue string
}

// NewAMQPNotifier 创建 RabbitMQ 通知发送方
func NewAMQPNotifier(url string) *AMQPNotifier {
	return &AMQPNotifier{url: url, queue: ConfirmationQueue}
}

// Send 发布一条持久化消息
func (n *AMQPNotifier) Send(ctx context.Context, msg Notification) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		n.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// LogNotifier 未配置消息队列时把通知写入日志（开发环境）
type LogNotifier struct {
	Logger *slog.Logger
	// ShowBody 为 false 时不输出正文，避免确认码进入生产日志
	ShowBody bool
}

// Send 记录通知
func (n *LogNotifier) Send(ctx context.Context, msg Notification) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	args := []any{"to", msg.To, "subject", msg.Subject}
	if n.ShowBody {
		args = append(args, "body", msg.Body)
	}
	logger.InfoContext(ctx, "notification", args...)
	return nil
}
