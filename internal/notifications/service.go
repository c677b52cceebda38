package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"stash/internal/shared/config"
	"stash/internal/users"
)

// Service queues account emails through Kafka and drains them with
// consumer workers. Publishing is best-effort; callers never block on
// delivery failures.
type Service interface {
	UserRegistered(ctx context.Context, user *users.User)
	PasswordChanged(ctx context.Context, user *users.User)

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type emailNotificationService struct {
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService
	numWorkers   int

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewService wires the producer, consumer and email sender from application
// config. When SMTP is not configured, emails are logged instead of sent.
func NewService(cfg *config.Config) (Service, error) {
	var emailService EmailService
	if cfg.Email.SMTPHost != "" {
		smtpService, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	} else {
		log.Println("📧 SMTP not configured, using mock email service")
		emailService = NewMockEmailService()
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.Topic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.Topic}
	consumerConfig.GroupID = cfg.Kafka.GroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &emailNotificationService{
		producer:     producer,
		consumer:     consumer,
		emailService: emailService,
		numWorkers:   3,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *emailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting Email Notification Service...")

	if err := ens.consumer.StartConsumers(ens.ctx, ens.numWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("✅ Email Notification Service started successfully")

	return nil
}

func (ens *emailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping Email Notification Service...")

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("✅ Email Notification Service stopped")

	return nil
}

// UserRegistered queues a welcome email for a new account
func (ens *emailNotificationService) UserRegistered(ctx context.Context, user *users.User) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeUserRegistered).
		WithRecipient(user.ID, user.Email, recipientName(user)).
		WithSubject("🎉 Welcome to Stash!").
		Build()

	if err := ens.producer.PublishNotification(ctx, notification); err != nil {
		log.Printf("📤 Failed to queue welcome email for %s: %v", user.Email, err)
	}
}

// PasswordChanged queues a security alert after a password change
func (ens *emailNotificationService) PasswordChanged(ctx context.Context, user *users.User) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypePasswordChanged).
		WithRecipient(user.ID, user.Email, recipientName(user)).
		WithSubject("🔐 Your password was changed").
		Build()

	if err := ens.producer.PublishNotification(ctx, notification); err != nil {
		log.Printf("📤 Failed to queue password change email for %s: %v", user.Email, err)
	}
}

func (ens *emailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}

func recipientName(user *users.User) string {
	if user.FullName != nil && *user.FullName != "" {
		return *user.FullName
	}
	return user.Email
}
