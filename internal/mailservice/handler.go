package mailservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/blogapi/internal/common"
)

func NewMailService(mb common.MessageConsumer, cfg Config, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(cfg, NewTemplate()),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SendWelcomeEmail consumes user.created events in the background and mails every new user.
func (s *MailService) SendWelcomeEmail() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		return fmt.Errorf("could not consume user created events: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery) {
	var event common.UserCreatedEvent

	err := json.Unmarshal(msg.Body, &event)
	if err != nil || event.Email == "" {
		s.logger.Error("could not unmarshal message", slog.Any("error", err))
		_ = msg.Nack(false, false)
		return
	}

	if err := s.deliver(event); err != nil {
		s.logger.Error("could not send welcome email", slog.String("email", event.Email), slog.String("error", err.Error()))
	}

	_ = msg.Ack(false)
}

// deliver sends the welcome email, retrying with exponential backoff and full jitter.
func (s *MailService) deliver(event common.UserCreatedEvent) error {
	var err error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(event.Email, event, WelcomeEmailTemplate)
		if err == nil {
			s.logger.Info("welcome email sent", slog.String("email", event.Email))
			return nil
		}

		if attempt == s.maxRetries-1 || s.baseDelay <= 0 {
			continue
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying welcome email", slog.String("email", event.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

// Close stops the consumer and waits for the message being processed.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
