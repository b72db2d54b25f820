package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pos-system/internal/logger"
	"pos-system/internal/messaging"
	"pos-system/internal/models"
	"pos-system/internal/pricing"
)

// Subscriber handles receipt-ready notifications
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	// Graceful shutdown
	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   logger,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start starts the notification subscriber
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	// Set up graceful shutdown
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	// Start message consumption
	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleNotification); err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	// Wait for shutdown signal or consumer to finish
	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

// handleNotification processes incoming receipt-ready notifications
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var readyMsg models.ReceiptReadyMessage
	if err := json.Unmarshal(body, &readyMsg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	s.logger.Debug("notification_received", "Received receipt-ready notification", requestID, map[string]interface{}{
		"order_number": readyMsg.OrderNumber,
		"printed_by":   readyMsg.PrintedBy,
	})

	s.displayNotification(&readyMsg)

	return nil
}

// displayNotification prints a human-readable update for the floor staff
func (s *Subscriber) displayNotification(msg *models.ReceiptReadyMessage) {
	fmt.Printf("[%s] Recibo listo: %s por %s (impreso por %s)\n",
		msg.Timestamp.Format("15:04:05"),
		msg.OrderNumber,
		pricing.FormatCOP(msg.Total),
		msg.PrintedBy,
	)
}

// gracefulShutdown handles graceful shutdown of the subscriber
func (s *Subscriber) gracefulShutdown(requestID string) error {
	if s.consumer != nil {
		s.consumer.Close()
	}
	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
