package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-system/internal/database"
	"pos-system/internal/logger"
	"pos-system/internal/messaging"
	"pos-system/internal/models"
)

// Worker consumes confirmed orders and renders their receipts
type Worker struct {
	name              string
	orderTypes        []models.OrderType
	heartbeatInterval time.Duration
	prefetch          int

	db        *database.DB
	consumer  *messaging.Consumer
	publisher *messaging.Publisher
	logger    *logger.Logger

	// Graceful shutdown. stop is closed exactly once when shutdown begins,
	// so every goroutine observes it.
	shutdown chan os.Signal
	stop     chan struct{}
	done     chan bool
}

// NewWorker creates a new receipt worker
func NewWorker(name string, orderTypes []models.OrderType, heartbeatInterval time.Duration, prefetch int,
	db *database.DB, consumer *messaging.Consumer, publisher *messaging.Publisher, logger *logger.Logger) *Worker {

	return &Worker{
		name:              name,
		orderTypes:        orderTypes,
		heartbeatInterval: heartbeatInterval,
		prefetch:          prefetch,
		db:                db,
		consumer:          consumer,
		publisher:         publisher,
		logger:            logger,
		shutdown:          make(chan os.Signal, 1),
		stop:              make(chan struct{}),
		done:              make(chan bool, 1),
	}
}

// Start starts the receipt worker
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	// Register worker in database
	if err := w.registerWorker(ctx, requestID); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}

	// Set up graceful shutdown
	signal.Notify(w.shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Start heartbeat goroutine
	go w.heartbeatLoop(ctx)

	// Start message processing
	go func() {
		if err := w.consumer.StartConsuming(ctx, w.handleMessage); err != nil {
			w.logger.Error("consumer_failed", "Message consumer failed", requestID, err, nil)
		}
		w.done <- true
	}()

	w.logger.Info("worker_started", fmt.Sprintf("Receipt worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name":        w.name,
		"order_types":        w.orderTypes,
		"heartbeat_interval": w.heartbeatInterval.Seconds(),
		"prefetch":           w.prefetch,
	})

	// Wait for shutdown signal or consumer to finish. Only Start receives
	// from w.shutdown; other goroutines watch w.stop.
	select {
	case <-w.shutdown:
		w.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		close(w.stop)
		return w.gracefulShutdown(ctx, requestID)
	case <-w.done:
		close(w.stop)
		return nil
	}
}

// registerWorker registers the worker in the database
func (w *Worker) registerWorker(ctx context.Context, requestID string) error {
	// Check if worker with same name is already online
	var count int
	err := w.db.QueryRow(ctx, database.CheckWorkerOnlineSQL, w.name).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check worker status: %w", err)
	}

	if count > 0 {
		w.logger.Error("worker_registration_failed", "Worker with same name is already online", requestID, nil, map[string]interface{}{
			"worker_name": w.name,
		})
		return fmt.Errorf("worker %s is already online", w.name)
	}

	// Register or update worker
	var workerID int
	err = w.db.QueryRow(ctx, database.InsertWorkerSQL, w.name, "printer").Scan(&workerID)
	if err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}

	w.logger.Info("worker_registered", fmt.Sprintf("Worker %s registered successfully", w.name), requestID, map[string]interface{}{
		"worker_id":   workerID,
		"worker_name": w.name,
	})

	return nil
}

// handleMessage processes incoming order messages
func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	// Parse order message
	var orderMsg models.OrderMessage
	if err := json.Unmarshal(body, &orderMsg); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse order message", requestID, err, nil)
		return fmt.Errorf("failed to parse message: %w", err)
	}

	w.logger.Debug("receipt_processing_started", fmt.Sprintf("Processing receipt for order %s", orderMsg.OrderNumber), requestID, map[string]interface{}{
		"order_number": orderMsg.OrderNumber,
		"order_type":   orderMsg.OrderType,
		"total":        orderMsg.Total,
	})

	// Check if worker can handle this order type
	if !w.canHandleOrderType(models.OrderType(orderMsg.OrderType)) {
		w.logger.Debug("receipt_rejected", fmt.Sprintf("Worker %s cannot handle order type %s", w.name, orderMsg.OrderType), requestID, map[string]interface{}{
			"order_number":           orderMsg.OrderNumber,
			"order_type":             orderMsg.OrderType,
			"worker_specializations": w.orderTypes,
		})
		// Return error to nack and requeue the message
		return fmt.Errorf("worker cannot handle order type %s", orderMsg.OrderType)
	}

	return w.printReceipt(ctx, &orderMsg, requestID)
}

// printReceipt renders the receipt, records the print and fans out the
// receipt-ready notification.
func (w *Worker) printReceipt(ctx context.Context, orderMsg *models.OrderMessage, requestID string) error {
	text := Render(orderMsg)

	// A real printer is out of scope; rendering to the log stands in for the
	// print device.
	fmt.Println(text)

	if err := w.markOrderPrinted(ctx, orderMsg.OrderNumber); err != nil {
		return fmt.Errorf("failed to mark order printed: %w", err)
	}

	readyMsg := models.NewReceiptReadyMessage(orderMsg.OrderNumber, w.name, orderMsg.Total)
	if err := w.publisher.PublishReceiptReady(ctx, readyMsg); err != nil {
		w.logger.Error("notification_publish_failed", "Failed to publish receipt-ready notification", requestID, err, map[string]interface{}{
			"order_number": orderMsg.OrderNumber,
		})
		// Don't fail receipt processing if the notification fails
	}

	w.logger.Debug("receipt_printed", fmt.Sprintf("Printed receipt for order %s", orderMsg.OrderNumber), requestID, map[string]interface{}{
		"order_number": orderMsg.OrderNumber,
		"printed_by":   w.name,
	})

	return nil
}

// markOrderPrinted updates the order status and the worker's processed count
func (w *Worker) markOrderPrinted(ctx context.Context, orderNumber string) error {
	tx, err := w.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, database.UpdateOrderPrintedSQL, models.StatusPrinted, w.name, orderNumber)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	// Get order ID for status log
	var orderID int
	err = tx.QueryRow(ctx, "SELECT id FROM orders WHERE number = $1", orderNumber).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("failed to get order ID: %w", err)
	}

	note := fmt.Sprintf("Receipt printed by %s", w.name)
	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL, orderID, models.StatusPrinted, w.name, note)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	// Increment worker's processed count
	_, err = tx.Exec(ctx, database.UpdateWorkerProcessedSQL, 1, w.name)
	if err != nil {
		return fmt.Errorf("failed to update worker processed count: %w", err)
	}

	return tx.Commit(ctx)
}

// canHandleOrderType checks if worker can handle the given order type
func (w *Worker) canHandleOrderType(orderType models.OrderType) bool {
	// If no specializations, can handle all types
	if len(w.orderTypes) == 0 {
		return true
	}

	for _, specialization := range w.orderTypes {
		if specialization == orderType {
			return true
		}
	}

	return false
}

// heartbeatLoop sends periodic heartbeats to update last_seen
func (w *Worker) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(w.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.sendHeartbeat(ctx); err != nil {
				w.logger.Error("heartbeat_failed", "Failed to send heartbeat", "", err, nil)
			} else {
				w.logger.Debug("heartbeat_sent", "Heartbeat sent successfully", "", nil)
			}
		}
	}
}

// sendHeartbeat updates the worker's last_seen timestamp
func (w *Worker) sendHeartbeat(ctx context.Context) error {
	_, err := w.db.Pool.Exec(ctx, database.UpdateWorkerStatusSQL, "online", w.name)
	return err
}

// gracefulShutdown handles graceful shutdown of the worker
func (w *Worker) gracefulShutdown(ctx context.Context, requestID string) error {
	w.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	// Update worker status to offline
	_, err := w.db.Pool.Exec(ctx, database.UpdateWorkerStatusSQL, "offline", w.name)
	if err != nil {
		w.logger.Error("shutdown_failed", "Failed to update worker status to offline", requestID, err, nil)
	}

	// Close consumer
	if w.consumer != nil {
		w.consumer.Close()
	}

	w.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
