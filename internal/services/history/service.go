package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pos-system/internal/database"
	"pos-system/internal/logger"
	"pos-system/internal/models"
)

// ErrOrderNotFound is returned when no order matches the requested number
var ErrOrderNotFound = errors.New("order not found")

// Service provides read access to persisted orders
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new history service
func NewService(db *database.DB, logger *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// GetOrder retrieves the current state of a confirmed order
func (s *Service) GetOrder(ctx context.Context, orderNumber, requestID string) (*models.OrderTrackingResponse, error) {
	var (
		id          int
		uid         string
		number      string
		customer    *string
		orderType   string
		tableNumber *int
		payment     string
		subtotal    int64
		tax         int64
		discount    int64
		total       int64
		status      string
		printedBy   *string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := s.db.QueryRow(ctx, database.GetOrderByNumberSQL, orderNumber).Scan(
		&id, &uid, &number, &customer, &orderType, &tableNumber, &payment,
		&subtotal, &tax, &discount, &total, &status, &printedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("db_query_failed", "Failed to query order", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &models.OrderTrackingResponse{
		OrderNumber:   number,
		CurrentStatus: status,
		Total:         total,
		CreatedAt:     createdAt,
		PrintedBy:     printedBy,
	}, nil
}

// GetOrderHistory retrieves the complete status history of an order
func (s *Service) GetOrderHistory(ctx context.Context, orderNumber, requestID string) ([]models.OrderStatusHistory, error) {
	// First check if order exists
	var orderExists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE number = $1)", orderNumber).Scan(&orderExists)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to check order existence", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !orderExists {
		return nil, ErrOrderNotFound
	}

	rows, err := s.db.Query(ctx, database.GetOrderStatusHistorySQL, orderNumber)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query order history", requestID, err, map[string]interface{}{
			"order_number": orderNumber,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var history []models.OrderStatusHistory
	for rows.Next() {
		var entry models.OrderStatusHistory
		err := rows.Scan(
			&entry.Status,
			&entry.ChangedBy,
			&entry.ChangedAt,
			&entry.Notes,
		)
		if err != nil {
			s.logger.Error("db_scan_failed", "Failed to scan order history row", requestID, err, nil)
			return nil, fmt.Errorf("database error: %w", err)
		}

		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		s.logger.Error("db_rows_failed", "Error iterating order history rows", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return history, nil
}

// GetWorkerStatus retrieves the status of all receipt workers
func (s *Service) GetWorkerStatus(ctx context.Context, requestID string) ([]models.WorkerStatusResponse, error) {
	rows, err := s.db.Query(ctx, database.GetAllWorkersSQL)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query worker status", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var workers []models.WorkerStatusResponse
	heartbeatThreshold := 2 * 30 * time.Second // 2 * default heartbeat interval

	for rows.Next() {
		var worker models.Worker
		var createdAt time.Time

		err := rows.Scan(
			&worker.Name,
			&worker.Type,
			&worker.Status,
			&worker.OrdersProcessed,
			&worker.LastSeen,
			&createdAt,
		)
		if err != nil {
			s.logger.Error("db_scan_failed", "Failed to scan worker row", requestID, err, nil)
			return nil, fmt.Errorf("database error: %w", err)
		}

		// Determine if worker is actually online based on heartbeat
		actualStatus := string(worker.Status)
		if worker.Status == models.WorkerOnline {
			if time.Since(worker.LastSeen) > heartbeatThreshold {
				actualStatus = "offline"
			}
		}

		workers = append(workers, models.WorkerStatusResponse{
			WorkerName:      worker.Name,
			Status:          actualStatus,
			OrdersProcessed: worker.OrdersProcessed,
			LastSeen:        worker.LastSeen,
		})
	}

	if err = rows.Err(); err != nil {
		s.logger.Error("db_rows_failed", "Error iterating worker rows", requestID, err, nil)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return workers, nil
}

// HealthCheck checks the health of dependencies
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}
