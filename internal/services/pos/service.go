package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pos-system/internal/cart"
	"pos-system/internal/config"
	"pos-system/internal/database"
	"pos-system/internal/logger"
	"pos-system/internal/messaging"
	"pos-system/internal/models"
	"pos-system/internal/pricing"
	"pos-system/internal/snapshot"
)

// Service owns the register sessions and the checkout pipeline
type Service struct {
	db        *database.DB
	publisher *messaging.Publisher
	store     snapshot.Store
	sessions  *sessions
	logger    *logger.Logger

	checkoutDelay time.Duration

	// Per-day order number sequence, recovered from the DB after restarts
	seqMu         sync.Mutex
	orderCounter  int
	lastOrderDate string
}

// NewService creates the POS service
func NewService(db *database.DB, publisher *messaging.Publisher, store snapshot.Store, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		db:            db,
		publisher:     publisher,
		store:         store,
		sessions:      newSessions(store, cfg.DraftTTL(), log),
		logger:        log,
		checkoutDelay: cfg.CheckoutDelay(),
	}
}

// Cart returns the cart for a session, restoring a persisted draft on first
// touch.
func (s *Service) Cart(ctx context.Context, sessionID, requestID string) *cart.Cart {
	return s.sessions.get(ctx, sessionID, requestID)
}

// SaveSnapshot persists the session's current draft. Failures are logged but
// never surfaced: the snapshot is a convenience cache.
func (s *Service) SaveSnapshot(ctx context.Context, sessionID string, c *cart.Cart, requestID string) {
	if err := s.store.Save(ctx, sessionID, c.Snapshot()); err != nil {
		s.logger.Error("snapshot_save_failed", "Failed to save cart snapshot", requestID, err, map[string]interface{}{
			"session_id": sessionID,
		})
	}
}

// Checkout runs the simulated payment flow for the session's cart, persists
// the confirmed order and publishes it to the receipt pipeline. It blocks
// until the artificial processing delay has elapsed.
func (s *Service) Checkout(ctx context.Context, sessionID string, c *cart.Cart, requestID string) (*models.ConfirmedOrder, error) {
	result := <-c.Checkout(s.checkoutDelay)
	if result.Err != nil {
		return nil, result.Err
	}
	order := result.Order

	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	if err := s.persistOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	routingKey := models.GenerateRoutingKey(string(order.OrderType))
	if err := s.publisher.PublishOrder(ctx, models.NewOrderMessage(order), routingKey); err != nil {
		// The order is already persisted; receipt delivery is degraded, not lost.
		s.logger.Error("order_publish_failed", "Failed to publish confirmed order", requestID, err, map[string]interface{}{
			"order_number": order.Number,
			"routing_key":  routingKey,
		})
	}

	s.logger.Info("order_confirmed", fmt.Sprintf("Order %s confirmed", order.Number), requestID, map[string]interface{}{
		"order_number": order.Number,
		"order_type":   string(order.OrderType),
		"total":        order.Total,
		"fully_paid":   fullyPaid(order),
	})

	return order, nil
}

// DismissReceipt drops the staged receipt, resets the draft and clears the
// persisted snapshot.
func (s *Service) DismissReceipt(ctx context.Context, sessionID string, c *cart.Cart, requestID string) (*models.ConfirmedOrder, error) {
	receipt, err := c.DismissReceipt()
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Error("snapshot_delete_failed", "Failed to delete cart snapshot", requestID, err, map[string]interface{}{
			"session_id": sessionID,
		})
	}

	return receipt, nil
}

// nextOrderNumber assigns the next POS_YYYYMMDD_NNN number, recovering the
// day's counter from the database after a restart.
func (s *Service) nextOrderNumber(ctx context.Context) (string, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	today := time.Now().UTC().Format("20060102")
	if s.lastOrderDate != today {
		s.orderCounter = 0
		s.lastOrderDate = today
	}

	if s.orderCounter == 0 {
		var next int
		pattern := fmt.Sprintf("POS_%s_%%", today)
		if err := s.db.QueryRow(ctx, database.GetNextOrderNumberSQL, pattern).Scan(&next); err != nil {
			return "", err
		}
		s.orderCounter = next
	} else {
		s.orderCounter++
	}

	return models.GenerateOrderNumber(time.Now().UTC(), s.orderCounter), nil
}

// persistOrder writes the order, its items, split payments and the initial
// status log entry in one transaction.
func (s *Service) persistOrder(ctx context.Context, order *models.ConfirmedOrder) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.ID,
		order.Number,
		nullable(order.Customer.Name),
		nullable(order.Customer.Phone),
		nullable(order.Customer.Email),
		string(order.OrderType),
		order.TableNumber,
		nullable(order.Note),
		order.PaymentMethod,
		order.DiscountValue,
		nullable(string(order.DiscountKind)),
		nullable(order.DiscountReason),
		order.Subtotal,
		order.Tax,
		order.Discount,
		order.Total,
		string(order.Status),
	).Scan(&orderID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		addonTotal := pricing.EffectiveUnitPrice(item) - item.UnitPrice
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			orderID,
			item.ID,
			nullable(item.ProductID),
			item.Name,
			item.Quantity,
			item.UnitPrice,
			addonTotal,
			nullable(item.Note),
			item.DiscountValue,
			nullable(string(item.DiscountKind)),
			pricing.LineTotal(item),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	for _, payment := range order.SplitPayments {
		_, err = tx.Exec(ctx, database.InsertSplitPaymentSQL, orderID, payment.Method, payment.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert split payment: %w", err)
		}
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		orderID, string(models.StatusPlaced), "pos-service", nil)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	return tx.Commit(ctx)
}

// HealthCheck checks the health of dependencies
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}

func fullyPaid(order *models.ConfirmedOrder) bool {
	if len(order.SplitPayments) == 0 {
		return false
	}
	var paid int64
	for _, p := range order.SplitPayments {
		paid += p.Amount
	}
	return paid == order.Total
}

// nullable maps empty strings onto SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
