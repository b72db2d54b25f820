package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (uid, number, customer_name, customer_phone, customer_email, type,
			table_number, note, payment_method, discount_value, discount_kind, discount_reason,
			subtotal, tax, discount, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_uid, product_id, name, quantity, unit_price,
			addon_total, note, discount_value, discount_kind, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	InsertSplitPaymentSQL = `
		INSERT INTO split_payments (order_id, method, amount)
		VALUES ($1, $2, $3)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	UpdateOrderPrintedSQL = `
		UPDATE orders SET status = $1, printed_by = $2, updated_at = NOW()
		WHERE number = $3`

	GetOrderByNumberSQL = `
		SELECT id, uid, number, customer_name, type, table_number, payment_method,
			   subtotal, tax, discount, total, status, printed_by, created_at, updated_at
		FROM orders WHERE number = $1`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = (SELECT id FROM orders WHERE number = $1)
		ORDER BY changed_at ASC`

	GetNextOrderNumberSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 'POS_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE number LIKE $1`
)

// Cart snapshot queries
const (
	UpsertCartSnapshotSQL = `
		INSERT INTO cart_snapshots (session_id, draft, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			draft = EXCLUDED.draft,
			saved_at = EXCLUDED.saved_at`

	GetCartSnapshotSQL = `
		SELECT draft, saved_at FROM cart_snapshots WHERE session_id = $1`

	DeleteCartSnapshotSQL = `
		DELETE FROM cart_snapshots WHERE session_id = $1`
)

// Worker queries
const (
	InsertWorkerSQL = `
		INSERT INTO workers (name, type, status)
		VALUES ($1, $2, 'online')
		ON CONFLICT (name) DO UPDATE SET
			status = 'online',
			last_seen = NOW()
		RETURNING id`

	UpdateWorkerStatusSQL = `
		UPDATE workers SET status = $1, last_seen = NOW()
		WHERE name = $2`

	UpdateWorkerProcessedSQL = `
		UPDATE workers SET last_seen = NOW(), orders_processed = orders_processed + $1
		WHERE name = $2`

	GetAllWorkersSQL = `
		SELECT name, type, status, orders_processed, last_seen, created_at
		FROM workers
		ORDER BY created_at ASC`

	CheckWorkerOnlineSQL = `
		SELECT COUNT(*) FROM workers WHERE name = $1 AND status = 'online'`
)
