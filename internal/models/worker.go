package models

import (
	"strings"
	"time"
)

// WorkerStatus represents the status of a receipt worker
type WorkerStatus string

const (
	WorkerOnline  WorkerStatus = "online"
	WorkerOffline WorkerStatus = "offline"
)

// Worker represents a registered receipt printer worker
type Worker struct {
	ID              int          `json:"id,omitempty" db:"id"`
	CreatedAt       time.Time    `json:"created_at,omitempty" db:"created_at"`
	Name            string       `json:"worker_name" db:"name"`
	Type            string       `json:"type,omitempty" db:"type"`
	Status          WorkerStatus `json:"status" db:"status"`
	LastSeen        time.Time    `json:"last_seen" db:"last_seen"`
	OrdersProcessed int          `json:"orders_processed" db:"orders_processed"`
}

// WorkerStatusResponse represents the response for worker status queries
type WorkerStatusResponse struct {
	WorkerName      string    `json:"worker_name"`
	Status          string    `json:"status"`
	OrdersProcessed int       `json:"orders_processed"`
	LastSeen        time.Time `json:"last_seen"`
}

// ParseOrderTypes parses a comma-separated string of order types into a slice
func ParseOrderTypes(orderTypesStr string) []OrderType {
	if orderTypesStr == "" {
		return nil
	}

	var orderTypes []OrderType
	for _, part := range strings.Split(orderTypesStr, ",") {
		switch strings.TrimSpace(part) {
		case "dine_in":
			orderTypes = append(orderTypes, DineIn)
		case "takeaway":
			orderTypes = append(orderTypes, Takeaway)
		case "delivery":
			orderTypes = append(orderTypes, Delivery)
		}
	}

	return orderTypes
}

// IsOnline checks if a worker is considered online based on heartbeat interval
func (w *Worker) IsOnline(heartbeatInterval time.Duration) bool {
	if w.Status == WorkerOffline {
		return false
	}
	return time.Since(w.LastSeen) <= 2*heartbeatInterval
}
