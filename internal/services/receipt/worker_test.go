package receipt

import (
	"context"
	"testing"
	"time"

	"pos-system/internal/logger"
	"pos-system/internal/models"
)

func testWorker() *Worker {
	return NewWorker("printer-1", nil, time.Hour, 1, nil, nil, nil, logger.New("receipt-worker"))
}

func TestHeartbeatLoopStopsOnShutdown(t *testing.T) {
	w := testWorker()

	stopped := make(chan struct{})
	go func() {
		w.heartbeatLoop(context.Background())
		close(stopped)
	}()

	close(w.stop)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("heartbeat loop still running after shutdown began")
	}
}

func TestHeartbeatLoopStopsOnContextCancel(t *testing.T) {
	w := testWorker()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		w.heartbeatLoop(ctx)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("heartbeat loop still running after context cancellation")
	}
}

func TestCanHandleOrderType(t *testing.T) {
	tests := []struct {
		name       string
		orderTypes []string
		orderType  string
		want       bool
	}{
		{name: "no specialization handles all", orderTypes: nil, orderType: "delivery", want: true},
		{name: "matching specialization", orderTypes: []string{"dine_in"}, orderType: "dine_in", want: true},
		{name: "non-matching specialization", orderTypes: []string{"dine_in"}, orderType: "takeaway", want: false},
		{name: "one of several", orderTypes: []string{"takeaway", "delivery"}, orderType: "delivery", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testWorker()
			for _, s := range tt.orderTypes {
				w.orderTypes = append(w.orderTypes, models.OrderType(s))
			}
			if got := w.canHandleOrderType(models.OrderType(tt.orderType)); got != tt.want {
				t.Errorf("canHandleOrderType(%s) = %v, want %v", tt.orderType, got, tt.want)
			}
		})
	}
}
