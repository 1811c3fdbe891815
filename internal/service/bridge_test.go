package service

import (
	"context"
	"errors"
	"testing"

	"assetrail/internal/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeOutbox struct {
	pending   []database.OutboxEvent
	delivered []string
	attempts  map[string]int
}

func (f *fakeOutbox) FetchPendingOutbox(ctx context.Context, limit int) ([]database.OutboxEvent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkOutboxDelivered(ctx context.Context, id string) error {
	f.delivered = append(f.delivered, id)
	remaining := f.pending[:0]
	for _, ev := range f.pending {
		if ev.ID != id {
			remaining = append(remaining, ev)
		}
	}
	f.pending = remaining
	return nil
}

func (f *fakeOutbox) BumpOutboxAttempts(ctx context.Context, id string) error {
	if f.attempts == nil {
		f.attempts = map[string]int{}
	}
	f.attempts[id]++
	return nil
}

type flakyBridge struct {
	failures int
	calls    int
}

func (b *flakyBridge) NotifyDeposit(ctx context.Context, ev database.OutboxEvent) error {
	b.calls++
	if b.calls <= b.failures {
		return errors.New("bridge unavailable")
	}
	return nil
}

func outboxEvent(id string) database.OutboxEvent {
	return database.OutboxEvent{
		ID:            id,
		UserAddress:   "0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688",
		AssetSymbol:   "INR-SGB",
		Quantity:      decimal.NewFromInt(250),
		ValueInINR:    decimal.NewFromInt(250000),
		TransactionID: "TXN_1",
		Status:        database.OutboxPending,
	}
}

func TestDispatchPending_DeliversAndMarks(t *testing.T) {
	store := &fakeOutbox{pending: []database.OutboxEvent{outboxEvent("ev-1"), outboxEvent("ev-2")}}
	bridge := &flakyBridge{}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	d := NewDispatcher(store, bridge, log)

	d.DispatchPending(context.Background())

	assert.Equal(t, []string{"ev-1", "ev-2"}, store.delivered)
	assert.Empty(t, store.pending)
}

func TestDispatchPending_FailedDeliveryStaysPending(t *testing.T) {
	store := &fakeOutbox{pending: []database.OutboxEvent{outboxEvent("ev-1")}}
	bridge := &flakyBridge{failures: 1}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	d := NewDispatcher(store, bridge, log)

	d.DispatchPending(context.Background())
	assert.Empty(t, store.delivered)
	assert.Equal(t, 1, store.attempts["ev-1"])
	assert.Len(t, store.pending, 1)

	// Next tick retries and succeeds: at-least-once.
	d.DispatchPending(context.Background())
	assert.Equal(t, []string{"ev-1"}, store.delivered)
	assert.Empty(t, store.pending)
}
