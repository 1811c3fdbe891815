package service

import (
	"context"
	"time"

	"assetrail/internal/database"

	"github.com/sirupsen/logrus"
)

// BridgeNotifier is the one-way signal to the external bridge/oracle;
// minting and confirmation past this boundary belong to the collaborator.
type BridgeNotifier interface {
	NotifyDeposit(ctx context.Context, ev database.OutboxEvent) error
}

// LogBridge stands in for the oracle trigger.
type LogBridge struct {
	log *logrus.Logger
}

func NewLogBridge(log *logrus.Logger) *LogBridge {
	return &LogBridge{log: log}
}

func (b *LogBridge) NotifyDeposit(ctx context.Context, ev database.OutboxEvent) error {
	b.log.Infof("triggering bridge mint: %s INR of %s for %s (%s)",
		ev.ValueInINR.String(), ev.AssetSymbol, ev.UserAddress, ev.TransactionID)
	return nil
}

type OutboxStore interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]database.OutboxEvent, error)
	MarkOutboxDelivered(ctx context.Context, id string) error
	BumpOutboxAttempts(ctx context.Context, id string) error
}

// Dispatcher delivers outbox events at-least-once; events stay pending until
// a delivery succeeds. Dedup is the receiving side's job.
type Dispatcher struct {
	store  OutboxStore
	bridge BridgeNotifier
	log    *logrus.Logger
}

func NewDispatcher(store OutboxStore, bridge BridgeNotifier, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{store: store, bridge: bridge, log: log}
}

func (d *Dispatcher) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.log.Info("bridge dispatcher stopping")
				return
			case <-ticker.C:
				d.DispatchPending(ctx)
			}
		}
	}()
}

func (d *Dispatcher) DispatchPending(ctx context.Context) {
	events, err := d.store.FetchPendingOutbox(ctx, 50)
	if err != nil {
		d.log.Warnf("fetch pending outbox failed: %v", err)
		return
	}
	for _, ev := range events {
		if err := d.bridge.NotifyDeposit(ctx, ev); err != nil {
			d.log.Warnf("bridge notify failed for %s: %v", ev.ID, err)
			if err := d.store.BumpOutboxAttempts(ctx, ev.ID); err != nil {
				d.log.Warnf("bump outbox attempts failed for %s: %v", ev.ID, err)
			}
			continue
		}
		if err := d.store.MarkOutboxDelivered(ctx, ev.ID); err != nil {
			d.log.Warnf("mark outbox delivered failed for %s: %v", ev.ID, err)
		}
	}
}
