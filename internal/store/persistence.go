package store

//go:generate mockgen -source ./persistence.go -destination=./mocks/persister.go -package=mock_store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// saveTimeout bounds a single snapshot write triggered by a mutation.
const saveTimeout = 5 * time.Second

// Persister reads and writes the raw snapshot stored under one key.
// Load returns nil, nil when nothing has been stored yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Restore loads the stored snapshot, or returns the seed data when the
// backend is empty. seeded reports which of the two happened.
func Restore(ctx context.Context, p Persister, now time.Time) (st State, seeded bool, err error) {
	data, err := p.Load(ctx)
	if err != nil {
		return State{}, false, fmt.Errorf("store.Restore: %w", err)
	}
	if len(data) == 0 {
		return SeedState(now), true, nil
	}
	st, _, err = DecodeSnapshot(data)
	if err != nil {
		return State{}, false, fmt.Errorf("store.Restore: %w", err)
	}
	return st, false, nil
}

// Save writes s through p.
func Save(ctx context.Context, p Persister, s State) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	if err := p.Save(ctx, data); err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

// AutoSave returns a subscriber that writes the snapshot after every change
// to the persisted subset. Failures are logged and passed to onFailure, the
// in-memory state is kept either way.
func AutoSave(p Persister, log *zap.Logger, onFailure func(error)) Subscriber {
	return func(change Change, s State) {
		if !change.Persistent() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := Save(ctx, p, s); err != nil {
			log.Error("snapshot save failed",
				zap.String("change", string(change.Kind)),
				zap.String("order_id", change.OrderID),
				zap.Error(err),
			)
			if onFailure != nil {
				onFailure(err)
			}
		}
	}
}

// AuditLog returns a subscriber that records every change as a structured entry.
func AuditLog(log *zap.Logger) Subscriber {
	return func(change Change, _ State) {
		fields := []zap.Field{zap.String("kind", string(change.Kind))}
		if change.OrderID != "" {
			fields = append(fields, zap.String("order_id", change.OrderID))
		}
		if change.From != "" {
			fields = append(fields, zap.String("from", change.From.String()))
		}
		if change.To != "" {
			fields = append(fields, zap.String("to", change.To.String()))
		}
		if change.CourierID != "" {
			fields = append(fields, zap.String("courier_id", change.CourierID))
		}
		if change.Actor != "" {
			fields = append(fields, zap.String("actor", change.Actor))
		}
		log.Info("state changed", fields...)
	}
}
