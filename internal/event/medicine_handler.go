package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	TopicMedicineCreated = "medicine.created"
	TopicMedicineUpdated = "medicine.updated"
	TopicMedicineDeleted = "medicine.deleted"
)

// DateLayout formats ExpiryDate in event payloads.
const DateLayout = time.DateOnly

// MedicineChangedEvent is published after a medicine is created or replaced.
type MedicineChangedEvent struct {
	MedicineID  int64  `json:"medicine_id"`
	Name        string `json:"name"`
	BatchNumber string `json:"batch_number"`
	ExpiryDate  string `json:"expiry_date"`
	Quantity    int32  `json:"quantity"`
}

// MedicineDeletedEvent is published after a medicine row is removed.
type MedicineDeletedEvent struct {
	MedicineID int64 `json:"medicine_id"`
}

func (s *Service) handleMedicineChangedEvent(ctx context.Context, topic string, ev MedicineChangedEvent) error {
	expiry, err := time.Parse(DateLayout, ev.ExpiryDate)
	if err != nil {
		return fmt.Errorf("parse expiry date %q: %w", ev.ExpiryDate, err)
	}

	now := s.now()
	lowStock := s.policy.IsLowStock(ev.Quantity)
	nearExpiry := s.policy.IsNearExpiry(expiry, now)

	if !lowStock && !nearExpiry {
		s.logger.DebugContext(ctx, "medicine changed",
			slog.String("topic", topic),
			slog.Int64("medicine_id", ev.MedicineID),
		)
		return nil
	}

	s.logger.WarnContext(ctx, "stock alert",
		slog.String("topic", topic),
		slog.Int64("medicine_id", ev.MedicineID),
		slog.String("name", ev.Name),
		slog.String("batch_number", ev.BatchNumber),
		slog.Bool("low_stock", lowStock),
		slog.Int("quantity", int(ev.Quantity)),
		slog.Bool("near_expiry", nearExpiry),
		slog.String("expiry_date", ev.ExpiryDate),
	)
	return nil
}

func (s *Service) handleMedicineDeletedEvent(ctx context.Context, ev MedicineDeletedEvent) error {
	s.logger.InfoContext(ctx, "medicine deleted", slog.Int64("medicine_id", ev.MedicineID))
	return nil
}
