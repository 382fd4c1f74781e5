package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
	policy     model.AlertPolicy
	now        func() time.Time
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	policy model.AlertPolicy,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
		policy:     policy,
		now:        time.Now,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.RegisterHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// RegisterHandlers subscribes the medicine topics on the consumer.
func (s *Service) RegisterHandlers() error {
	changed := func(ctx context.Context, topic string, payload []byte) error {
		var ev MedicineChangedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal medicine changed event: %w", err)
		}

		if err := s.handleMedicineChangedEvent(ctx, topic, ev); err != nil {
			return fmt.Errorf("handle medicine changed event: %w", err)
		}

		return nil
	}

	for _, topic := range []string{TopicMedicineCreated, TopicMedicineUpdated} {
		if err := s.mqConsumer.RegisterHandler(topic, changed); err != nil {
			return fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	if err := s.mqConsumer.RegisterHandler(
		TopicMedicineDeleted,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev MedicineDeletedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal medicine deleted event: %w", err)
			}

			if err := s.handleMedicineDeletedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle medicine deleted event: %w", err)
			}

			return nil
		},
	); err != nil {
		return fmt.Errorf("register %s event handler: %w", TopicMedicineDeleted, err)
	}

	return nil
}
