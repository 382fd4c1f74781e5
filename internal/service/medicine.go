package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/medical-inventory/internal/event"
	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/repository"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/outbox"
)

// MedicineParams carries every writable medicine field. Create and update
// both require all of them.
type MedicineParams struct {
	Name        string
	BatchNumber string
	ExpiryDate  time.Time
	Quantity    int32
	SupplierID  int64
	CategoryID  int64
	Price       decimal.Decimal
}

type MedicineService interface {
	ListMedicines(ctx context.Context) ([]model.Medicine, error)
	CreateMedicine(ctx context.Context, params MedicineParams) (int64, error)
	// UpdateMedicine replaces the medicine with the given id. A missing id is
	// not an error.
	UpdateMedicine(ctx context.Context, id int64, params MedicineParams) error
	// DeleteMedicine removes the medicine with the given id. A missing id is
	// not an error.
	DeleteMedicine(ctx context.Context, id int64) error
	SearchMedicines(ctx context.Context, query string) ([]model.Medicine, error)
	GetStockAlerts(ctx context.Context) (model.StockAlerts, error)
}

type medicineService struct {
	db            db.DB
	medicineRepo  repository.MedicineRepository
	outboxMsgRepo repository.OutboxMsgRepository
	policy        model.AlertPolicy
	now           func() time.Time
}

func NewMedicineService(
	db db.DB,
	medicineRepo repository.MedicineRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	policy model.AlertPolicy,
) MedicineService {
	return &medicineService{
		db:            db,
		medicineRepo:  medicineRepo,
		outboxMsgRepo: outboxMsgRepo,
		policy:        policy,
		now:           time.Now,
	}
}

func (s *medicineService) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	if err := s.db.WithConn(ctx, func(conn db.DB) error {
		var err error
		medicines, err = s.medicineRepo.WithDB(conn).ListMedicines(ctx)
		if err != nil {
			return fmt.Errorf("medicine repository list medicines: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return medicines, nil
}

func (s *medicineService) CreateMedicine(ctx context.Context, params MedicineParams) (int64, error) {
	medicine := params.toModel(0)

	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		id, err := s.medicineRepo.
			WithDB(tx).
			CreateMedicine(ctx, medicine)
		if err != nil {
			return fmt.Errorf("medicine repository create medicine: %w", err)
		}
		medicine.ID = id

		return s.writeOutboxMsg(ctx, tx, event.TopicMedicineCreated, id, changedEvent(medicine))
	}); err != nil {
		return 0, err
	}

	return medicine.ID, nil
}

func (s *medicineService) UpdateMedicine(ctx context.Context, id int64, params MedicineParams) error {
	medicine := params.toModel(id)

	return s.db.WithTx(ctx, func(tx db.DB) error {
		found, err := s.medicineRepo.
			WithDB(tx).
			UpdateMedicine(ctx, medicine)
		if err != nil {
			return fmt.Errorf("medicine repository update medicine: %w", err)
		}

		if !found {
			return nil
		}

		return s.writeOutboxMsg(ctx, tx, event.TopicMedicineUpdated, id, changedEvent(medicine))
	})
}

func (s *medicineService) DeleteMedicine(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx db.DB) error {
		found, err := s.medicineRepo.
			WithDB(tx).
			DeleteMedicine(ctx, id)
		if err != nil {
			return fmt.Errorf("medicine repository delete medicine: %w", err)
		}

		if !found {
			return nil
		}

		return s.writeOutboxMsg(ctx, tx, event.TopicMedicineDeleted, id, event.MedicineDeletedEvent{MedicineID: id})
	})
}

func (s *medicineService) SearchMedicines(ctx context.Context, query string) ([]model.Medicine, error) {
	var medicines []model.Medicine
	if err := s.db.WithConn(ctx, func(conn db.DB) error {
		var err error
		medicines, err = s.medicineRepo.WithDB(conn).SearchMedicines(ctx, query)
		if err != nil {
			return fmt.Errorf("medicine repository search medicines: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return medicines, nil
}

// GetStockAlerts runs the low stock and near expiry queries on one
// connection. The two results are not taken from a single snapshot.
func (s *medicineService) GetStockAlerts(ctx context.Context) (model.StockAlerts, error) {
	var alerts model.StockAlerts
	cutoff := s.policy.ExpiryCutoff(s.now())

	if err := s.db.WithConn(ctx, func(conn db.DB) error {
		repo := s.medicineRepo.WithDB(conn)

		lowStock, err := repo.ListLowStockMedicines(ctx, s.policy.LowStockThreshold)
		if err != nil {
			return fmt.Errorf("medicine repository list low stock medicines: %w", err)
		}

		nearExpiry, err := repo.ListNearExpiryMedicines(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("medicine repository list near expiry medicines: %w", err)
		}

		alerts = model.StockAlerts{
			LowStock:   lowStock,
			NearExpiry: nearExpiry,
		}
		return nil
	}); err != nil {
		return model.StockAlerts{}, err
	}

	return alerts, nil
}

func (s *medicineService) writeOutboxMsg(ctx context.Context, tx db.DB, topic string, id int64, ev any) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	key := strconv.FormatInt(id, 10)
	if err := s.outboxMsgRepo.
		WithDB(tx).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: &key,
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

func (p MedicineParams) toModel(id int64) model.Medicine {
	return model.Medicine{
		ID:          id,
		Name:        p.Name,
		BatchNumber: p.BatchNumber,
		ExpiryDate:  p.ExpiryDate,
		Quantity:    p.Quantity,
		SupplierID:  p.SupplierID,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
	}
}

func changedEvent(m model.Medicine) event.MedicineChangedEvent {
	return event.MedicineChangedEvent{
		MedicineID:  m.ID,
		Name:        m.Name,
		BatchNumber: m.BatchNumber,
		ExpiryDate:  m.ExpiryDate.Format(event.DateLayout),
		Quantity:    m.Quantity,
	}
}
