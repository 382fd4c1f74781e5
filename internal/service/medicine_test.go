package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/medical-inventory/internal/event"
	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/correlationid"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

type medicineFixture struct {
	svc    *medicineService
	db     *fakeDB
	repo   *memMedicineRepo
	outbox *memOutboxRepo
}

func newMedicineFixture() medicineFixture {
	f := medicineFixture{
		db:     &fakeDB{},
		repo:   &memMedicineRepo{},
		outbox: &memOutboxRepo{},
	}
	svc := NewMedicineService(f.db, f.repo, f.outbox, model.AlertPolicy{LowStockThreshold: 10, NearExpiryDays: 30}).(*medicineService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func params(name, batch string, quantity int32, expiry time.Time) MedicineParams {
	return MedicineParams{
		Name:        name,
		BatchNumber: batch,
		ExpiryDate:  expiry,
		Quantity:    quantity,
		SupplierID:  3,
		CategoryID:  4,
		Price:       decimal.RequireFromString("9.99"),
	}
}

func TestCreateMedicine(t *testing.T) {
	f := newMedicineFixture()
	ctx := correlationid.NewContext(context.Background(), "req-7")
	today := model.Today(fixedNow)

	firstID, err := f.svc.CreateMedicine(ctx, params("Aspirin", "B-1", 5, today))
	require.NoError(t, err)
	secondID, err := f.svc.CreateMedicine(ctx, params("Ibuprofen", "B-2", 20, today))
	require.NoError(t, err)

	t.Run("Should list inserted records in id order", func(t *testing.T) {
		medicines, err := f.svc.ListMedicines(context.Background())
		require.NoError(t, err)
		require.Len(t, medicines, 2)
		assert.Equal(t, firstID, medicines[0].ID)
		assert.Equal(t, secondID, medicines[1].ID)
		assert.Less(t, medicines[0].ID, medicines[1].ID)
	})

	t.Run("Should write one outbox message per insert in the same transaction", func(t *testing.T) {
		assert.Equal(t, 2, f.db.txs)
		require.Len(t, f.outbox.msgs, 2)

		msg := f.outbox.msgs[0]
		assert.Equal(t, event.TopicMedicineCreated, msg.Topic)
		assert.Equal(t, "1", *msg.PartitionKey)
		assert.Equal(t, "req-7", msg.Headers[correlationid.Header])

		var ev event.MedicineChangedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, event.MedicineChangedEvent{
			MedicineID:  firstID,
			Name:        "Aspirin",
			BatchNumber: "B-1",
			ExpiryDate:  "2026-10-19",
			Quantity:    5,
		}, ev)
	})
}

func TestUpdateMedicine(t *testing.T) {
	today := model.Today(fixedNow)

	t.Run("Should succeed without creating anything for a missing id", func(t *testing.T) {
		f := newMedicineFixture()

		err := f.svc.UpdateMedicine(context.Background(), 42, params("Ghost", "G", 1, today))
		require.NoError(t, err)

		medicines, err := f.svc.ListMedicines(context.Background())
		require.NoError(t, err)
		assert.Empty(t, medicines)
		assert.Empty(t, f.outbox.msgs)
	})

	t.Run("Should replace every field of an existing record", func(t *testing.T) {
		f := newMedicineFixture()
		id, err := f.svc.CreateMedicine(context.Background(), params("Aspirin", "B-1", 5, today))
		require.NoError(t, err)

		replacement := params("Aspirin Forte", "B-9", 40, today.AddDate(1, 0, 0))
		require.NoError(t, f.svc.UpdateMedicine(context.Background(), id, replacement))

		medicines, err := f.svc.ListMedicines(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []model.Medicine{replacement.toModel(id)}, medicines)

		require.Len(t, f.outbox.msgs, 2)
		assert.Equal(t, event.TopicMedicineUpdated, f.outbox.msgs[1].Topic)
	})
}

func TestDeleteMedicine(t *testing.T) {
	today := model.Today(fixedNow)

	t.Run("Should leave the store unchanged for a missing id", func(t *testing.T) {
		f := newMedicineFixture()
		_, err := f.svc.CreateMedicine(context.Background(), params("Aspirin", "B-1", 5, today))
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteMedicine(context.Background(), 999))

		medicines, err := f.svc.ListMedicines(context.Background())
		require.NoError(t, err)
		assert.Len(t, medicines, 1)
		assert.Len(t, f.outbox.msgs, 1)
	})

	t.Run("Should delete and emit an event for an existing id", func(t *testing.T) {
		f := newMedicineFixture()
		id, err := f.svc.CreateMedicine(context.Background(), params("Aspirin", "B-1", 5, today))
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteMedicine(context.Background(), id))

		medicines, err := f.svc.ListMedicines(context.Background())
		require.NoError(t, err)
		assert.Empty(t, medicines)

		require.Len(t, f.outbox.msgs, 2)
		assert.Equal(t, event.TopicMedicineDeleted, f.outbox.msgs[1].Topic)
		assert.JSONEq(t, `{"medicine_id":1}`, string(f.outbox.msgs[1].Payload))
	})

	t.Run("Should roll back when the outbox write fails", func(t *testing.T) {
		f := newMedicineFixture()
		id, err := f.svc.CreateMedicine(context.Background(), params("Aspirin", "B-1", 5, today))
		require.NoError(t, err)

		f.outbox.err = errors.New("outbox full")
		err = f.svc.DeleteMedicine(context.Background(), id)
		assert.ErrorContains(t, err, "outbox full")
	})
}

func TestSearchMedicines(t *testing.T) {
	f := newMedicineFixture()
	today := model.Today(fixedNow)
	for _, p := range []MedicineParams{
		params("Aspirin", "B-1", 5, today),
		params("Ibuprofen", "ASP-2", 5, today),
		params("Paracetamol", "P-3", 5, today),
	} {
		_, err := f.svc.CreateMedicine(context.Background(), p)
		require.NoError(t, err)
	}

	all, err := f.svc.SearchMedicines(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matches, err := f.svc.SearchMedicines(context.Background(), "asp")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Aspirin", matches[0].Name)
	assert.Equal(t, "Ibuprofen", matches[1].Name)
}

func TestGetStockAlerts(t *testing.T) {
	f := newMedicineFixture()
	today := model.Today(fixedNow)

	lowID, err := f.svc.CreateMedicine(context.Background(), params("Low", "L", 5, today.AddDate(1, 0, 0)))
	require.NoError(t, err)
	_, err = f.svc.CreateMedicine(context.Background(), params("Plenty", "P", 15, today.AddDate(0, 0, 40)))
	require.NoError(t, err)
	soonID, err := f.svc.CreateMedicine(context.Background(), params("Soon", "S", 50, today.AddDate(0, 0, 10)))
	require.NoError(t, err)
	expiredID, err := f.svc.CreateMedicine(context.Background(), params("Expired", "E", 50, today.AddDate(0, 0, -2)))
	require.NoError(t, err)

	f.db.conns = 0
	alerts, err := f.svc.GetStockAlerts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.db.conns, "both queries share one connection")
	assert.Equal(t, int32(10), f.repo.lowStockThreshold)
	assert.Equal(t, time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC), f.repo.expiryCutoff)

	assert.Equal(t, []model.LowStockMedicine{{ID: lowID, Name: "Low", Quantity: 5}}, alerts.LowStock)

	nearIDs := make([]int64, 0, len(alerts.NearExpiry))
	for _, m := range alerts.NearExpiry {
		nearIDs = append(nearIDs, m.ID)
	}
	assert.ElementsMatch(t, []int64{soonID, expiredID}, nearIDs)
}

func TestMedicineServiceErrors(t *testing.T) {
	t.Run("Should expose connection acquisition failures", func(t *testing.T) {
		f := newMedicineFixture()
		f.db.acquireErr = errors.New("dial tcp 127.0.0.1:5432: connection refused")

		_, err := f.svc.ListMedicines(context.Background())
		assert.ErrorIs(t, err, db.ErrConnAcquire)
	})

	t.Run("Should wrap repository failures", func(t *testing.T) {
		f := newMedicineFixture()
		cause := errors.New("relation \"medicines\" does not exist")
		f.repo.err = cause

		_, err := f.svc.ListMedicines(context.Background())
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, db.ErrConnAcquire)

		_, err = f.svc.CreateMedicine(context.Background(), MedicineParams{})
		assert.ErrorIs(t, err, cause)

		_, err = f.svc.GetStockAlerts(context.Background())
		assert.ErrorIs(t, err, cause)
	})
}
