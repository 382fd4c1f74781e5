package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/repository"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db/dbtest"
)

func newMedicine(name, batch string, quantity int32, expiry time.Time) model.Medicine {
	return model.Medicine{
		Name:        name,
		BatchNumber: batch,
		ExpiryDate:  expiry,
		Quantity:    quantity,
		SupplierID:  1,
		CategoryID:  2,
		Price:       decimal.RequireFromString("12.50"),
	}
}

func TestMedicineRepository(t *testing.T) {
	client := dbtest.New(t)
	repo := repository.NewMedicineRepository(client)
	ctx := context.Background()
	today := model.Today(time.Now())

	aspirinID, err := repo.CreateMedicine(ctx, newMedicine("Aspirin", "B-100", 5, today.AddDate(0, 0, 10)))
	require.NoError(t, err)
	ibuprofenID, err := repo.CreateMedicine(ctx, newMedicine("Ibuprofen", "ASP-7", 15, today.AddDate(0, 0, 40)))
	require.NoError(t, err)
	paracetamolID, err := repo.CreateMedicine(ctx, newMedicine("Paracetamol", "P-1", 50, today.AddDate(0, 0, -1)))
	require.NoError(t, err)

	t.Run("Should list in id order with assigned ids", func(t *testing.T) {
		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		require.Len(t, medicines, 3)

		assert.Less(t, aspirinID, ibuprofenID)
		assert.Less(t, ibuprofenID, paracetamolID)
		assert.Equal(t, []int64{aspirinID, ibuprofenID, paracetamolID},
			[]int64{medicines[0].ID, medicines[1].ID, medicines[2].ID})

		got := medicines[0]
		assert.Equal(t, "Aspirin", got.Name)
		assert.Equal(t, "B-100", got.BatchNumber)
		assert.Equal(t, today.AddDate(0, 0, 10), got.ExpiryDate.UTC())
		assert.Equal(t, int32(5), got.Quantity)
		assert.True(t, decimal.RequireFromString("12.50").Equal(got.Price))
	})

	t.Run("Should search case-insensitively across name and batch", func(t *testing.T) {
		medicines, err := repo.SearchMedicines(ctx, "asp")
		require.NoError(t, err)

		names := make([]string, 0, len(medicines))
		for _, m := range medicines {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"Aspirin", "Ibuprofen"}, names)
	})

	t.Run("Should return everything for an empty query", func(t *testing.T) {
		medicines, err := repo.SearchMedicines(ctx, "")
		require.NoError(t, err)
		assert.Len(t, medicines, 3)
	})

	t.Run("Should list low stock strictly below threshold", func(t *testing.T) {
		medicines, err := repo.ListLowStockMedicines(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []model.LowStockMedicine{{ID: aspirinID, Name: "Aspirin", Quantity: 5}}, medicines)
	})

	t.Run("Should list near expiry including expired", func(t *testing.T) {
		medicines, err := repo.ListNearExpiryMedicines(ctx, today.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.Len(t, medicines, 2)
		assert.Equal(t, paracetamolID, medicines[0].ID)
		assert.Equal(t, aspirinID, medicines[1].ID)
	})

	t.Run("Should report a missing row on update without creating it", func(t *testing.T) {
		missing := newMedicine("Ghost", "G-0", 1, today)
		missing.ID = paracetamolID + 1000

		found, err := repo.UpdateMedicine(ctx, missing)
		require.NoError(t, err)
		assert.False(t, found)

		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		assert.Len(t, medicines, 3)
	})

	t.Run("Should replace every field on update", func(t *testing.T) {
		updated := newMedicine("Aspirin Forte", "B-101", 25, today.AddDate(0, 1, 0))
		updated.ID = aspirinID
		updated.Price = decimal.RequireFromString("3.99")

		found, err := repo.UpdateMedicine(ctx, updated)
		require.NoError(t, err)
		assert.True(t, found)

		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Aspirin Forte", medicines[0].Name)
		assert.Equal(t, int32(25), medicines[0].Quantity)
		assert.True(t, decimal.RequireFromString("3.99").Equal(medicines[0].Price))
	})

	t.Run("Should leave the store unchanged when deleting a missing id", func(t *testing.T) {
		found, err := repo.DeleteMedicine(ctx, paracetamolID+1000)
		require.NoError(t, err)
		assert.False(t, found)

		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		assert.Len(t, medicines, 3)
	})

	t.Run("Should delete an existing id", func(t *testing.T) {
		found, err := repo.DeleteMedicine(ctx, ibuprofenID)
		require.NoError(t, err)
		assert.True(t, found)

		medicines, err := repo.ListMedicines(ctx)
		require.NoError(t, err)
		assert.Len(t, medicines, 2)
	})
}

func TestMedicineRepositoryEmpty(t *testing.T) {
	client := dbtest.New(t)
	repo := repository.NewMedicineRepository(client)

	medicines, err := repo.ListMedicines(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, medicines)
	assert.Empty(t, medicines)
}
