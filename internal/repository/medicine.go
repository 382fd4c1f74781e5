package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
)

type MedicineRepository interface {
	WithDB(db db.DB) MedicineRepository
	ListMedicines(ctx context.Context) ([]model.Medicine, error)
	// CreateMedicine inserts every field but ID and returns the assigned ID.
	CreateMedicine(ctx context.Context, medicine model.Medicine) (int64, error)
	// UpdateMedicine replaces every field of the row matching medicine.ID and
	// reports whether such a row existed.
	UpdateMedicine(ctx context.Context, medicine model.Medicine) (bool, error)
	// DeleteMedicine reports whether a row was deleted.
	DeleteMedicine(ctx context.Context, id int64) (bool, error)
	SearchMedicines(ctx context.Context, query string) ([]model.Medicine, error)
	ListLowStockMedicines(ctx context.Context, threshold int32) ([]model.LowStockMedicine, error)
	ListNearExpiryMedicines(ctx context.Context, cutoff time.Time) ([]model.NearExpiryMedicine, error)
}

type medicineRepository struct {
	db db.DB
}

func NewMedicineRepository(db db.DB) MedicineRepository {
	return &medicineRepository{
		db: db,
	}
}

func (r medicineRepository) WithDB(db db.DB) MedicineRepository {
	return &medicineRepository{
		db: db,
	}
}

type medicineRow struct {
	MedicineID  int64           `db:"medicine_id"`
	Name        string          `db:"name"`
	BatchNumber string          `db:"batch_number"`
	ExpiryDate  time.Time       `db:"expiry_date"`
	Quantity    int32           `db:"quantity"`
	SupplierID  int64           `db:"supplier_id"`
	CategoryID  int64           `db:"category_id"`
	Price       decimal.Decimal `db:"price"`
}

const medicineColumns = `medicine_id, name, batch_number, expiry_date, quantity, supplier_id, category_id, price`

func (r medicineRepository) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		ORDER BY medicine_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("query medicines: %w", err)
	}

	medicines, err := collectMedicines(rows)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}

	return medicines, nil
}

func (r medicineRepository) CreateMedicine(ctx context.Context, medicine model.Medicine) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO medicines (name, batch_number, expiry_date, quantity, supplier_id, category_id, price)
		VALUES (@name, @batch_number, @expiry_date, @quantity, @supplier_id, @category_id, @price)
		RETURNING medicine_id;
	`, medicineArgs(medicine)).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert medicine: %w", err)
	}

	return id, nil
}

func (r medicineRepository) UpdateMedicine(ctx context.Context, medicine model.Medicine) (bool, error) {
	args := medicineArgs(medicine)
	args["medicine_id"] = medicine.ID

	tag, err := r.db.Exec(ctx, `
		UPDATE medicines SET
			name         = @name,
			batch_number = @batch_number,
			expiry_date  = @expiry_date,
			quantity     = @quantity,
			supplier_id  = @supplier_id,
			category_id  = @category_id,
			price        = @price
		WHERE medicine_id = @medicine_id;
	`, args)
	if err != nil {
		return false, fmt.Errorf("update medicine: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r medicineRepository) DeleteMedicine(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE medicine_id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete medicine: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SearchMedicines matches query case-insensitively as a substring of the
// name or the batch number. Wildcards typed by the caller are honoured.
func (r medicineRepository) SearchMedicines(ctx context.Context, query string) ([]model.Medicine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE name ILIKE @pattern OR batch_number ILIKE @pattern
		ORDER BY medicine_id;
	`, pgx.NamedArgs{
		"pattern": "%" + query + "%",
	})
	if err != nil {
		return nil, fmt.Errorf("query medicines: %w", err)
	}

	medicines, err := collectMedicines(rows)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}

	return medicines, nil
}

func (r medicineRepository) ListLowStockMedicines(ctx context.Context, threshold int32) ([]model.LowStockMedicine, error) {
	type lowStockRow struct {
		MedicineID int64  `db:"medicine_id"`
		Name       string `db:"name"`
		Quantity   int32  `db:"quantity"`
	}

	rows, err := r.db.Query(ctx, `
		SELECT medicine_id, name, quantity
		FROM medicines
		WHERE quantity < $1
		ORDER BY medicine_id;
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("query low stock medicines: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[lowStockRow])
	if err != nil {
		return nil, fmt.Errorf("collect low stock medicines: %w", err)
	}

	medicines := make([]model.LowStockMedicine, 0, len(results))
	for _, row := range results {
		medicines = append(medicines, model.LowStockMedicine{
			ID:       row.MedicineID,
			Name:     row.Name,
			Quantity: row.Quantity,
		})
	}

	return medicines, nil
}

func (r medicineRepository) ListNearExpiryMedicines(ctx context.Context, cutoff time.Time) ([]model.NearExpiryMedicine, error) {
	type nearExpiryRow struct {
		MedicineID int64     `db:"medicine_id"`
		Name       string    `db:"name"`
		ExpiryDate time.Time `db:"expiry_date"`
	}

	rows, err := r.db.Query(ctx, `
		SELECT medicine_id, name, expiry_date
		FROM medicines
		WHERE expiry_date <= $1
		ORDER BY expiry_date, medicine_id;
	`, pgtype.Date{Time: cutoff, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("query near expiry medicines: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[nearExpiryRow])
	if err != nil {
		return nil, fmt.Errorf("collect near expiry medicines: %w", err)
	}

	medicines := make([]model.NearExpiryMedicine, 0, len(results))
	for _, row := range results {
		medicines = append(medicines, model.NearExpiryMedicine{
			ID:         row.MedicineID,
			Name:       row.Name,
			ExpiryDate: row.ExpiryDate,
		})
	}

	return medicines, nil
}

func collectMedicines(rows pgx.Rows) ([]model.Medicine, error) {
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[medicineRow])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	medicines := make([]model.Medicine, 0, len(results))
	for _, row := range results {
		medicines = append(medicines, rowToModelMedicine(row))
	}

	return medicines, nil
}

func rowToModelMedicine(row medicineRow) model.Medicine {
	return model.Medicine{
		ID:          row.MedicineID,
		Name:        row.Name,
		BatchNumber: row.BatchNumber,
		ExpiryDate:  row.ExpiryDate,
		Quantity:    row.Quantity,
		SupplierID:  row.SupplierID,
		CategoryID:  row.CategoryID,
		Price:       row.Price,
	}
}

func medicineArgs(medicine model.Medicine) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":         medicine.Name,
		"batch_number": medicine.BatchNumber,
		"expiry_date":  pgtype.Date{Time: medicine.ExpiryDate, Valid: true},
		"quantity":     medicine.Quantity,
		"supplier_id":  medicine.SupplierID,
		"category_id":  medicine.CategoryID,
		"price":        medicine.Price,
	}
}
