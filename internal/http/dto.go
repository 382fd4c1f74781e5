package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/medical-inventory/internal/model"
	"github.com/tuanvumaihuynh/medical-inventory/internal/service"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/validator"
)

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type createMedicineResponse struct {
	Message    string `json:"message"`
	MedicineID int64  `json:"medicine_id"`
}

// medicineRequest is the body of create and update. Pointers distinguish a
// missing field from a zero value.
type medicineRequest struct {
	Name        *string          `json:"name" validate:"required"`
	BatchNumber *string          `json:"batch_number" validate:"required"`
	ExpiryDate  *string          `json:"expiry_date" validate:"required,isodate"`
	Quantity    *int32           `json:"quantity" validate:"required"`
	SupplierID  *int64           `json:"supplier_id" validate:"required"`
	CategoryID  *int64           `json:"category_id" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

// toParams must only be called on a validated request.
func (r medicineRequest) toParams() (service.MedicineParams, error) {
	expiry, err := time.Parse(validator.DateLayout, *r.ExpiryDate)
	if err != nil {
		return service.MedicineParams{}, err
	}

	return service.MedicineParams{
		Name:        *r.Name,
		BatchNumber: *r.BatchNumber,
		ExpiryDate:  expiry,
		Quantity:    *r.Quantity,
		SupplierID:  *r.SupplierID,
		CategoryID:  *r.CategoryID,
		Price:       *r.Price,
	}, nil
}

type medicineResponse struct {
	MedicineID  int64   `json:"medicine_id"`
	Name        string  `json:"name"`
	BatchNumber string  `json:"batch_number"`
	ExpiryDate  string  `json:"expiry_date"`
	Quantity    int32   `json:"quantity"`
	SupplierID  int64   `json:"supplier_id"`
	CategoryID  int64   `json:"category_id"`
	Price       float64 `json:"price"`
}

func toMedicineResponses(medicines []model.Medicine) []medicineResponse {
	items := make([]medicineResponse, 0, len(medicines))
	for _, m := range medicines {
		items = append(items, medicineResponse{
			MedicineID:  m.ID,
			Name:        m.Name,
			BatchNumber: m.BatchNumber,
			ExpiryDate:  m.ExpiryDate.Format(validator.DateLayout),
			Quantity:    m.Quantity,
			SupplierID:  m.SupplierID,
			CategoryID:  m.CategoryID,
			Price:       m.Price.InexactFloat64(),
		})
	}
	return items
}

type lowStockResponse struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int32  `json:"quantity"`
}

type nearExpiryResponse struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	ExpiryDate string `json:"expiry_date"`
}

type alertsResponse struct {
	LowStock   []lowStockResponse   `json:"low_stock"`
	NearExpiry []nearExpiryResponse `json:"near_expiry"`
}

func toAlertsResponse(alerts model.StockAlerts) alertsResponse {
	res := alertsResponse{
		LowStock:   make([]lowStockResponse, 0, len(alerts.LowStock)),
		NearExpiry: make([]nearExpiryResponse, 0, len(alerts.NearExpiry)),
	}
	for _, m := range alerts.LowStock {
		res.LowStock = append(res.LowStock, lowStockResponse{
			MedicineID: m.ID,
			Name:       m.Name,
			Quantity:   m.Quantity,
		})
	}
	for _, m := range alerts.NearExpiry {
		res.NearExpiry = append(res.NearExpiry, nearExpiryResponse{
			MedicineID: m.ID,
			Name:       m.Name,
			ExpiryDate: m.ExpiryDate.Format(validator.DateLayout),
		})
	}
	return res
}

type userResponse struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toUserResponses(users []model.User) []userResponse {
	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse{
			UserID:   u.ID,
			Name:     u.Name,
			Role:     u.Role,
			Email:    u.Email,
			Password: u.Password,
		})
	}
	return items
}
