package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Medicine struct {
	ID          int64
	Name        string
	BatchNumber string
	ExpiryDate  time.Time
	Quantity    int32
	SupplierID  int64
	CategoryID  int64
	Price       decimal.Decimal
}

// LowStockMedicine is the projection reported by low stock alerts.
type LowStockMedicine struct {
	ID       int64
	Name     string
	Quantity int32
}

// NearExpiryMedicine is the projection reported by near expiry alerts.
type NearExpiryMedicine struct {
	ID         int64
	Name       string
	ExpiryDate time.Time
}

type StockAlerts struct {
	LowStock   []LowStockMedicine
	NearExpiry []NearExpiryMedicine
}
