package config

import "github.com/tuanvumaihuynh/medical-inventory/internal/model"

// Inventory holds the thresholds used by stock alerts.
type Inventory struct {
	// LowStockThreshold flags medicines whose quantity is strictly below it.
	LowStockThreshold int32 `env:"INVENTORY_LOW_STOCK_THRESHOLD" envDefault:"10"`
	// NearExpiryDays flags medicines expiring on or before today plus this many days.
	NearExpiryDays int `env:"INVENTORY_NEAR_EXPIRY_DAYS" envDefault:"30"`
}

func (c Inventory) Policy() model.AlertPolicy {
	return model.AlertPolicy{
		LowStockThreshold: c.LowStockThreshold,
		NearExpiryDays:    c.NearExpiryDays,
	}
}
