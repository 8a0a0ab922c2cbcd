package models

import "gorm.io/gorm"

// Purchase is a completed acquisition recorded in the ledger.
// Rows are append-only: never updated, never deleted.
type Purchase struct {
	gorm.Model
	StrategyID  uint    `gorm:"index;not null" json:"strategy_id"`
	Owner       string  `gorm:"index;not null" json:"owner"`
	Asset       Asset   `gorm:"not null" json:"asset"`
	AmountCents int64   `gorm:"not null" json:"amount_cents"` // adjusted USD cents actually spent
	AssetAmount float64 `gorm:"not null" json:"asset_amount"`
	Price       float64 `gorm:"not null" json:"price"`
	Timestamp   int64   `gorm:"not null" json:"timestamp"`
	TxRef       string  `json:"tx_ref"`
}
