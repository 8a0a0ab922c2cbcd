package models

import "gorm.io/gorm"

// PriceSample is one observed USD price for an asset. The engine keeps a
// bounded per-asset window of these for trend analysis; the oldest sample
// is evicted once the window is full.
type PriceSample struct {
	gorm.Model
	Asset     Asset   `gorm:"index;not null" json:"asset"`
	Price     float64 `gorm:"not null" json:"price"`
	Timestamp int64   `gorm:"not null" json:"timestamp"`
}
