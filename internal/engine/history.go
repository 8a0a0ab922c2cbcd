package engine

import (
	"fmt"

	"crypto-dca-bot-go/internal/models"
	"gorm.io/gorm"
)

// maxSamplesPerAsset bounds the per-asset price window used for trend
// analysis. Inserting beyond the bound evicts the oldest samples.
const maxSamplesPerAsset = 24

// PriceHistory is the bounded per-asset window of recent price samples.
type PriceHistory struct {
	db *gorm.DB
}

// NewPriceHistory creates a PriceHistory backed by the given database.
func NewPriceHistory(db *gorm.DB) *PriceHistory {
	return &PriceHistory{db: db}
}

// Record appends a sample for the asset and evicts the oldest samples
// beyond the window bound.
func (h *PriceHistory) Record(asset models.Asset, price float64, timestamp int64) error {
	sample := models.PriceSample{Asset: asset, Price: price, Timestamp: timestamp}
	if err := h.db.Create(&sample).Error; err != nil {
		return fmt.Errorf("failed to record price sample: %w", err)
	}

	var count int64
	if err := h.db.Model(&models.PriceSample{}).Where("asset = ?", asset).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count price samples: %w", err)
	}

	if count > maxSamplesPerAsset {
		var stale []models.PriceSample
		err := h.db.Where("asset = ?", asset).
			Order("id asc").
			Limit(int(count - maxSamplesPerAsset)).
			Find(&stale).Error
		if err != nil {
			return fmt.Errorf("failed to find stale price samples: %w", err)
		}
		// Unscoped: evicted samples are gone, not soft-deleted, so the
		// window count stays accurate.
		if err := h.db.Unscoped().Delete(&stale).Error; err != nil {
			return fmt.Errorf("failed to evict stale price samples: %w", err)
		}
	}
	return nil
}

// Samples returns the asset's window, oldest first.
func (h *PriceHistory) Samples(asset models.Asset) ([]models.PriceSample, error) {
	var samples []models.PriceSample
	if err := h.db.Where("asset = ?", asset).Order("id asc").Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("failed to load price samples: %w", err)
	}
	return samples, nil
}

// mean returns the arithmetic average price of the given samples,
// or 0 for an empty window.
func mean(samples []models.PriceSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Price
	}
	return sum / float64(len(samples))
}
