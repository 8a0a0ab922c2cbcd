package engine

import (
	"fmt"

	"crypto-dca-bot-go/internal/models"
	"gorm.io/gorm"
)

// PurchaseLedger is the append-only purchase history and the source of
// truth for portfolio analytics.
type PurchaseLedger struct {
	db *gorm.DB
}

// NewPurchaseLedger creates a PurchaseLedger.
func NewPurchaseLedger(db *gorm.DB) *PurchaseLedger {
	return &PurchaseLedger{db: db}
}

// Append records a completed purchase. Records are never updated or
// deleted afterwards.
func (l *PurchaseLedger) Append(p *models.Purchase) error {
	if err := l.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to append purchase: %w", err)
	}
	return nil
}

// Purchases returns all purchases across the owner's strategies, most
// recent first.
func (l *PurchaseLedger) Purchases(owner string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	if err := l.db.Where("owner = ?", owner).Order("id desc").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases for %s: %w", owner, err)
	}
	return purchases, nil
}

// Holding is a derived per-asset position, recomputed on read.
type Holding struct {
	Asset        models.Asset `json:"asset"`
	Amount       float64      `json:"amount"`
	CostBasis    float64      `json:"cost_basis"` // USD
	AveragePrice float64      `json:"average_price"`
}

// Portfolio groups the owner's purchases by asset. Assets with no
// accumulated amount are omitted.
func (l *PurchaseLedger) Portfolio(owner string) ([]Holding, error) {
	purchases, err := l.Purchases(owner)
	if err != nil {
		return nil, err
	}

	byAsset := make(map[models.Asset]*Holding)
	for _, p := range purchases {
		h, ok := byAsset[p.Asset]
		if !ok {
			h = &Holding{Asset: p.Asset}
			byAsset[p.Asset] = h
		}
		h.Amount += p.AssetAmount
		h.CostBasis += float64(p.AmountCents) / 100
	}

	holdings := make([]Holding, 0, len(byAsset))
	for _, asset := range models.AllAssets() {
		h, ok := byAsset[asset]
		if !ok || h.Amount == 0 {
			continue
		}
		h.AveragePrice = h.CostBasis / h.Amount
		holdings = append(holdings, *h)
	}
	return holdings, nil
}

// ProfitLoss is the derived P&L across the owner's holdings.
type ProfitLoss struct {
	TotalCostUSD      float64 `json:"total_cost_usd"`
	TotalValueUSD     float64 `json:"total_value_usd"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}
