package engine

import (
	"context"
	"fmt"
	"time"

	"crypto-dca-bot-go/internal/executor"
	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"go.uber.org/zap"
)

// ExecutionCoordinator drives one purchase attempt end to end:
// sizing -> trigger check -> price fetch -> chain execution -> ledger write.
type ExecutionCoordinator struct {
	sizing    *SizingEngine
	history   *PriceHistory
	oracle    oracle.PriceOracle
	executors *executor.Registry
	ledger    *PurchaseLedger
	logger    *zap.Logger
}

// NewExecutionCoordinator creates an ExecutionCoordinator.
func NewExecutionCoordinator(sizing *SizingEngine, history *PriceHistory, po oracle.PriceOracle, executors *executor.Registry, ledger *PurchaseLedger, logger *zap.Logger) *ExecutionCoordinator {
	return &ExecutionCoordinator{
		sizing:    sizing,
		history:   history,
		oracle:    po,
		executors: executors,
		ledger:    ledger,
		logger:    logger,
	}
}

// Run executes a single purchase attempt for the strategy. The strategy is
// taken by value: its asset, budget and condition are snapshotted at entry
// and concurrent mutations of the stored row do not affect the attempt.
// Any executor failure aborts with no ledger write.
func (c *ExecutionCoordinator) Run(ctx context.Context, strategy models.Strategy) (*models.Purchase, error) {
	l := c.logger.With(
		zap.Uint("strategy_id", strategy.ID),
		zap.String("owner", strategy.Owner),
		zap.String("asset", string(strategy.Asset)),
	)

	// 1. Sizing recommendation; this fetches and records a fresh sample.
	rec, err := c.sizing.Recommend(ctx, strategy.Asset, strategy.AmountCents)
	if err != nil {
		return nil, err
	}

	// 2. A wait verdict is a controlled skip; the caller still reschedules.
	if rec.Action == ActionWait {
		l.Info("Sizing engine recommends waiting", zap.String("reason", rec.Reason))
		return nil, &SkipError{Reason: rec.Reason}
	}

	// Trigger gate, evaluated against the price just observed.
	samples, err := c.history.Samples(strategy.Asset)
	if err != nil {
		return nil, err
	}
	if !EvaluateTrigger(strategy.Condition(), rec.Price, samples) {
		l.Info("Trigger condition not met",
			zap.String("condition", string(strategy.ConditionType)),
			zap.Float64("condition_value", strategy.ConditionValue),
			zap.Float64("live_price", rec.Price),
		)
		return nil, &SkipError{Reason: "trigger condition not met"}
	}

	// 3. Re-fetch for freshness; falls back to the static table on failure.
	price, err := fetchPriceWithFallback(ctx, c.oracle, strategy.Asset, l)
	if err != nil {
		return nil, err
	}

	// 4. Convert the adjusted budget into asset units.
	assetAmount := float64(rec.AdjustedCents) / 100 / price

	// 5. Delegate to the asset's chain executor.
	exec, err := c.executors.ForAsset(strategy.Asset)
	if err != nil {
		return nil, err
	}
	txRef, err := exec.Purchase(ctx, strategy.Owner, rec.AdjustedCents, price)
	if err != nil {
		l.Error("Chain execution failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	// 6. Record the completed purchase.
	purchase := models.Purchase{
		StrategyID:  strategy.ID,
		Owner:       strategy.Owner,
		Asset:       strategy.Asset,
		AmountCents: rec.AdjustedCents,
		AssetAmount: assetAmount,
		Price:       price,
		Timestamp:   time.Now().Unix(),
		TxRef:       txRef,
	}
	if err := c.ledger.Append(&purchase); err != nil {
		return nil, err
	}

	l.Info("Purchase recorded",
		zap.Uint("purchase_id", purchase.ID),
		zap.Int64("amount_cents", purchase.AmountCents),
		zap.Float64("asset_amount", purchase.AssetAmount),
		zap.Float64("price", purchase.Price),
		zap.String("tx_ref", purchase.TxRef),
		zap.String("sizing_action", string(rec.Action)),
	)
	return &purchase, nil
}
