package engine

import (
	"context"
	"errors"

	"crypto-dca-bot-go/internal/executor"
	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine is the externally driven strategy scheduler and execution engine.
// It is passive: an outside timer or caller invokes Tick; the engine never
// schedules itself.
type Engine struct {
	store       *StrategyStore
	coordinator *ExecutionCoordinator
	ledger      *PurchaseLedger
	oracle      oracle.PriceOracle
	logger      *zap.Logger
}

// NewEngine wires the engine from its injected collaborators.
func NewEngine(db *gorm.DB, po oracle.PriceOracle, executors *executor.Registry, logger *zap.Logger) *Engine {
	history := NewPriceHistory(db)
	ledger := NewPurchaseLedger(db)
	sizing := NewSizingEngine(po, history, logger.Named("sizing"))
	coordinator := NewExecutionCoordinator(sizing, history, po, executors, ledger, logger.Named("coordinator"))

	return &Engine{
		store:       NewStrategyStore(db, logger.Named("store")),
		coordinator: coordinator,
		ledger:      ledger,
		oracle:      po,
		logger:      logger,
	}
}

// CreateStrategy registers a new recurring purchase plan.
func (e *Engine) CreateStrategy(owner string, asset models.Asset, amountCents int64, freq models.Frequency, cond models.TriggerCondition) (*models.Strategy, error) {
	return e.store.CreateStrategy(owner, asset, amountCents, freq, cond)
}

// PauseStrategy deactivates a strategy owned by the caller.
func (e *Engine) PauseStrategy(id uint, caller string) (*models.Strategy, error) {
	return e.store.PauseStrategy(id, caller)
}

// ResumeStrategy reactivates a strategy owned by the caller.
func (e *Engine) ResumeStrategy(id uint, caller string) (*models.Strategy, error) {
	return e.store.ResumeStrategy(id, caller)
}

// DeleteStrategy removes a strategy owned by the caller.
func (e *Engine) DeleteStrategy(id uint, caller string) error {
	return e.store.DeleteStrategy(id, caller)
}

// Strategies lists the caller's strategies.
func (e *Engine) Strategies(caller string) ([]models.Strategy, error) {
	return e.store.Strategies(caller)
}

// Purchases lists the caller's purchase history.
func (e *Engine) Purchases(caller string) ([]models.Purchase, error) {
	return e.ledger.Purchases(caller)
}

// Portfolio returns the caller's derived per-asset holdings.
func (e *Engine) Portfolio(caller string) ([]Holding, error) {
	return e.ledger.Portfolio(caller)
}

// ProfitLoss values the caller's holdings at live prices (falling back to
// the static table) and reports the aggregate P&L.
func (e *Engine) ProfitLoss(ctx context.Context, caller string) (ProfitLoss, error) {
	holdings, err := e.ledger.Portfolio(caller)
	if err != nil {
		return ProfitLoss{}, err
	}

	var pl ProfitLoss
	for _, h := range holdings {
		price, err := fetchPriceWithFallback(ctx, e.oracle, h.Asset, e.logger)
		if err != nil {
			return ProfitLoss{}, err
		}
		pl.TotalCostUSD += h.CostBasis
		pl.TotalValueUSD += h.Amount * price
	}
	pl.ProfitLoss = pl.TotalValueUSD - pl.TotalCostUSD
	if pl.TotalCostUSD > 0 {
		pl.ProfitLossPercent = pl.ProfitLoss / pl.TotalCostUSD * 100
	}
	return pl, nil
}

// Tick scans for due strategies and attempts each one once. It returns the
// number of successful executions; per-strategy failures and skips are
// logged but never abort the scan and are not surfaced individually.
// Every due strategy's schedule advances by its interval regardless of the
// attempt's outcome, and the execution count moves only on success.
// Tick deliberately takes no caller: the periodic driver is trusted.
func (e *Engine) Tick(ctx context.Context, now int64) int {
	due, err := e.store.DueStrategies(now)
	if err != nil {
		e.logger.Error("Due-strategy scan failed", zap.Error(err))
		return 0
	}
	if len(due) == 0 {
		return 0
	}
	e.logger.Info("Due strategies found", zap.Int("count", len(due)), zap.Int64("now", now))

	executed := 0
	for _, strategy := range due {
		next := now + strategy.IntervalSeconds

		_, err := e.coordinator.Run(ctx, strategy)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				e.logger.Info("Strategy skipped this slot",
					zap.Uint("strategy_id", strategy.ID),
					zap.String("reason", skip.Reason),
				)
			} else {
				e.logger.Error("Strategy execution failed",
					zap.Uint("strategy_id", strategy.ID),
					zap.Error(err),
				)
			}
			e.store.advanceSchedule(strategy.ID, next, false)
			continue
		}

		executed++
		e.store.advanceSchedule(strategy.ID, next, true)
	}

	e.logger.Info("Tick complete", zap.Int("executed", executed), zap.Int("due", len(due)))
	return executed
}

// TriggerExecution runs a single caller-owned strategy immediately,
// bypassing the due-time check. Unlike the scheduler path it leaves both
// the execution count and the next execution time untouched.
func (e *Engine) TriggerExecution(ctx context.Context, id uint, caller string) (*models.Purchase, error) {
	strategy, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if strategy.Owner != caller {
		return nil, ErrNotAuthorized
	}
	return e.coordinator.Run(ctx, *strategy)
}
