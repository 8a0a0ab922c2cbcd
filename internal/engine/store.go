package engine

import (
	"errors"
	"fmt"
	"time"

	"crypto-dca-bot-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StrategyStore owns strategy records: creation, ownership checks,
// pause/resume/delete and next-execution bookkeeping.
type StrategyStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStrategyStore creates a StrategyStore.
func NewStrategyStore(db *gorm.DB, logger *zap.Logger) *StrategyStore {
	return &StrategyStore{db: db, logger: logger}
}

// CreateStrategy validates and persists a new strategy, creating the
// owner's account if it does not exist yet.
func (s *StrategyStore) CreateStrategy(owner string, asset models.Asset, amountCents int64, freq models.Frequency, cond models.TriggerCondition) (*models.Strategy, error) {
	if amountCents < models.MinAmountCents {
		return nil, fmt.Errorf("%w: got %d cents", ErrAmountTooLow, amountCents)
	}
	if !asset.Valid() {
		return nil, fmt.Errorf("unsupported asset %q", asset)
	}
	if err := cond.Validate(); err != nil {
		return nil, err
	}
	interval, err := freq.IntervalSeconds()
	if err != nil {
		return nil, err
	}

	account := models.Account{Owner: owner}
	if err := s.db.FirstOrCreate(&account, models.Account{Owner: owner}).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure account for %s: %w", owner, err)
	}

	condType := cond.Type
	if condType == "" {
		condType = models.ConditionNone
	}

	now := time.Now().Unix()
	strategy := models.Strategy{
		Owner:           owner,
		Asset:           asset,
		AmountCents:     amountCents,
		IntervalSeconds: interval,
		ConditionType:   condType,
		ConditionValue:  cond.Value,
		NextExecutionAt: now + interval,
		Active:          true,
		ExecutionCount:  0,
	}
	if err := s.db.Create(&strategy).Error; err != nil {
		return nil, fmt.Errorf("failed to create strategy: %w", err)
	}

	s.logger.Info("Strategy created",
		zap.Uint("strategy_id", strategy.ID),
		zap.String("owner", owner),
		zap.String("asset", string(asset)),
		zap.Int64("amount_cents", amountCents),
		zap.Int64("interval_seconds", interval),
	)
	return &strategy, nil
}

// Get returns a strategy by id.
func (s *StrategyStore) Get(id uint) (*models.Strategy, error) {
	var strategy models.Strategy
	if err := s.db.First(&strategy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load strategy %d: %w", id, err)
	}
	return &strategy, nil
}

// getOwned loads a strategy and verifies the caller owns it.
func (s *StrategyStore) getOwned(id uint, caller string) (*models.Strategy, error) {
	strategy, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if strategy.Owner != caller {
		return nil, ErrNotAuthorized
	}
	return strategy, nil
}

// PauseStrategy deactivates a strategy. The schedule is left untouched.
func (s *StrategyStore) PauseStrategy(id uint, caller string) (*models.Strategy, error) {
	strategy, err := s.getOwned(id, caller)
	if err != nil {
		return nil, err
	}

	strategy.Active = false
	if err := s.db.Model(strategy).Update("active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to pause strategy %d: %w", id, err)
	}
	s.logger.Info("Strategy paused", zap.Uint("strategy_id", id))
	return strategy, nil
}

// ResumeStrategy reactivates a strategy and recomputes its next execution
// from the resume time. A missed schedule is never restored.
func (s *StrategyStore) ResumeStrategy(id uint, caller string) (*models.Strategy, error) {
	strategy, err := s.getOwned(id, caller)
	if err != nil {
		return nil, err
	}

	next := time.Now().Unix() + strategy.IntervalSeconds
	updates := map[string]interface{}{"active": true, "next_execution_at": next}
	if err := s.db.Model(strategy).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resume strategy %d: %w", id, err)
	}
	strategy.Active = true
	strategy.NextExecutionAt = next
	s.logger.Info("Strategy resumed", zap.Uint("strategy_id", id), zap.Int64("next_execution_at", next))
	return strategy, nil
}

// DeleteStrategy removes a strategy. Its purchases stay in the ledger.
func (s *StrategyStore) DeleteStrategy(id uint, caller string) error {
	strategy, err := s.getOwned(id, caller)
	if err != nil {
		return err
	}
	if err := s.db.Delete(strategy).Error; err != nil {
		return fmt.Errorf("failed to delete strategy %d: %w", id, err)
	}
	s.logger.Info("Strategy deleted", zap.Uint("strategy_id", id))
	return nil
}

// Strategies returns every strategy owned by the caller.
func (s *StrategyStore) Strategies(caller string) ([]models.Strategy, error) {
	var strategies []models.Strategy
	if err := s.db.Where("owner = ?", caller).Order("id asc").Find(&strategies).Error; err != nil {
		return nil, fmt.Errorf("failed to list strategies for %s: %w", caller, err)
	}
	return strategies, nil
}

// DueStrategies returns all active strategies whose next execution time
// has passed.
func (s *StrategyStore) DueStrategies(now int64) ([]models.Strategy, error) {
	var due []models.Strategy
	err := s.db.Where("active = ? AND next_execution_at <= ?", true, now).
		Order("id asc").
		Find(&due).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan for due strategies: %w", err)
	}
	return due, nil
}

// advanceSchedule writes back the post-execution bookkeeping by id.
// If the strategy was deleted while the attempt was in flight the update
// matches no row and is silently dropped.
func (s *StrategyStore) advanceSchedule(id uint, next int64, executed bool) {
	updates := map[string]interface{}{"next_execution_at": next}
	if executed {
		updates["execution_count"] = gorm.Expr("execution_count + 1")
	}
	res := s.db.Model(&models.Strategy{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		s.logger.Error("Failed to advance strategy schedule", zap.Uint("strategy_id", id), zap.Error(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		s.logger.Debug("Strategy vanished before schedule write-back", zap.Uint("strategy_id", id))
	}
}
