package engine

import (
	"testing"
	"time"

	"crypto-dca-bot-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *StrategyStore {
	return NewStrategyStore(setupTestDB(t), zap.NewNop())
}

func TestCreateStrategyRejectsLowAmount(t *testing.T) {
	store := setupStore(t)

	_, err := store.CreateStrategy("alice", models.AssetBTC, 50, models.Daily(), models.NoCondition())
	assert.ErrorIs(t, err, ErrAmountTooLow)

	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 100, models.Daily(), models.NoCondition())
	assert.NoError(t, err)
	assert.Equal(t, int64(100), strategy.AmountCents)
}

func TestCreateStrategyDefaults(t *testing.T) {
	store := setupStore(t)
	before := time.Now().Unix()

	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)

	assert.True(t, strategy.Active)
	assert.Equal(t, int64(0), strategy.ExecutionCount)
	assert.Equal(t, int64(86400), strategy.IntervalSeconds)
	assert.Equal(t, models.ConditionNone, strategy.ConditionType)
	// next execution = creation time + interval
	assert.InDelta(t, before+86400, strategy.NextExecutionAt, 2)

	// The owner's account was auto-created.
	var account models.Account
	assert.NoError(t, store.db.Where("owner = ?", "alice").First(&account).Error)
}

func TestCreateStrategyReusesAccount(t *testing.T) {
	store := setupStore(t)

	_, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)
	_, err = store.CreateStrategy("alice", models.AssetETH, 5000, models.Weekly(), models.NoCondition())
	assert.NoError(t, err)

	var count int64
	store.db.Model(&models.Account{}).Where("owner = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateStrategyRejectsUnknownAsset(t *testing.T) {
	store := setupStore(t)
	_, err := store.CreateStrategy("alice", models.Asset("DOGE"), 5000, models.Daily(), models.NoCondition())
	assert.Error(t, err)
}

func TestPauseStrategyOwnership(t *testing.T) {
	store := setupStore(t)
	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)

	_, err = store.PauseStrategy(strategy.ID, "mallory")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = store.PauseStrategy(9999, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	paused, err := store.PauseStrategy(strategy.ID, "alice")
	assert.NoError(t, err)
	assert.False(t, paused.Active)
	// The schedule is untouched by a pause.
	assert.Equal(t, strategy.NextExecutionAt, paused.NextExecutionAt)
}

func TestResumeStrategyRecomputesSchedule(t *testing.T) {
	store := setupStore(t)
	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Hours(1), models.NoCondition())
	assert.NoError(t, err)

	_, err = store.PauseStrategy(strategy.ID, "alice")
	assert.NoError(t, err)

	// Simulate a long pause with a missed slot far in the past.
	store.db.Model(&models.Strategy{}).Where("id = ?", strategy.ID).
		Update("next_execution_at", 1000)

	now := time.Now().Unix()
	resumed, err := store.ResumeStrategy(strategy.ID, "alice")
	assert.NoError(t, err)
	assert.True(t, resumed.Active)
	// The missed schedule is never restored; next execution is resume+interval.
	assert.InDelta(t, now+3600, resumed.NextExecutionAt, 2)
}

func TestDeleteStrategy(t *testing.T) {
	store := setupStore(t)
	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)

	assert.ErrorIs(t, store.DeleteStrategy(strategy.ID, "mallory"), ErrNotAuthorized)
	assert.NoError(t, store.DeleteStrategy(strategy.ID, "alice"))

	_, err = store.Get(strategy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDueStrategies(t *testing.T) {
	store := setupStore(t)

	due, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Seconds(60), models.NoCondition())
	assert.NoError(t, err)
	notYet, err := store.CreateStrategy("alice", models.AssetETH, 5000, models.Weekly(), models.NoCondition())
	assert.NoError(t, err)
	paused, err := store.CreateStrategy("alice", models.AssetICP, 5000, models.Seconds(60), models.NoCondition())
	assert.NoError(t, err)
	_, err = store.PauseStrategy(paused.ID, "alice")
	assert.NoError(t, err)

	now := time.Now().Unix() + 120
	dueList, err := store.DueStrategies(now)
	assert.NoError(t, err)

	ids := make([]uint, 0, len(dueList))
	for _, s := range dueList {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, due.ID)
	assert.NotContains(t, ids, notYet.ID)
	assert.NotContains(t, ids, paused.ID) // inactive strategies are never due
}

func TestAdvanceScheduleDroppedForDeletedStrategy(t *testing.T) {
	store := setupStore(t)
	strategy, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)
	assert.NoError(t, store.DeleteStrategy(strategy.ID, "alice"))

	// Write-back after a concurrent delete must be a silent no-op.
	store.advanceSchedule(strategy.ID, time.Now().Unix()+86400, true)

	_, err = store.Get(strategy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStrategiesListsOnlyOwner(t *testing.T) {
	store := setupStore(t)
	_, err := store.CreateStrategy("alice", models.AssetBTC, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)
	_, err = store.CreateStrategy("bob", models.AssetETH, 5000, models.Daily(), models.NoCondition())
	assert.NoError(t, err)

	mine, err := store.Strategies("alice")
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].Owner)
}
