package engine

import (
	"context"
	"fmt"
	"testing"

	"crypto-dca-bot-go/internal/database"
	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockOracle is a mock implementation of oracle.PriceOracle.
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) FetchPrice(ctx context.Context, asset models.Asset) (oracle.Quote, error) {
	args := m.Called(asset)
	return args.Get(0).(oracle.Quote), args.Error(1)
}

// MockExecutor is a mock implementation of executor.ChainExecutor.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Purchase(ctx context.Context, owner string, amountCents int64, price float64) (string, error) {
	args := m.Called(owner, amountCents, price)
	return args.String(0), args.Error(1)
}

// setupTestDB creates a migrated, test-isolated in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache memory DSN keeps every pooled connection on the
	// same database while still isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = database.AutoMigrate(db)
	assert.NoError(t, err)

	return db
}

// quote is a shorthand for building oracle results in expectations.
func quote(asset models.Asset, price float64) oracle.Quote {
	return oracle.Quote{Asset: asset, PriceUSD: price, Timestamp: 1700000000}
}
