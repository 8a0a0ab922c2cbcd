package executor

import (
	"context"
	"fmt"

	"crypto-dca-bot-go/internal/models"
	"go.uber.org/zap"
)

// ChainExecutor performs the actual acquisition of an asset on its
// ledger/network and returns a transaction reference.
type ChainExecutor interface {
	// Purchase spends amountCents USD at the given price on behalf of owner.
	Purchase(ctx context.Context, owner string, amountCents int64, price float64) (string, error)
}

// Registry dispatches purchases to the executor for each asset family.
type Registry struct {
	executors map[models.Asset]ChainExecutor
}

// NewRegistry builds a registry from an explicit asset->executor mapping.
func NewRegistry(executors map[models.Asset]ChainExecutor) *Registry {
	return &Registry{executors: executors}
}

// NewSimulatedRegistry wires a simulated executor for every supported asset.
// The switch is exhaustive over models.AllAssets; adding an asset without
// extending it is a startup error, not a silent gap.
func NewSimulatedRegistry(logger *zap.Logger) (*Registry, error) {
	executors := make(map[models.Asset]ChainExecutor, len(models.AllAssets()))
	for _, asset := range models.AllAssets() {
		switch asset {
		case models.AssetBTC:
			executors[asset] = NewBitcoinExecutor(logger)
		case models.AssetETH:
			executors[asset] = NewEthereumExecutor(logger)
		case models.AssetICP:
			executors[asset] = NewICPExecutor(logger)
		default:
			return nil, fmt.Errorf("no executor implemented for asset %s", asset)
		}
	}
	return &Registry{executors: executors}, nil
}

// ForAsset returns the executor responsible for the given asset tag.
func (r *Registry) ForAsset(asset models.Asset) (ChainExecutor, error) {
	exec, ok := r.executors[asset]
	if !ok {
		return nil, fmt.Errorf("no executor registered for asset %s", asset)
	}
	return exec, nil
}
