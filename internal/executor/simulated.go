package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// simulatedExecutor stands in for real cross-chain signing and broadcast.
// It validates the order, fabricates a network-prefixed transaction
// reference and logs what a real executor would have done.
type simulatedExecutor struct {
	network string
	logger  *zap.Logger
}

// NewBitcoinExecutor creates the executor for the Bitcoin network.
func NewBitcoinExecutor(logger *zap.Logger) ChainExecutor {
	return &simulatedExecutor{network: "btc", logger: logger.Named("btc-executor")}
}

// NewEthereumExecutor creates the executor for the Ethereum network.
func NewEthereumExecutor(logger *zap.Logger) ChainExecutor {
	return &simulatedExecutor{network: "eth", logger: logger.Named("eth-executor")}
}

// NewICPExecutor creates the executor for the Internet Computer.
func NewICPExecutor(logger *zap.Logger) ChainExecutor {
	return &simulatedExecutor{network: "icp", logger: logger.Named("icp-executor")}
}

func (e *simulatedExecutor) Purchase(ctx context.Context, owner string, amountCents int64, price float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("purchase amount must be positive, got %d cents", amountCents)
	}
	if price <= 0 {
		return "", fmt.Errorf("purchase price must be positive, got %f", price)
	}

	txRef := fmt.Sprintf("%s-sim-%s", e.network, uuid.NewString())

	e.logger.Info("Simulated purchase executed",
		zap.String("owner", owner),
		zap.Int64("amount_cents", amountCents),
		zap.Float64("price", price),
		zap.String("tx_ref", txRef),
	)
	return txRef, nil
}
