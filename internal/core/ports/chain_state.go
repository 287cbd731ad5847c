package ports

import (
	"context"

	"github.com/tdex-network/nftamm/pkg/pricing"
)

// ChainStateReader supplies the current trade counters of a pool as settled
// by the on-chain program.
type ChainStateReader interface {
	GetTradeCounters(ctx context.Context, poolID string) (pricing.TradeCounters, error)
}
