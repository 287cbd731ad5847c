// Package chainstate wraps the chain-state reader the pricing service takes
// trade counters from.
package chainstate

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/internal/core/ports"
	"github.com/tdex-network/nftamm/pkg/circuitbreaker"
	"github.com/tdex-network/nftamm/pkg/pricing"
	"go.uber.org/ratelimit"
)

// ErrReaderUnavailable is returned while the circuit breaker is open.
var ErrReaderUnavailable = errors.New("chain state reader is unavailable, try again later")

// Opts ...
type Opts struct {
	// RequestsPerSecond caps the rate of reads, 0 means unlimited.
	RequestsPerSecond int
}

type guardedReader struct {
	reader  ports.ChainStateReader
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewGuardedReader returns a ChainStateReader that throttles the reads made
// to the given one and stops forwarding them for a while once too many
// failed.
func NewGuardedReader(
	reader ports.ChainStateReader, opts Opts,
) ports.ChainStateReader {
	limiter := ratelimit.NewUnlimited()
	if opts.RequestsPerSecond > 0 {
		limiter = ratelimit.New(opts.RequestsPerSecond)
	}

	cb := circuitbreaker.NewCircuitBreaker(
		"chainstate", func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("chain state reader circuit breaker changed state")
		},
	)

	return &guardedReader{reader, limiter, cb}
}

func (r *guardedReader) GetTradeCounters(
	ctx context.Context, poolID string,
) (pricing.TradeCounters, error) {
	if err := ctx.Err(); err != nil {
		return pricing.TradeCounters{}, err
	}

	r.limiter.Take()

	// A missing pool is an answer, not a failure of the reader.
	var notFound error
	res, err := r.cb.Execute(func() (interface{}, error) {
		counters, err := r.reader.GetTradeCounters(ctx, poolID)
		if errors.Is(err, domain.ErrPoolNotFound) {
			notFound = err
			return pricing.TradeCounters{}, nil
		}
		return counters, err
	})
	if notFound != nil {
		return pricing.TradeCounters{}, notFound
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			return pricing.TradeCounters{}, ErrReaderUnavailable
		}
		return pricing.TradeCounters{}, err
	}

	return res.(pricing.TradeCounters), nil
}
