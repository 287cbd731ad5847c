package application

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdex-network/nftamm/internal/core/domain"
	"github.com/tdex-network/nftamm/pkg/pricing"
)

const metricsNamespace = "nftamm"

// Error kinds the pricing errors counter is labeled with.
const (
	ErrorKindConfiguration = "configuration"
	ErrorKindPrecondition  = "precondition"
	ErrorKindNotFound      = "not_found"
	ErrorKindInvalid       = "invalid_request"
	ErrorKindInternal      = "internal"
)

// Metrics holds the collectors of the pricing service.
type Metrics struct {
	quotes *prometheus.CounterVec
	units  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quotes_total",
			Help:      "Number of trade quotes served.",
		}, []string{"pool_type", "side"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quoted_units_total",
			Help:      "Number of units priced across all trade quotes.",
		}, []string{"pool_type", "side"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pricing_errors_total",
			Help:      "Number of failed pricing requests by error kind.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.quotes, m.units, m.errors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeQuote(poolType pricing.PoolType, side pricing.TakerSide, units int64) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(poolType.String(), side.String()).Inc()
	m.units.WithLabelValues(poolType.String(), side.String()).Add(float64(units))
}

func (m *Metrics) observeError(err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind classifies err for reporting.
func ErrorKind(err error) string {
	var cfgErr *pricing.ConfigurationError
	var preErr *pricing.PreconditionError
	switch {
	case errors.As(err, &cfgErr):
		return ErrorKindConfiguration
	case errors.As(err, &preErr):
		return ErrorKindPrecondition
	case errors.Is(err, domain.ErrPoolNotFound):
		return ErrorKindNotFound
	case isValidationError(err), errors.Is(err, ErrTooManyQuotes),
		errors.Is(err, domain.ErrPoolClosed):
		return ErrorKindInvalid
	default:
		return ErrorKindInternal
	}
}
