package pricing

import "github.com/tdex-network/nftamm/pkg/mathutil"

const maxBps = 10000

// ProtocolFeeSchedule is the fee regime charged by the protocol to takers,
// on top of the pool price for buys and out of it for sells.
type ProtocolFeeSchedule struct {
	Version     string `json:"version"`
	TakerFeeBps uint32 `json:"takerFeeBps"`
}

// NoProtocolFees charges nothing.
var NoProtocolFees = ProtocolFeeSchedule{Version: "none"}

// NewProtocolFeeSchedule returns a validated schedule.
func NewProtocolFeeSchedule(
	version string, takerFeeBps uint32,
) (ProtocolFeeSchedule, error) {
	if takerFeeBps >= maxBps {
		return ProtocolFeeSchedule{}, ErrFeesTooHigh
	}
	return ProtocolFeeSchedule{Version: version, TakerFeeBps: takerFeeBps}, nil
}

// TakerFee returns the protocol fee due for a unit priced at the given
// amount.
func (s ProtocolFeeSchedule) TakerFee(price uint64) uint64 {
	return mathutil.FeeOf(price, uint64(s.TakerFeeBps))
}

// FeeSchedules indexes the fee regimes the protocol went through by version.
type FeeSchedules map[string]ProtocolFeeSchedule

// NewFeeSchedules validates and indexes the given schedules.
func NewFeeSchedules(schedules ...ProtocolFeeSchedule) (FeeSchedules, error) {
	s := make(FeeSchedules, len(schedules))
	for _, schedule := range schedules {
		if schedule.TakerFeeBps >= maxBps {
			return nil, ErrFeesTooHigh
		}
		s[schedule.Version] = schedule
	}
	return s, nil
}

// Get returns the schedule with the given version.
func (s FeeSchedules) Get(version string) (ProtocolFeeSchedule, error) {
	schedule, ok := s[version]
	if !ok {
		return ProtocolFeeSchedule{}, ErrUnknownFeeSchedule
	}
	return schedule, nil
}
