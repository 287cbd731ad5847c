package pricing

import (
	"fmt"
	"math"
	"strings"
)

// TakerSide is the side of the party trading against the pool.
type TakerSide int

const (
	// Buy means the taker buys nfts from the pool.
	Buy TakerSide = iota
	// Sell means the taker sells nfts to the pool.
	Sell
)

func (s TakerSide) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("TakerSide(%d)", int(s))
}

// ParseTakerSide ...
func ParseTakerSide(name string) (TakerSide, error) {
	switch strings.ToLower(name) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown taker side %q", name)
}

// MarshalText encodes the side by name.
func (s TakerSide) MarshalText() ([]byte, error) {
	if s != Buy && s != Sell {
		return nil, fmt.Errorf("unknown taker side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText ...
func (s *TakerSide) UnmarshalText(text []byte) error {
	parsed, err := ParseTakerSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TradeCounters is the snapshot of the cumulative trades settled against a
// pool. The engine only reads it.
type TradeCounters struct {
	TakerBuyCount  uint64 `json:"takerBuyCount"`
	TakerSellCount uint64 `json:"takerSellCount"`
}

// NetTick is the pool's position on its curve, buys less sells. It fails
// with ErrTickOutOfRange if the difference does not fit in an int64.
func (c TradeCounters) NetTick() (int64, error) {
	if c.TakerBuyCount >= c.TakerSellCount {
		diff := c.TakerBuyCount - c.TakerSellCount
		if diff > math.MaxInt64 {
			return 0, ErrTickOutOfRange
		}
		return int64(diff), nil
	}

	diff := c.TakerSellCount - c.TakerBuyCount
	if diff > 1<<63 {
		return 0, ErrTickOutOfRange
	}
	// -(1<<63) wraps to itself, which is math.MinInt64.
	return -int64(diff), nil
}

// Record returns a copy of the counters advanced by a settled trade of the
// given units.
func (c TradeCounters) Record(side TakerSide, units uint64) TradeCounters {
	if side == Buy {
		c.TakerBuyCount += units
	} else {
		c.TakerSellCount += units
	}
	return c
}
