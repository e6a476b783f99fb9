package exchanges

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/aditya-git16/lithos/internal/engine"
	"github.com/aditya-git16/lithos/internal/wire"
)

// basePrices seeds the random walk for tickers Lithos knows about; any
// other configured ticker starts at a flat $100 base.
var basePrices = map[string]float64{
	"BTC": 63100.0,
	"ETH": 1825.0,
}

// mockSymbol tracks one ticker's random-walk state.
type mockSymbol struct {
	id     uint16
	mid    float64
	spread float64 // base spread, proportional to the starting price; half of it is the base half-spread
}

// MockFeeder generates realistic BBO data for exchanges we can't reach in a
// test environment. Prices track a random walk around a base price with
// realistic spreads.
type MockFeeder struct {
	producer *engine.Producer
	name     string
	symbols  []mockSymbol
	seed     int64
}

// NewMockFeeder builds a feeder that simulates every ticker in tickers.
func NewMockFeeder(producer *engine.Producer, name string, tickers []string, globalSymbols map[string]uint16) *MockFeeder {
	symbols := make([]mockSymbol, 0, len(tickers))
	for _, t := range tickers {
		id, ok := globalSymbols[t]
		if !ok {
			continue
		}
		base, ok := basePrices[t]
		if !ok {
			base = 100.0
		}
		symbols = append(symbols, mockSymbol{id: id, mid: base, spread: base * 0.00002})
	}
	return &MockFeeder{producer: producer, name: name, symbols: symbols}
}

func (m *MockFeeder) Run(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond) // 10 updates/sec
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + m.seed))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tsNs := uint64(time.Now().UnixNano())
			for i := range m.symbols {
				s := &m.symbols[i]

				// Random walk: ±0.01% per tick
				s.mid += s.mid * (rng.Float64() - 0.5) * 0.0002
				halfSpread := s.spread/2 + s.mid*rng.Float64()*0.00002

				bid := math.Round((s.mid-halfSpread)*100) / 100
				ask := math.Round((s.mid+halfSpread)*100) / 100
				bidSz := 0.1 + rng.Float64()*2.0
				askSz := 0.1 + rng.Float64()*2.0

				m.producer.Publish(wire.TopOfBookEvent{
					SymbolID:     s.id,
					BidPx:        ToTicks(bid, DefaultPriceScale),
					AskPx:        ToTicks(ask, DefaultPriceScale),
					BidQty:       ToTicks(bidSz, DefaultPriceScale),
					AskQty:       ToTicks(askSz, DefaultPriceScale),
					TsEventNs:    tsNs,
					TsExchangeNs: 0,
				})
			}
		}
	}
}
