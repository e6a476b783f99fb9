// Package exchanges implements the WebSocket/parser collaborators for each
// venue: one handler per venue, each decoding venue JSON into
// wire.TopOfBookEvent and handing it to an engine.Producer.
package exchanges

import (
	"math"

	"github.com/aditya-git16/lithos/internal/levellog"
)

// Exchange IDs. No handler reads them: log lines name venues by string.
// TopOfBookEvent carries no venue field; Flags is reserved and producers
// must zero it.
const (
	ExchangeHyperliquid uint16 = 1
	ExchangeLighter     uint16 = 2
	ExchangeEdgeX       uint16 = 3
	Exchange01          uint16 = 4
	ExchangeBackpack    uint16 = 5
	ExchangeMock        uint16 = 6
)

// log is the logger every handler in this package writes connect/disconnect/
// reconnect messages through. SetLogger lets the owning binary replace it
// with one built from the configured log level; until then it defaults to
// info-level logging.
var log = levellog.New("info")

// SetLogger replaces the package-wide logger used by every handler and by
// RunConnectionLoop.
func SetLogger(l *levellog.Logger) {
	log = l
}

// DefaultPriceScale is the integer-tick scale every handler passes to
// ToTicks for prices and quantities (and ToTicks' fallback for a
// nonpositive scale): 1e8 ticks per quoted unit, enough headroom for sub-cent
// crypto-perp pricing without losing precision when converting from the
// venues' decimal-string quotes.
const DefaultPriceScale = 100_000_000

// BuildReverseSymbolMap turns a per-exchange {localTicker: exchangeSymbol}
// map plus the global {ticker: SymbolId} table into {exchangeSymbol:
// SymbolId}, the lookup every handler's read loop needs.
func BuildReverseSymbolMap(exchangeSymbols map[string]string, globalSymbols map[string]uint16) map[string]uint16 {
	m := make(map[string]uint16, len(exchangeSymbols))
	for localSym, exchSym := range exchangeSymbols {
		if id, ok := globalSymbols[localSym]; ok {
			m[exchSym] = id
		}
	}
	return m
}

// ToTicks scales a decimal price/quantity into the integer representation
// the ring carries. All floating-point arithmetic lives on the producer
// side of this boundary, before the record is constructed; the ring,
// writer, reader, and market state never touch a float.
func ToTicks(v float64, scale int64) int64 {
	if scale <= 0 {
		scale = DefaultPriceScale
	}
	return int64(math.Round(v * float64(scale)))
}
