// Package config loads the flat TOML configuration shared by the producer
// and consumer binaries.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration document.
type Config struct {
	Ring        RingConfig                 `toml:"ring"`
	MarketState MarketStateConfig          `toml:"market_state"`
	Symbols     map[string]uint16          `toml:"symbols"`
	Exchanges   map[string]ExchangeConfig  `toml:"exchanges"`
}

// RingConfig names the shared-memory ring's backing file and shape.
type RingConfig struct {
	Path           string `toml:"path"`
	Capacity       uint64 `toml:"capacity"`
	LayoutVersion  uint32 `toml:"layout_version"`
}

// MarketStateConfig sizes the consumer's MarketStateIndex.
type MarketStateConfig struct {
	Capacity int    `toml:"capacity"`
	LogLevel string `toml:"log_level"`
}

// ExchangeConfig configures one venue WebSocket collaborator.
type ExchangeConfig struct {
	Enabled bool   `toml:"enabled"`
	Testnet bool   `toml:"testnet"`
	WSURL   string `toml:"ws_url"`
	RESTURL string `toml:"rest_url"`
	// Symbols maps standard local symbol (e.g. "BTC") to exchange-specific ID (e.g. "BTC_USDC_PERP")
	Symbols map[string]string `toml:"symbols"`
}

// Load reads and parses the TOML document at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := toml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate enforces that every configured symbol id is less than the
// MarketStateIndex slot count.
func (c *Config) validate() error {
	if c.Ring.Capacity == 0 {
		return fmt.Errorf("config: ring.capacity must be set")
	}
	if c.Ring.Capacity&(c.Ring.Capacity-1) != 0 {
		return fmt.Errorf("config: ring.capacity %d is not a power of two", c.Ring.Capacity)
	}
	for ticker, id := range c.Symbols {
		if c.MarketState.Capacity > 0 && int(id) >= c.MarketState.Capacity {
			return fmt.Errorf("config: symbol %s id %d exceeds market_state.capacity %d", ticker, id, c.MarketState.Capacity)
		}
	}
	return nil
}

// SymbolID looks up the dense SymbolId for a standard ticker.
func (c *Config) SymbolID(ticker string) (uint16, bool) {
	id, ok := c.Symbols[ticker]
	return id, ok
}
