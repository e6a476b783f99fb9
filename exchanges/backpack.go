package exchanges

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aditya-git16/lithos/config"
	"github.com/aditya-git16/lithos/internal/engine"
	"github.com/aditya-git16/lithos/internal/wire"
	"nhooyr.io/websocket"
)

// Backpack connects to the Backpack (formerly Coral) exchange.
type Backpack struct {
	cfg      config.ExchangeConfig
	producer *engine.Producer
	symMap   map[string]uint16
}

func NewBackpack(cfg config.ExchangeConfig, globalSymbols map[string]uint16, producer *engine.Producer) *Backpack {
	return &Backpack{
		cfg:      cfg,
		producer: producer,
		symMap:   BuildReverseSymbolMap(cfg.Symbols, globalSymbols),
	}
}

// Backpack depth message
type backpackDepth struct {
	EventType string     `json:"e"`
	Symbol    string     `json:"s"`
	Timestamp int64      `json:"T"`
	Bids      [][]string `json:"b"` // [price, size]
	Asks      [][]string `json:"a"` // [price, size]
}

func (b *Backpack) Run(ctx context.Context) error {
	return RunConnectionLoop(ctx, "backpack", b.connect)
}

func (b *Backpack) connect(ctx context.Context) error {
	c, _, err := websocket.Dial(ctx, b.cfg.WSURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.CloseNow()

	log.Infof("backpack: connected to %s", b.cfg.WSURL)

	// Subscribe to configured symbols
	var symbols []string
	for _, rawSym := range b.cfg.Symbols {
		symbols = append(symbols, rawSym)
	}
	for _, sym := range symbols {
		channel := "depth." + sym
		sub := map[string]any{
			"method": "SUBSCRIBE",
			"params": []string{channel},
			"id":     1,
		}
		if err := c.Write(ctx, websocket.MessageText, mustJSON(sub)); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	log.Infof("backpack: subscribed to %v", symbols)

	// Read loop
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}

		var depth backpackDepth
		if err := json.Unmarshal(data, &depth); err != nil {
			continue
		}

		if depth.EventType != "depth" {
			continue
		}

		symID, ok := b.symMap[depth.Symbol]
		if !ok {
			continue
		}

		if len(depth.Bids) == 0 || len(depth.Asks) == 0 {
			continue
		}

		bidPx, _ := strconv.ParseFloat(depth.Bids[0][0], 64)
		bidSz, _ := strconv.ParseFloat(depth.Bids[0][1], 64)
		askPx, _ := strconv.ParseFloat(depth.Asks[0][0], 64)
		askSz, _ := strconv.ParseFloat(depth.Asks[0][1], 64)

		tsExchangeNs := uint64(depth.Timestamp) * 1_000_000 // ms -> ns
		tsEventNs := uint64(time.Now().UnixNano())

		b.producer.Publish(wire.TopOfBookEvent{
			SymbolID:     symID,
			BidPx:        ToTicks(bidPx, DefaultPriceScale),
			AskPx:        ToTicks(askPx, DefaultPriceScale),
			BidQty:       ToTicks(bidSz, DefaultPriceScale),
			AskQty:       ToTicks(askSz, DefaultPriceScale),
			TsEventNs:    tsEventNs,
			TsExchangeNs: tsExchangeNs,
		})
	}
}

func mustJSON(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}
