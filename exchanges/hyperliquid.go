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
	"nhooyr.io/websocket/wsjson"
)

// Hyperliquid connects to the Hyperliquid L2 book WebSocket.
type Hyperliquid struct {
	wsURL    string
	producer *engine.Producer
	symMap   map[string]uint16
	coins    []string
}

func NewHyperliquid(cfg config.ExchangeConfig, globalSymbols map[string]uint16, producer *engine.Producer) *Hyperliquid {
	symMap := BuildReverseSymbolMap(cfg.Symbols, globalSymbols)
	coins := make([]string, 0, len(cfg.Symbols))
	for _, coin := range cfg.Symbols {
		coins = append(coins, coin)
	}
	return &Hyperliquid{wsURL: cfg.WSURL, producer: producer, symMap: symMap, coins: coins}
}

type hlEnvelope struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

type hlL2Book struct {
	Coin   string      `json:"coin"`
	Time   int64       `json:"time"`
	Levels [][]hlLevel `json:"levels"`
}

type hlLevel struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
}

func (h *Hyperliquid) Run(ctx context.Context) error {
	return RunConnectionLoop(ctx, "hyperliquid", h.connect)
}

func (h *Hyperliquid) connect(ctx context.Context) error {
	c, _, err := websocket.Dial(ctx, h.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.CloseNow()

	// Subscribe to l2Book for each coin
	for _, coin := range h.coins {
		sub := map[string]any{
			"method": "subscribe",
			"subscription": map[string]any{
				"type": "l2Book",
				"coin": coin,
			},
		}
		if err := wsjson.Write(ctx, c, sub); err != nil {
			return fmt.Errorf("subscribe %s: %w", coin, err)
		}
	}
	log.Infof("hyperliquid: connected, subscribed to %v", h.coins)

	for {
		var raw json.RawMessage
		if err := wsjson.Read(ctx, c, &raw); err != nil {
			return err
		}

		var env hlEnvelope
		if json.Unmarshal(raw, &env) != nil || env.Channel != "l2Book" {
			continue
		}

		var book hlL2Book
		if json.Unmarshal(env.Data, &book) != nil {
			continue
		}

		symID, ok := h.symMap[book.Coin]
		if !ok || len(book.Levels) < 2 {
			continue
		}

		bids := book.Levels[0]
		asks := book.Levels[1]
		if len(bids) == 0 || len(asks) == 0 {
			continue
		}

		bidPx, _ := strconv.ParseFloat(bids[0].Px, 64)
		bidSz, _ := strconv.ParseFloat(bids[0].Sz, 64)
		askPx, _ := strconv.ParseFloat(asks[0].Px, 64)
		askSz, _ := strconv.ParseFloat(asks[0].Sz, 64)

		tsExchangeNs := uint64(book.Time) * 1_000_000 // ms -> ns
		tsEventNs := uint64(time.Now().UnixNano())

		// Hand off to the ring; no floating point beyond this point.
		h.producer.Publish(wire.TopOfBookEvent{
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
