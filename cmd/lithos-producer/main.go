// Command lithos-producer is the single ring Writer: it binds each enabled
// exchange WebSocket collaborator to the shared-memory ring.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aditya-git16/lithos/config"
	"github.com/aditya-git16/lithos/exchanges"
	"github.com/aditya-git16/lithos/internal/engine"
	"github.com/aditya-git16/lithos/internal/levellog"
	"github.com/aditya-git16/lithos/internal/ring"
)

func main() {
	cfgPath := flag.String("config", "config.toml", "path to the lithos config file")
	flag.Parse()
	if p := os.Getenv("LITHOS_CONFIG"); p != "" {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("lithos-producer: failed to load config %s: %v", *cfgPath, err)
	}
	logger := levellog.New(cfg.MarketState.LogLevel)
	exchanges.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	writer, err := ring.NewWriter(cfg.Ring.Path, cfg.Ring.Capacity, cfg.Ring.LayoutVersion)
	if err != nil {
		log.Fatalf("lithos-producer: ring: %v", err)
	}
	defer writer.Close()
	logger.Infof("ring: %s (capacity=%d)", cfg.Ring.Path, writer.Capacity())

	producer := engine.NewProducer(writer)

	var wg sync.WaitGroup
	runHandler := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Infof("%s: starting...", name)
			if err := run(ctx); err != nil && err != context.Canceled {
				logger.Errorf("%s: %v", name, err)
			}
		}()
	}

	if hlCfg, ok := cfg.Exchanges["hyperliquid"]; ok && hlCfg.Enabled {
		hl := exchanges.NewHyperliquid(hlCfg, cfg.Symbols, producer)
		runHandler("hyperliquid", hl.Run)
	}
	if ltCfg, ok := cfg.Exchanges["lighter"]; ok && ltCfg.Enabled {
		lt := exchanges.NewLighter(ltCfg, cfg.Symbols, producer)
		runHandler("lighter", lt.Run)
	}
	if bpCfg, ok := cfg.Exchanges["backpack"]; ok && bpCfg.Enabled {
		bp := exchanges.NewBackpack(bpCfg, cfg.Symbols, producer)
		runHandler("backpack", bp.Run)
	}
	if edgexCfg, ok := cfg.Exchanges["edgex"]; ok && edgexCfg.Enabled {
		ex := exchanges.NewEdgeX(edgexCfg, cfg.Symbols, producer)
		runHandler("edgex", ex.Run)
	}
	if zeroOneCfg, ok := cfg.Exchanges["01"]; ok && zeroOneCfg.Enabled {
		z := exchanges.NewZeroOne(zeroOneCfg, cfg.Symbols, producer)
		runHandler("01", z.Run)
	}
	if mockCfg, ok := cfg.Exchanges["mock"]; ok && mockCfg.Enabled {
		tickers := make([]string, 0, len(mockCfg.Symbols))
		for t := range mockCfg.Symbols {
			tickers = append(tickers, t)
		}
		mock := exchanges.NewMockFeeder(producer, "mock", tickers, cfg.Symbols)
		runHandler("mock", mock.Run)
	}

	wg.Wait()
	logger.Infof("producer stopped, published %d events", producer.Published())
}
