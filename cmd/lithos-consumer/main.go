// Command lithos-consumer is one ring Reader: it drains the
// shared-memory ring into a MarketStateIndex and prints a snapshot on exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aditya-git16/lithos/config"
	"github.com/aditya-git16/lithos/internal/engine"
	"github.com/aditya-git16/lithos/internal/levellog"
	"github.com/aditya-git16/lithos/internal/marketstate"
	"github.com/aditya-git16/lithos/internal/ring"
)

func main() {
	cfgPath := flag.String("config", "config.toml", "path to the lithos config file")
	startFromRetained := flag.Bool("from-retained", false, "replay the retained backlog instead of starting at the tail")
	flag.Parse()
	if p := os.Getenv("LITHOS_CONFIG"); p != "" {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("lithos-consumer: failed to load config %s: %v", *cfgPath, err)
	}
	logger := levellog.New(cfg.MarketState.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	policy := ring.StartNewOnly
	if *startFromRetained {
		policy = ring.StartFromRetained
	}

	reader, err := ring.OpenReader(cfg.Ring.Path, cfg.Ring.LayoutVersion, policy)
	if err != nil {
		log.Fatalf("lithos-consumer: ring: %v", err)
	}
	defer reader.Close()
	logger.Infof("ring: %s (capacity=%d)", cfg.Ring.Path, reader.Capacity())

	index := marketstate.NewIndex(cfg.MarketState.Capacity)
	consumer := engine.NewConsumer(reader, index, 50*time.Microsecond)
	defer consumer.Close()

	consumer.Run(ctx)

	summary := consumer.Summary()
	fmt.Printf("lithos-consumer shutdown summary:\n")
	fmt.Printf("  events_applied : %d\n", summary.EventsApplied)
	fmt.Printf("  duplicates     : %d\n", summary.Duplicates)
	fmt.Printf("  malformed      : %d\n", summary.Malformed)
	fmt.Printf("  out_of_range   : %d\n", summary.OutOfRange)
	fmt.Printf("  overruns       : %d\n", summary.Overruns)

	active := index.IterActive()
	fmt.Printf("\nactive symbols: %d\n", len(active))
	for _, entry := range active {
		s := entry.State
		fmt.Printf("  symbol=%-5d mid_x2=%-12d spread_ticks=%-8d updates=%-10d last_seq=%d\n",
			entry.SymbolID, s.MidX2, s.SpreadTicks, s.UpdateCount, s.LastSeq)
	}
}
