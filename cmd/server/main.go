package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"matchbook/api/rest"
	"matchbook/domain/book"
	"matchbook/infra/config"
	"matchbook/infra/kafka"
	"matchbook/infra/outbox"
	"matchbook/infra/sequence"
	"matchbook/infra/wal"
	"matchbook/jobs/broadcaster"
	"matchbook/jobs/retention"
	"matchbook/service"
)

func main() {
	cfg := config.Load()

	// ---------------- WAL ----------------

	journal, err := wal.Open(wal.Config{
		Dir:         cfg.WALDir,
		SegmentSize: wal.DefaultSegmentSize,
	})
	if err != nil {
		log.Fatalf("WAL init failed: %v", err)
	}
	defer journal.Close()

	// ---------------- Outbox ----------------

	store, err := outbox.Open(cfg.OutboxDir)
	if err != nil {
		log.Fatalf("outbox init failed: %v", err)
	}
	defer store.Close()

	// ---------------- Domain ----------------

	engine := book.NewBook()
	seqGen := sequence.New(0)

	// ---------------- Recovery ----------------

	if err := service.Recover(cfg.SnapshotDir, cfg.WALDir, engine, seqGen, store); err != nil {
		log.Fatalf("recovery failed: %v", err)
	}

	// ---------------- Live Feed ----------------

	feed := kafka.NewProducer(cfg.KafkaBrokers, cfg.TradeTopic)
	defer feed.Close()

	// ---------------- Service ----------------

	svc := service.NewEngineService(engine, seqGen, journal, store, feed)

	// ---------------- Background Jobs ----------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.StartSnapshotJob(ctx, cfg.SnapshotDir, 30*time.Second)

	bc, err := broadcaster.New(store, cfg.KafkaBrokers, cfg.TradeTopic, 2*time.Second)
	if err != nil {
		log.Printf("broadcaster disabled: %v", err)
	} else {
		bc.Start(ctx)
		defer bc.Close()
	}

	retention.New(svc, time.Minute).Start(ctx)

	// ---------------- HTTP ----------------

	app := fiber.New()
	rest.InitializeRoutes(app, rest.NewServer(svc, rest.PriceCodec{Scale: cfg.PriceScale}))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	fmt.Printf("🚀 Matchbook engine running on %s\n", cfg.HTTPAddr)

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("HTTP server exited: %v", err)
	}

	if err := journal.Sync(); err != nil {
		log.Printf("final WAL sync: %v", err)
	}
}
