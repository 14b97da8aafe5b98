package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"freightcore/config"
	"freightcore/engine"
	"freightcore/messaging"
	"freightcore/refdata"
	"freightcore/store"
	"freightcore/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "freightcore.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("freightcore", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("freightcore: database open (%s)", cfg.Database.Driver)

	if err := db.SeedReferenceData(); err != nil {
		log.Printf("freightcore: seed reference data: %v", err)
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	redisOK := redisClient.Ping(ctx).Err() == nil
	cancel()
	var redisStore *refdata.RedisStore
	if redisOK {
		log.Printf("freightcore: redis connected (%s)", cfg.Redis.Address)
		redisStore = refdata.NewRedisStore(redisClient)
	} else {
		log.Printf("freightcore: redis not available, existence checks go straight to SQL")
	}
	defer redisClient.Close()

	// Reference data existence cache
	refMgr := refdata.NewManager(db, redisStore)
	if redisOK {
		if err := refMgr.SyncRedisFromSQL(); err != nil {
			log.Printf("freightcore: redis sync from SQL: %v", err)
		}
	}

	// Messaging client
	msgClient := messaging.NewClient(&cfg.Messaging)
	if err := msgClient.Connect(); err != nil {
		log.Printf("freightcore: messaging connect failed (%v)", err)
	} else {
		log.Printf("freightcore: messaging connected (%s)", cfg.Messaging.Backend)
	}
	defer msgClient.Close()

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		RefData:    refMgr,
		MsgClient:  msgClient,
	})
	eng.Start()
	defer eng.Stop()

	// Inbound carrier messages
	carrierHandler := messaging.NewCarrierHandler(eng.Matcher(), msgClient, cfg.Messaging.CarrierTopicPrefix, cfg.Messaging.MarketID)
	consumer := messaging.NewConsumer(msgClient, cfg.Messaging.SubmitTopic, carrierHandler)
	if err := consumer.Start(); err != nil {
		log.Printf("freightcore: carrier consumer subscribe failed: %v", err)
	} else {
		log.Printf("freightcore: carrier consumer listening on %s", cfg.Messaging.SubmitTopic)
	}

	// Outbox drainer (outbound to carriers)
	drainer := messaging.NewOutboxDrainer(db, msgClient, cfg.Messaging.OutboxDrainInterval)
	drainer.Start()
	defer drainer.Stop()

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("freightcore: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("freightcore: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("freightcore: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("freightcore: stopped")
}
