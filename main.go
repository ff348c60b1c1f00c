package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/planora/auth"
	"github.com/danielhkuo/planora/cache"
	"github.com/danielhkuo/planora/cliparse"
	"github.com/danielhkuo/planora/db"
	"github.com/danielhkuo/planora/events"
	"github.com/danielhkuo/planora/middleware"
	"github.com/danielhkuo/planora/pollengine"
	"github.com/danielhkuo/planora/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to the database
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	if driver == "sqlite" {
		// SQLite serializes writers; one connection avoids "database is locked"
		dbConn.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)

	// Event cache: Redis when configured, otherwise in process
	var eventCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, using in-memory event cache", "error", err)
		} else {
			defer redisCache.Close()
			eventCache = redisCache
			slog.Info("Redis event cache ready")
		}
	}

	// Domain events: Kafka when brokers are configured, otherwise the log
	var publisher events.Publisher = events.LogPublisher{Logger: slog.Default()}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		slog.Info("Kafka publisher ready", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	engine := &pollengine.Engine{
		Store:       cache.NewEventStore(store, eventCache, cache.EventTTL),
		CanFinalize: auth.CanFinalize,
		Publisher:   publisher,
		Logger:      slog.Default(),
	}

	// Create router
	mux := router.NewRouter(store, engine, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
