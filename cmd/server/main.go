package main // Entry point package

import (
	"context"   // root context for background workers
	"log"       // Logging library
	"os"        // signal handling
	"os/signal" // graceful shutdown
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // request logging and panic recovery
	glog "github.com/labstack/gommon/log"           // Echo's leveled logger

	"github.com/iliyamo/client-reservations/internal/config"     // Internal config loader
	"github.com/iliyamo/client-reservations/internal/handler"    // HTTP handlers
	"github.com/iliyamo/client-reservations/internal/middleware" // session auth, rate limit, cache
	"github.com/iliyamo/client-reservations/internal/queue"      // audit consumer
	"github.com/iliyamo/client-reservations/internal/router"     // Internal router setup
	"github.com/iliyamo/client-reservations/internal/scheduler"  // session sweeper
	"github.com/iliyamo/client-reservations/internal/service"    // event publisher
	"github.com/iliyamo/client-reservations/internal/session"    // session registry
)

func main() {
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(cfg.SessionTTL, cfg.DateLocale, nil)
	sweeper, err := scheduler.StartSessionSweeper(store, cfg.SweepInterval)
	if err != nil {
		log.Fatalf("session sweeper: %v", err)
	}
	defer func() { _ = sweeper.Shutdown() }()

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil when Redis is down
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	notifier := handler.Notifier{Cache: cache}
	var publisher *service.Publisher
	if cfg.EventsEnabled {
		publisher = service.NewPublisher(cfg.AMQPURL)
		notifier.Events = publisher
		consumer := &queue.AuditConsumer{URL: cfg.AMQPURL, Dir: cfg.AuditLogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("audit-consumer: stopped: %v", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	if cfg.Env == "prod" {
		e.Logger.SetLevel(glog.WARN)
	} else {
		e.Logger.SetLevel(glog.INFO)
	}
	e.Use(echomw.Recover(), echomw.Logger())

	router.RegisterRoutes(e) // Register application routes
	router.RegisterSession(e, router.Deps{
		Store:        store,
		Secret:       cfg.JWTSecret,
		Sessions:     handler.NewSessionHandler(store, cfg.JWTSecret, cache),
		Reservations: handler.NewReservationHandler(notifier),
		Form:         handler.NewFormHandler(notifier),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:        cache.Middleware(),
	})

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()
	if err := e.Start(addr); err != nil && ctx.Err() == nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}

	if publisher != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := publisher.Close(flushCtx); err != nil {
			log.Printf("rabbitmq: events still queued at exit: %v", err)
		}
	}
}
