package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/edgeup/marketplace/internal/api/http"
	"github.com/edgeup/marketplace/internal/application/approval"
	"github.com/edgeup/marketplace/internal/application/auth"
	"github.com/edgeup/marketplace/internal/application/chat"
	"github.com/edgeup/marketplace/internal/application/favorite"
	"github.com/edgeup/marketplace/internal/application/negotiation"
	"github.com/edgeup/marketplace/internal/application/notification"
	"github.com/edgeup/marketplace/internal/application/order"
	"github.com/edgeup/marketplace/internal/application/product"
	"github.com/edgeup/marketplace/internal/application/review"
	"github.com/edgeup/marketplace/internal/application/user"
	"github.com/edgeup/marketplace/internal/config"
	"github.com/edgeup/marketplace/internal/infrastructure/events"
	"github.com/edgeup/marketplace/internal/infrastructure/postgres"
	"github.com/edgeup/marketplace/internal/infrastructure/redisx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("migration error")
	}

	// repositories
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	negotiationStore := postgres.NewNegotiationStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)

	// infrastructure
	publisher, closePublisher, err := events.New(events.Options{
		Broker:       cfg.EventBroker,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("event broker error")
	}
	defer closePublisher()

	var idem httpapi.IdempotencyStore
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis error")
		}
		defer rdb.Close()
		idem = redisx.NewIdempotencyStore(rdb, cfg.IdempotencyTTL)
	}

	// services
	dispatcher := notification.NewDispatcher(notificationRepo, publisher, logger)
	notificationSvc := notification.NewService(notificationRepo, logger)
	authSvc := auth.NewService(userRepo, sessionRepo, []byte(cfg.JWTSecret), cfg.SessionTTL, logger)
	userSvc := user.NewService(userRepo, logger)
	productSvc := product.NewService(productRepo, logger)
	negotiationSvc := negotiation.NewService(negotiationStore, dispatcher, logger)
	orderSvc := order.NewService(orderStore, userRepo, dispatcher, logger)
	chatSvc := chat.NewService(chatRepo, userRepo, logger)
	favoriteSvc := favorite.NewService(favoriteRepo, productRepo, logger)
	reviewSvc := review.NewService(reviewRepo, productRepo, orderStore, dispatcher, logger)
	approvalSvc := approval.NewService(approvalRepo, userRepo, dispatcher, logger)

	// API server
	apiServer := httpapi.NewServer(httpapi.Deps{
		Auth:                authSvc,
		Users:               userSvc,
		Products:            productSvc,
		Negotiations:        negotiationSvc,
		Orders:              orderSvc,
		Notifier:            notificationSvc,
		Chat:                chatSvc,
		Favorites:           favoriteSvc,
		Reviews:             reviewSvc,
		Approvals:           approvalSvc,
		Idempotency:         idem,
		SessionCookieName:   cfg.SessionCookieName,
		SessionCookieSecure: cfg.SessionCookieSecure,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// background loops
	g.Go(func() error {
		every(gctx, cfg.AutoRespondInterval, func(ctx context.Context) {
			if _, err := negotiationSvc.AutoRespond(ctx, 50); err != nil {
				logger.Error().Err(err).Msg("auto-respond sweep failed")
			}
		})
		return nil
	})

	g.Go(func() error {
		every(gctx, cfg.SessionCleanup, func(ctx context.Context) {
			n, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("session cleanup failed")
				return
			}
			if n > 0 {
				logger.Info().Int("deleted", n).Msg("expired sessions removed")
			}
		})
		return nil
	})

	// start server
	g.Go(func() error {
		logger.Info().Str("addr", cfg.ServerAddr).Str("broker", cfg.EventBroker).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctxShutdown)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}
}

func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
