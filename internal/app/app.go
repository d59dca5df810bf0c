package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"paycheckout/internal/checkout"
	"paycheckout/internal/config"
	"paycheckout/internal/gateway"
	"paycheckout/internal/service"
	httpt "paycheckout/internal/transport/http"
	kafkat "paycheckout/internal/transport/kafka"
	"paycheckout/pkg/cache"
	"paycheckout/pkg/kafka"
	"paycheckout/pkg/logger"
	"paycheckout/pkg/metric"

	"golang.org/x/sync/errgroup"
)

const _dedupCacheName = "notifications"

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	metrics := metric.NewFactory()

	checkoutService, err := initCheckoutService(cfg, log, metrics)
	if err != nil {
		return err
	}

	dedupCache, err := initDedupCache(&cfg.Notifications, log, metrics)
	if err != nil {
		return err
	}
	defer dedupCache.StopCleanup()

	publisher, err := initPublisher(ctx, cfg, log, metrics)
	if err != nil {
		return err
	}

	notificationService := service.NewNotificationService(
		dedupCache,
		cfg.Notifications.DedupTTL,
		publisher,
		cfg.Notifications.PublishTimeout,
		metrics.Publisher(),
		log.With("component", "notification service"),
	)
	defer closePublisher(notificationService, log)

	httpServer, err := initHTTPServer(cfg, checkoutService, notificationService, log, metrics)
	if err != nil {
		return err
	}

	// Nothing listens until every fallible component above is built.
	eg, ctx := errgroup.WithContext(ctx)

	startMetricsServer(ctx, eg, &cfg.Metrics, metrics, log)

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})

	log.Infow("checkout profiles enabled",
		"profiles", checkoutService.Profiles(),
		"default", cfg.Gateway.DefaultProfile,
	)

	return waitForShutdown(eg)
}

func startMetricsServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	metrics metric.Factory,
	log logger.Logger,
) {
	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app.startMetricsServer: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.WriteTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app.startMetricsServer: shutdown: %w", err)
		}
		return nil
	})
}

func initCheckoutService(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (*service.CheckoutService, error) {
	refs, err := checkout.NewSnowflakeReferences(cfg.App.NodeID)
	if err != nil {
		return nil, fmt.Errorf("app.initCheckoutService: %w", err)
	}

	client, err := gateway.NewClient(
		log.With("component", "gateway client"),
		metrics.Gateway(),
		gateway.Timeout(cfg.Gateway.RequestTimeout),
		gateway.UserAgent(cfg.Gateway.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCheckoutService: %w", err)
	}

	return service.NewCheckoutService(
		cfg.Gateway.Profiles(),
		checkout.NewValidator(),
		checkout.NewBuilder(refs),
		client,
		metrics.Gateway(),
		log.With("component", "checkout service"),
	), nil
}

func initDedupCache(
	cfg *config.Notifications,
	log logger.Logger,
	metrics metric.Factory,
) (*cache.LRUCache[string, time.Time], error) {
	dedup, err := cache.NewLRUCache[string, time.Time](
		_dedupCacheName,
		cfg.DedupCapacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDedupCache: %w", err)
	}
	dedup.StartCleanup(cfg.CleanupInterval)
	return dedup, nil
}

func initPublisher(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (service.Publisher, error) {
	if !cfg.Kafka.Enabled {
		log.Warnw("kafka disabled, notifications will only be logged")
		return kafkat.NewLogPublisher(log.With("component", "notification log"), metrics.Publisher()), nil
	}

	writer, err := kafka.NewKafkaWriter(ctx, cfg.Kafka, log.With("component", "kafka writer"))
	if err != nil {
		return nil, fmt.Errorf("app.initPublisher: kafka writer creation: %w", err)
	}

	return kafkat.NewNotificationPublisher(
		writer,
		cfg.Kafka.Topic,
		log.With("component", "notification publisher"),
		metrics.Publisher(),
	), nil
}

func closePublisher(svc *service.NotificationService, log logger.Logger) {
	if err := svc.Close(); err != nil {
		log.Errorw("failed to close notification publisher", "error", err)
	}
}

func initHTTPServer(
	cfg *config.Config,
	checkoutService *service.CheckoutService,
	notificationService *service.NotificationService,
	log logger.Logger,
	metrics metric.Factory,
) (*httpt.HTTPServer, error) {
	handler, err := httpt.NewCheckoutHandler(
		checkoutService,
		notificationService,
		cfg,
		log,
		metrics.HTTP(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initHTTPServer: %w", err)
	}

	return httpt.NewHTTPServer(handler, &cfg.HTTP, log.With("component", "http server")), nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
