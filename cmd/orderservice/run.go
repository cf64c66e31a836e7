package orderservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	service "tableside/internal/app/orderservice"
	"tableside/internal/broker"
	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
	pg "tableside/internal/shared/postgres"
)

// Run wires the order service and blocks until ctx is cancelled.
// It returns the first terminal error (server or startup failure).
func Run(ctx context.Context, port int) error {
	log := logger.NewLogger("order-service")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}
	if port > 0 {
		cfg.HTTP.Port = port
	}

	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	// the server side publishes order events through the process-wide
	// publisher; all handlers share one broker connection
	pub, err := broker.SharedPublisher(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "broker_connection_failed", "Failed to connect to the event broker", err)
		return err
	}
	defer broker.ShutdownShared()

	uow := pg.NewUnitOfWork(pool)
	orderSvc := service.New(uow, pg.NewOrdersRepo(), pg.NewMenuRepo(), pub, log)
	menuSvc := service.NewMenuService(uow, pg.NewMenuRepo(), log)
	notifSvc := service.NewNotificationService(uow, pg.NewNotificationsRepo(), log)
	userSvc := service.NewUserService(uow, pg.NewUsersRepo(), log)

	h := service.NewHTTPHandler(orderSvc, menuSvc, notifSvc, userSvc, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info(ctx, "service_started",
		fmt.Sprintf("Order service started on port %d", cfg.HTTP.Port),
		map[string]any{"port": cfg.HTTP.Port, "broker_mode": cfg.Broker.Mode},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		log.Info(shCtx, "graceful_shutdown", "Order service stopped", nil)
		return nil
	case err := <-errCh:
		return err
	}
}
