package actions

import (
	"context"

	service "tableside/internal/app/orderservice"
	"tableside/internal/ports"
	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
	pg "tableside/internal/shared/postgres"
)

// ForConfig selects the capability implementation for this deployment:
// remote when api_base_url points at an order-service instance, local
// (direct database access) otherwise. The returned cleanup releases
// whatever the chosen path holds open.
func ForConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.OrderActions, func(), error) {
	if cfg.APIBaseURL != "" {
		log.Info(ctx, "actions_remote", "Performing order actions over the HTTP API", map[string]any{"base_url": cfg.APIBaseURL})
		return NewRemote(cfg.APIBaseURL), func() {}, nil
	}

	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "actions_local", "Performing order actions against the database directly", nil)

	uow := pg.NewUnitOfWork(pool)
	// consoles never publish through the server-side publisher, so the
	// local order service gets none and events stay on the console's feed
	orderSvc := service.New(uow, pg.NewOrdersRepo(), pg.NewMenuRepo(), nil, log)
	notifSvc := service.NewNotificationService(uow, pg.NewNotificationsRepo(), log)

	return NewLocal(orderSvc, notifSvc), pool.Close, nil
}
