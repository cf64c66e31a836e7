package orderservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tableside/internal/broker"
	"tableside/internal/domain/menu"
	"tableside/internal/domain/orders"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

// ErrInvalidTransition is returned when a requested status change is not
// allowed from the order's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service implements ports.OrderService. It owns the "write the system of
// record first, then announce" sequencing: events go out only after the
// transaction committed, and a failed publish is advisory, never a reason
// to fail the request. A nil publisher disables announcements; console
// processes announce on their own feed connections instead.
type Service struct {
	uow    ports.UnitOfWork
	orders ports.OrderRepository
	menu   ports.MenuRepository
	pub    *broker.Publisher
	logger *logger.Logger
}

var _ ports.OrderService = (*Service)(nil)

// New creates the order service with its dependencies.
func New(uow ports.UnitOfWork, ordersRepo ports.OrderRepository, menuRepo ports.MenuRepository, pub *broker.Publisher, log *logger.Logger) *Service {
	return &Service{uow: uow, orders: ordersRepo, menu: menuRepo, pub: pub, logger: log}
}

// PlaceOrder validates input, prices the order from the menu, persists it,
// and announces it on the checkout topic.
func (service *Service) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*orders.Order, error) {
	// basic validation
	if strings.TrimSpace(cmd.CustomerID) == "" {
		return nil, errors.New("customer_id is required")
	}
	cmd.CustomerName = strings.TrimSpace(cmd.CustomerName)
	if len(cmd.CustomerName) < 1 || len(cmd.CustomerName) > 100 {
		return nil, errors.New("customer_name must be 1-100 characters long")
	}
	if len(cmd.Items) < 1 || len(cmd.Items) > 30 {
		return nil, errors.New("order must contain between 1 and 30 items")
	}
	for i := range cmd.Items {
		if cmd.Items[i].MenuItemID == "" {
			return nil, fmt.Errorf("item %d is missing menu_item_id", i+1)
		}
		if cmd.Items[i].Quantity < 1 || cmd.Items[i].Quantity > 20 {
			return nil, fmt.Errorf("item %d quantity must be between 1 and 20", i+1)
		}
	}

	var order orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// price against the current menu
		ids := make([]string, len(cmd.Items))
		for i := range cmd.Items {
			ids[i] = cmd.Items[i].MenuItemID
		}
		catalogue, err := service.menu.GetItemsByIDs(txCtx, ids)
		if err != nil {
			service.logger.Error(ctx, "db_transaction_failed", "failed to load menu items", err)
			return err
		}
		byID := make(map[string]*menu.Item, len(catalogue))
		for i := range catalogue {
			byID[catalogue[i].ID] = &catalogue[i]
		}

		// build the aggregate with menu snapshots per line
		order.ID = uuid.NewString()
		order.CustomerID = cmd.CustomerID
		order.CustomerName = cmd.CustomerName
		order.Status = orders.StatusPending
		order.Items = make([]orders.OrderItem, 0, len(cmd.Items))
		for _, in := range cmd.Items {
			mi, ok := byID[in.MenuItemID]
			if !ok {
				return fmt.Errorf("menu item %s does not exist", in.MenuItemID)
			}
			if !mi.IsAvailable {
				return fmt.Errorf("menu item %q is not available", mi.Name)
			}
			order.Items = append(order.Items, orders.OrderItem{
				ID:             uuid.NewString(),
				MenuItemID:     mi.ID,
				Name:           mi.Name,
				Quantity:       in.Quantity,
				UnitPrice:      mi.Price,
				SpecialRequest: in.SpecialRequest,
			})
		}
		order.SetTotalAmount()

		if err := service.orders.CreateOrder(txCtx, &order); err != nil {
			service.logger.Error(ctx, "db_transaction_failed", "failed to create order", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// announce after commit; publish failures degrade to the consoles'
	// polling fallback
	if service.pub != nil {
		if err := service.pub.Publish(ctx, topics.OrderCheckout(), contracts.FromOrder(&order)); err != nil {
			service.logger.Error(ctx, "checkout_publish_failed", "Order stored but checkout event was not announced", err)
		}
	}

	return &order, nil
}

// UpdateStatus applies one lifecycle transition under compare-and-swap and
// announces cancellations. Accept/ready/completed events are emitted by the
// acting console on its own connection.
func (service *Service) UpdateStatus(ctx context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error) {
	if changedBy == "" {
		changedBy = "system"
	}

	var updated *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := service.orders.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !orders.CanTransition(current.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
		}

		applied, err := service.orders.UpdateStatusCAS(txCtx, orderID, current.Status, next, changedBy)
		if err != nil {
			service.logger.Error(ctx, "db_transaction_failed", "failed to update order status", err)
			return err
		}
		if !applied {
			// someone else moved the order between our read and write
			return orders.ErrStatusConflict
		}

		updated, err = service.orders.GetByID(txCtx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info(ctx, "order_status_changed", "Order status updated", map[string]any{
		"order_id":   orderID,
		"status":     next,
		"changed_by": changedBy,
	})

	if next == orders.StatusCancelled && service.pub != nil {
		cancel := contracts.CancelEvent{OrderID: orderID, Reason: "cancelled by customer"}
		if err := service.pub.Publish(ctx, topics.CustomerCancel(orderID), cancel); err != nil {
			service.logger.Error(ctx, "cancel_publish_failed", "Cancellation stored but event was not announced", err)
		}
	}

	return updated, nil
}

// GetOrder fetches one order with items.
func (service *Service) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	var out *orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.orders.GetByID(txCtx, orderID)
		return err
	})
	return out, err
}

// ListByStatus returns orders currently in one status.
func (service *Service) ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error) {
	var out []orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.orders.ListByStatus(txCtx, status)
		return err
	})
	return out, err
}

// ListCustomerOrders returns one customer's order history.
func (service *Service) ListCustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error) {
	var out []orders.Order
	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = service.orders.ListByCustomer(txCtx, customerID)
		return err
	})
	return out, err
}
