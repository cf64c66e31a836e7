package orderservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/broker"
	"tableside/internal/domain/menu"
	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

// passthroughUOW runs the body without a real transaction.
type passthroughUOW struct{}

func (passthroughUOW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memOrdersRepo struct {
	byID map[string]*orders.Order

	// casApplied, when false, simulates losing the compare-and-swap race
	casApplied bool
}

func newMemOrdersRepo() *memOrdersRepo {
	return &memOrdersRepo{byID: make(map[string]*orders.Order), casApplied: true}
}

func (r *memOrdersRepo) CreateOrder(_ context.Context, o *orders.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	stored := *o
	r.byID[o.ID] = &stored
	return nil
}

func (r *memOrdersRepo) GetByID(_ context.Context, id string) (*orders.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrdersRepo) ListByStatus(_ context.Context, status orders.OrderStatus) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range r.byID {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrdersRepo) ListByCustomer(_ context.Context, customerID string) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range r.byID {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrdersRepo) UpdateStatusCAS(_ context.Context, id string, expected, next orders.OrderStatus, changedBy string) (bool, error) {
	o, ok := r.byID[id]
	if !ok || o.Status != expected || !r.casApplied {
		return false, nil
	}
	o.Status = next
	if next == orders.StatusPreparing {
		o.ProcessedBy = &changedBy
	}
	if next == orders.StatusCompleted {
		now := time.Now().UTC()
		o.CompletedAt = &now
	}
	return true, nil
}

type memMenuRepo struct {
	items map[string]menu.Item
}

func newMemMenuRepo(items ...menu.Item) *memMenuRepo {
	r := &memMenuRepo{items: make(map[string]menu.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memMenuRepo) CreateItem(_ context.Context, item *menu.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memMenuRepo) GetItem(_ context.Context, id string) (*menu.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return &it, nil
}

func (r *memMenuRepo) GetItemsByIDs(_ context.Context, ids []string) ([]menu.Item, error) {
	var out []menu.Item
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memMenuRepo) ListItems(_ context.Context, onlyAvailable bool) ([]menu.Item, error) {
	var out []menu.Item
	for _, it := range r.items {
		if !onlyAvailable || it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memMenuRepo) UpdateItem(_ context.Context, item *menu.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return menu.ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memMenuRepo) DeleteItem(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return menu.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memNotificationsRepo struct {
	byID map[string]*notifications.Notification
}

func newMemNotificationsRepo() *memNotificationsRepo {
	return &memNotificationsRepo{byID: make(map[string]*notifications.Notification)}
}

func (r *memNotificationsRepo) Create(_ context.Context, n *notifications.Notification) error {
	cp := *n
	r.byID[n.ID] = &cp
	return nil
}

func (r *memNotificationsRepo) ListByUser(_ context.Context, userID string) ([]notifications.Notification, error) {
	var out []notifications.Notification
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *memNotificationsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return notifications.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memNotificationsRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.byID {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

var (
	_ ports.OrderRepository        = (*memOrdersRepo)(nil)
	_ ports.MenuRepository         = (*memMenuRepo)(nil)
	_ ports.NotificationRepository = (*memNotificationsRepo)(nil)
)

type fixture struct {
	svc       *Service
	ordersDB  *memOrdersRepo
	hub       *broker.Hub
	published *hubRecorder
}

type hubRecorder struct {
	msgs []broker.Message
}

func (r *hubRecorder) handle(m broker.Message) { r.msgs = append(r.msgs, m) }

func newFixture(t *testing.T, items ...menu.Item) *fixture {
	t.Helper()
	log := logger.NewLogger("test")

	hub := broker.NewHub()
	rec := &hubRecorder{}
	sub := hub.Connect([]string{"#"}, rec.handle)
	t.Cleanup(sub.Close)

	conn := hub.Connect(nil, nil)
	t.Cleanup(conn.Close)

	ordersDB := newMemOrdersRepo()
	svc := New(passthroughUOW{}, ordersDB, newMemMenuRepo(items...), broker.NewPublisher(conn, log), log)
	return &fixture{svc: svc, ordersDB: ordersDB, hub: hub, published: rec}
}

func burger() menu.Item {
	return menu.Item{ID: "m-1", Name: "Burger", Price: orders.NewMoneyFromFloat2(8.50), IsAvailable: true}
}

func placeCmd() ports.PlaceOrderCommand {
	return ports.PlaceOrderCommand{
		CustomerID:   "cust-1",
		CustomerName: "Ann",
		Items:        []ports.OrderItemInput{{MenuItemID: "m-1", Quantity: 2}},
	}
}

func TestPlaceOrderPersistsAndAnnounces(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, orders.NewMoneyFromFloat2(17.00), order.TotalAmount, "2 x 8.50 priced from the menu")

	stored, err := fx.ordersDB.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, stored.Status)

	require.Len(t, fx.published.msgs, 1)
	assert.Equal(t, topics.OrderCheckout(), fx.published.msgs[0].Topic)
	assert.Contains(t, string(fx.published.msgs[0].Payload), order.ID)
}

func TestPlaceOrderValidation(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ports.PlaceOrderCommand)
	}{
		{"missing customer id", func(c *ports.PlaceOrderCommand) { c.CustomerID = "" }},
		{"blank name", func(c *ports.PlaceOrderCommand) { c.CustomerName = "   " }},
		{"no items", func(c *ports.PlaceOrderCommand) { c.Items = nil }},
		{"zero quantity", func(c *ports.PlaceOrderCommand) { c.Items[0].Quantity = 0 }},
		{"quantity too high", func(c *ports.PlaceOrderCommand) { c.Items[0].Quantity = 21 }},
		{"unknown menu item", func(c *ports.PlaceOrderCommand) { c.Items[0].MenuItemID = "m-404" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := placeCmd()
			tc.mutate(&cmd)
			_, err := fx.svc.PlaceOrder(ctx, cmd)
			require.Error(t, err)
		})
	}

	assert.Empty(t, fx.published.msgs, "rejected orders are never announced")
}

func TestPlaceOrderRejectsUnavailableItem(t *testing.T) {
	item := burger()
	item.IsAvailable = false
	fx := newFixture(t, item)

	_, err := fx.svc.PlaceOrder(context.Background(), placeCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestUpdateStatusHappyPath(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	updated, err := fx.svc.UpdateStatus(ctx, order.ID, orders.StatusPreparing, "anna")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPreparing, updated.Status)
	require.NotNil(t, updated.ProcessedBy)
	assert.Equal(t, "anna", *updated.ProcessedBy)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, order.ID, orders.StatusCompleted, "anna")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusConflictWhenRaceLost(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	// another actor wins the compare-and-swap between read and write
	fx.ordersDB.casApplied = false
	_, err = fx.svc.UpdateStatus(ctx, order.ID, orders.StatusPreparing, "anna")
	require.ErrorIs(t, err, orders.ErrStatusConflict)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	fx := newFixture(t, burger())

	_, err := fx.svc.UpdateStatus(context.Background(), "o-404", orders.StatusPreparing, "anna")
	require.ErrorIs(t, err, orders.ErrNotFound)
}

func TestCancellationIsAnnouncedOnTheOrderTopic(t *testing.T) {
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, order.ID, orders.StatusCancelled, "cust-1")
	require.NoError(t, err)

	require.Len(t, fx.published.msgs, 2, "checkout then cancel")
	assert.Equal(t, topics.CustomerCancel(order.ID), fx.published.msgs[1].Topic)
	assert.Contains(t, string(fx.published.msgs[1].Payload), order.ID)
}

func TestAcceptanceIsNotAnnouncedByTheServer(t *testing.T) {
	// accept/ready/completed events belong to the acting console's own
	// connection, not the server-side publisher
	fx := newFixture(t, burger())
	ctx := context.Background()

	order, err := fx.svc.PlaceOrder(ctx, placeCmd())
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, order.ID, orders.StatusPreparing, "anna")
	require.NoError(t, err)

	require.Len(t, fx.published.msgs, 1, "only the checkout event")
}

func TestNotificationService(t *testing.T) {
	log := logger.NewLogger("test")
	repo := newMemNotificationsRepo()
	svc := NewNotificationService(passthroughUOW{}, repo, log)
	ctx := context.Background()

	n, err := svc.Notify(ctx, "cust-1", "o-1", "Order o-1 is being prepared")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)

	_, err = svc.Notify(ctx, "", "o-1", "msg")
	require.Error(t, err, "user id is required")

	list, err := svc.ListForUser(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)

	require.NoError(t, svc.MarkAllRead(ctx, "cust-1"))
	list, err = svc.ListForUser(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)

	require.NoError(t, svc.Delete(ctx, n.ID))
	require.ErrorIs(t, svc.Delete(ctx, n.ID), notifications.ErrNotFound)
}
