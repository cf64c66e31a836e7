package kitchendisplay

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/broker"
	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/feed"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

// fakeActions serves canned orders and records status updates.
type fakeActions struct {
	preparing []orders.Order
	preparer  *string
	updated   []string
	updateErr error
}

var _ ports.OrderActions = (*fakeActions)(nil)

func (f *fakeActions) PlaceOrder(context.Context, ports.PlaceOrderCommand) (*orders.Order, error) {
	panic("not used by the display")
}

func (f *fakeActions) UpdateStatus(_ context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, orderID)
	return &orders.Order{
		ID:          orderID,
		CustomerID:  "cust-1",
		Status:      next,
		ProcessedBy: f.preparer,
	}, nil
}

func (f *fakeActions) GetOrder(_ context.Context, orderID string) (*orders.Order, error) {
	return &orders.Order{ID: orderID}, nil
}

func (f *fakeActions) ListByStatus(context.Context, orders.OrderStatus) ([]orders.Order, error) {
	return f.preparing, nil
}

func (f *fakeActions) CreateNotification(context.Context, string, string, string) (*notifications.Notification, error) {
	panic("not used by the display")
}

func (f *fakeActions) MarkNotificationsRead(context.Context, string) error {
	panic("not used by the display")
}

func hubDial(hub *broker.Hub) feed.DialFunc {
	return func(subs []string, handler broker.Handler) (broker.Bus, error) {
		return hub.Connect(subs, handler), nil
	}
}

func newDisplay(t *testing.T, hub *broker.Hub, acts *fakeActions) *Display {
	t.Helper()
	log := logger.NewLogger("test")
	f := feed.New(hubDial(hub), log)
	d := New("grill-1", f, acts, log, io.Discard)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(f.Close)
	return d
}

func TestStartSeedsQueueFromPreparingOrders(t *testing.T) {
	acts := &fakeActions{preparing: []orders.Order{
		{ID: "o-1", CustomerID: "cust-1", Status: orders.StatusPreparing},
		{ID: "o-2", CustomerID: "cust-2", Status: orders.StatusPreparing},
	}}
	d := newDisplay(t, broker.NewHub(), acts)

	assert.Equal(t, 2, d.Queue().Len())
	assert.True(t, d.Queue().Has("o-2"))
}

func TestKitchenEventsFoldIntoQueue(t *testing.T) {
	hub := broker.NewHub()
	d := newDisplay(t, hub, &fakeActions{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	pub := hub.Connect(nil, nil)
	defer pub.Close()

	// tickets arrive keyed by orderId, not id
	require.NoError(t, pub.Publish(ctx, topics.KitchenOrder(), []byte(`{"orderId":"o-1","customer":{"name":"Ann"}}`)))
	require.Eventually(t, func() bool { return d.Queue().Has("o-1") }, time.Second, 5*time.Millisecond)
}

func TestReadyAnnouncesToAcceptingStaff(t *testing.T) {
	hub := broker.NewHub()

	staff := feed.New(hubDial(hub), logger.NewLogger("test"))
	defer staff.Close()
	require.NoError(t, staff.Subscribe(topics.KitchenReady("anna")))

	anna := "anna"
	acts := &fakeActions{
		preparing: []orders.Order{{ID: "o-1", CustomerID: "cust-1", Status: orders.StatusPreparing}},
		preparer:  &anna,
	}
	d := newDisplay(t, hub, acts)

	require.NoError(t, d.Ready(context.Background(), "o-1"))

	assert.Equal(t, []string{"o-1"}, acts.updated)
	assert.False(t, d.Queue().Has("o-1"), "ready order leaves the queue")

	msgs := staff.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0].Payload), `"orderId":"o-1"`)
}

func TestReadySkipsPublishWithoutPreparer(t *testing.T) {
	hub := broker.NewHub()

	staff := feed.New(hubDial(hub), logger.NewLogger("test"))
	defer staff.Close()
	require.NoError(t, staff.Subscribe(topics.KitchenReady(topics.Wildcard)))

	d := newDisplay(t, hub, &fakeActions{})

	require.NoError(t, d.Ready(context.Background(), "o-1"))
	assert.Empty(t, staff.Messages(), "nobody to address without an accepting staff member")
}

func TestReadyPropagatesConflict(t *testing.T) {
	acts := &fakeActions{updateErr: orders.ErrStatusConflict}
	d := newDisplay(t, broker.NewHub(), acts)

	err := d.Ready(context.Background(), "o-1")
	require.ErrorIs(t, err, orders.ErrStatusConflict)
	assert.Empty(t, acts.updated)
}
