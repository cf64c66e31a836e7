package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/broker"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

func msg(topic, payload string) broker.Message {
	return broker.Message{Topic: topic, Payload: []byte(payload), ReceivedAt: time.Now().UTC()}
}

func TestOrderListDedupes(t *testing.T) {
	list := NewOrderList()

	assert.True(t, list.InsertHead(contracts.OrderEvent{ID: "o-1"}))
	assert.False(t, list.InsertHead(contracts.OrderEvent{ID: "o-1"}), "duplicate id collapses")
	assert.False(t, list.InsertTail(contracts.OrderEvent{ID: "o-1"}), "duplicate across insert positions too")
	assert.Equal(t, 1, list.Len())

	assert.False(t, list.InsertHead(contracts.OrderEvent{}), "empty id never inserted")
}

func TestOrderListHeadAndTailOrdering(t *testing.T) {
	list := NewOrderList()

	list.InsertHead(contracts.OrderEvent{ID: "o-1"})
	list.InsertHead(contracts.OrderEvent{ID: "o-2"})
	list.InsertTail(contracts.OrderEvent{ID: "o-3"})

	snap := list.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "o-2", snap[0].ID, "newest checkout first")
	assert.Equal(t, "o-1", snap[1].ID)
	assert.Equal(t, "o-3", snap[2].ID, "tail inserts append")
}

func TestOrderListRemoveAbsentIsNoOp(t *testing.T) {
	list := NewOrderList()
	list.InsertHead(contracts.OrderEvent{ID: "o-1"})

	assert.False(t, list.Remove("o-unknown"))
	assert.True(t, list.Remove("o-1"))
	assert.False(t, list.Remove("o-1"), "second removal finds nothing")
	assert.Equal(t, 0, list.Len())
}

func TestOrderListNormalizesAlternateID(t *testing.T) {
	list := NewOrderList()

	// a producer that keys by orderId must still dedupe against one that
	// keys by id
	assert.True(t, list.InsertTail(contracts.OrderEvent{OrderID: "o-1"}))
	assert.False(t, list.InsertTail(contracts.OrderEvent{ID: "o-1"}))
	assert.True(t, list.Has("o-1"))
}

func TestOrderListSeed(t *testing.T) {
	list := NewOrderList()
	list.InsertHead(contracts.OrderEvent{ID: "stale"})

	list.Seed([]contracts.OrderEvent{
		{ID: "o-1"},
		{ID: "o-2"},
		{ID: "o-1"},
		{OrderID: "o-3"},
	})

	snap := list.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "o-1", snap[0].ID)
	assert.Equal(t, "o-2", snap[1].ID)
	assert.Equal(t, "o-3", snap[2].ID)
	assert.False(t, list.Has("stale"), "seed replaces previous contents")
}

func TestReducerCheckoutInsertsAtHead(t *testing.T) {
	list := NewOrderList()
	r := NewReducer(list, nil, logger.NewLogger("test"))

	r.ApplyAll([]broker.Message{
		msg(topics.OrderCheckout(), `{"id":"o-1","customer":{"name":"Ann"}}`),
		msg(topics.OrderCheckout(), `{"id":"o-2","customer":{"name":"Bob"}}`),
	})

	snap := list.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "o-2", snap[0].ID)
}

func TestReducerCancelRemoves(t *testing.T) {
	list := NewOrderList()
	r := NewReducer(list, nil, logger.NewLogger("test"))

	r.Apply(msg(topics.OrderCheckout(), `{"id":"o-1"}`))
	r.Apply(msg(topics.CustomerCancel("o-1"), `{"orderId":"o-1"}`))
	assert.Equal(t, 0, list.Len())

	// cancel for an order never seen is fine
	r.Apply(msg(topics.CustomerCancel("o-9"), `{"orderId":"o-9"}`))
	assert.Equal(t, 0, list.Len())

	// cancel events keyed by id instead of orderId still resolve
	r.Apply(msg(topics.OrderCheckout(), `{"id":"o-2"}`))
	r.Apply(msg(topics.CustomerCancel("o-2"), `{"id":"o-2"}`))
	assert.Equal(t, 0, list.Len())
}

func TestReducerKitchenEventsNormalizeOrderID(t *testing.T) {
	list := NewOrderList()
	r := NewReducer(list, nil, logger.NewLogger("test"))

	// ready producers key by orderId; the entry must land under the
	// canonical id
	r.Apply(msg(topics.KitchenReady("anna"), `{"orderId":"o-1","status":"READY"}`))
	assert.True(t, list.Has("o-1"))

	r.Apply(msg(topics.KitchenOrder(), `{"id":"o-1","status":"PREPARING"}`))
	assert.Equal(t, 1, list.Len(), "same order from two kitchen topics collapses")
}

func TestReducerMalformedPayloadIsDropped(t *testing.T) {
	list := NewOrderList()
	r := NewReducer(list, nil, logger.NewLogger("test"))

	r.ApplyAll([]broker.Message{
		msg(topics.OrderCheckout(), `{not json`),
		msg(topics.OrderCheckout(), `{"id":"o-2"}`),
	})

	// the bad message never stops the ones behind it
	require.Equal(t, 1, list.Len())
	assert.True(t, list.Has("o-2"))
}

func TestReducerUnknownTopicIgnored(t *testing.T) {
	list := NewOrderList()
	r := NewReducer(list, nil, logger.NewLogger("test"))

	r.Apply(msg("some/other/topic", `{"id":"o-1"}`))
	assert.Equal(t, 0, list.Len())
}

func TestReducerAcceptGoesToSink(t *testing.T) {
	list := NewOrderList()
	inbox := NewNotificationLog()
	r := NewReducer(list, inbox.Append, logger.NewLogger("test"))

	r.Apply(msg(topics.AcceptCustomerOrder("cust-1"),
		`{"id":"n-1","content":"Order abc is being prepared","status":"PREPARING","orderId":"o-1"}`))

	require.Equal(t, 1, inbox.Unread())
	entries := inbox.Snapshot()
	assert.Equal(t, "o-1", entries[0].OrderID)
	assert.Equal(t, 0, list.Len(), "notifications never enter the order list")
}

func TestReducerCompletedSynthesizesNotification(t *testing.T) {
	inbox := NewNotificationLog()
	r := NewReducer(NewOrderList(), inbox.Append, logger.NewLogger("test"))

	r.Apply(msg(topics.StaffCompleted("cust-1"),
		`{"orderId":"11112222-3333","status":"COMPLETED","completedAt":"2026-08-28T12:00:00Z"}`))

	entries := inbox.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "11112222-3333", entries[0].OrderID)
	assert.Equal(t, "COMPLETED", entries[0].Status)
	assert.Contains(t, entries[0].Content, "11112222")
}

func TestNotificationLogMarkAllRead(t *testing.T) {
	inbox := NewNotificationLog()
	inbox.Append(contracts.NotificationEvent{ID: "n-1"})
	inbox.Append(contracts.NotificationEvent{ID: "n-2"})

	require.Equal(t, 2, inbox.Unread())
	inbox.MarkAllRead()
	assert.Equal(t, 0, inbox.Unread())
	assert.Len(t, inbox.Snapshot(), 2)
}
