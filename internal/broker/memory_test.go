package broker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/topics"
)

type recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *recorder) handle(m Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, m)
	r.mu.Unlock()
}

func (r *recorder) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	exact := &recorder{}
	wild := &recorder{}
	other := &recorder{}

	sub1 := hub.Connect([]string{topics.CustomerCancel("o-1")}, exact.handle)
	sub2 := hub.Connect([]string{topics.CustomerCancel(topics.Wildcard)}, wild.handle)
	sub3 := hub.Connect([]string{topics.KitchenOrder()}, other.handle)
	defer sub1.Close()
	defer sub2.Close()
	defer sub3.Close()

	pub := hub.Connect(nil, nil)
	defer pub.Close()

	require.NoError(t, pub.Publish(ctx, topics.CustomerCancel("o-1"), []byte(`{"orderId":"o-1"}`)))

	assert.Len(t, exact.messages(), 1, "exact filter matches")
	assert.Len(t, wild.messages(), 1, "wildcard filter matches")
	assert.Empty(t, other.messages(), "unrelated topic stays quiet")
}

func TestHubDeliversOncePerConnection(t *testing.T) {
	hub := NewHub()

	rec := &recorder{}
	sub := hub.Connect([]string{topics.OrderCheckout(), "#"}, rec.handle)
	defer sub.Close()

	pub := hub.Connect(nil, nil)
	defer pub.Close()

	require.NoError(t, pub.Publish(context.Background(), topics.OrderCheckout(), []byte(`{}`)))
	assert.Len(t, rec.messages(), 1, "two matching filters still deliver once")
}

func TestHubNoDeliveryToClosedConnection(t *testing.T) {
	hub := NewHub()

	rec := &recorder{}
	sub := hub.Connect([]string{topics.OrderCheckout()}, rec.handle)

	pub := hub.Connect(nil, nil)
	defer pub.Close()

	sub.Close()
	require.NoError(t, pub.Publish(context.Background(), topics.OrderCheckout(), []byte(`{}`)))
	assert.Empty(t, rec.messages(), "messages are not buffered for absent subscribers")
}

func TestClosedConnectionCannotPublish(t *testing.T) {
	hub := NewHub()

	pub := hub.Connect(nil, nil)
	pub.Close()

	err := pub.Publish(context.Background(), topics.OrderCheckout(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, pub.Connected())

	// repeated close is harmless
	pub.Close()
}

func TestHubPayloadIsolation(t *testing.T) {
	hub := NewHub()

	rec := &recorder{}
	sub := hub.Connect([]string{topics.OrderCheckout()}, rec.handle)
	defer sub.Close()

	pub := hub.Connect(nil, nil)
	defer pub.Close()

	payload := []byte(`{"id":"o-1"}`)
	require.NoError(t, pub.Publish(context.Background(), topics.OrderCheckout(), payload))

	payload[2] = 'X'
	assert.JSONEq(t, `{"id":"o-1"}`, string(rec.messages()[0].Payload))
}
