package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusCompleted, true},

		{StatusPending, StatusReady, false},
		{StatusPending, StatusCompleted, false},
		{StatusPreparing, StatusCancelled, false},
		{StatusReady, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusPreparing, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	got, ok := ParseStatus("PREPARING")
	assert.True(t, ok)
	assert.Equal(t, StatusPreparing, got)

	_, ok = ParseStatus("preparing")
	assert.False(t, ok, "statuses are case sensitive")

	_, ok = ParseStatus("SHIPPED")
	assert.False(t, ok)
}

func TestMoneyRoundTrip(t *testing.T) {
	assert.Equal(t, Money(1099), NewMoneyFromFloat2(10.99))
	assert.Equal(t, Money(1100), NewMoneyFromFloat2(10.999))
	assert.Equal(t, 10.99, Money(1099).ToFloat2())
	assert.Equal(t, Money(0), NewMoneyFromFloat2(0))
}
