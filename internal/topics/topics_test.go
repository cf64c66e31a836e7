package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildersAreDeterministic(t *testing.T) {
	assert.Equal(t, OrderCheckout(), OrderCheckout())
	assert.Equal(t, CustomerCancel("o-1"), CustomerCancel("o-1"))
	assert.Equal(t, KitchenReady("anna"), KitchenReady("anna"))
	assert.NotEqual(t, CustomerCancel("o-1"), CustomerCancel("o-2"))
}

func TestCategoriesDoNotCollide(t *testing.T) {
	// the same id in different categories must never produce the same topic
	id := "42"
	built := []string{
		OrderCheckout(),
		CustomerCancel(id),
		KitchenOrder(),
		KitchenReady(id),
		AcceptCustomerOrder(id),
		StaffCompleted(id),
	}

	seen := make(map[string]bool)
	for _, topic := range built {
		assert.False(t, seen[topic], "duplicate topic %q", topic)
		seen[topic] = true
	}
}

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		topic string
		want  Category
	}{
		{OrderCheckout(), CategoryCheckout},
		{CustomerCancel("o-1"), CategoryCancel},
		{CustomerCancel(Wildcard), CategoryCancel},
		{KitchenOrder(), CategoryKitchenOrder},
		{KitchenReady("anna"), CategoryKitchenReady},
		{AcceptCustomerOrder("cust-1"), CategoryAccept},
		{StaffCompleted("cust-1"), CategoryCompleted},
		{"some/other/topic", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryOf(tc.topic), "topic %q", tc.topic)
	}
}

func TestAddressed(t *testing.T) {
	assert.False(t, CategoryCheckout.Addressed())
	assert.False(t, CategoryKitchenOrder.Addressed())
	assert.True(t, CategoryCancel.Addressed())
	assert.True(t, CategoryKitchenReady.Addressed())
	assert.True(t, CategoryAccept.Addressed())
	assert.True(t, CategoryCompleted.Addressed())
}

func TestMatches(t *testing.T) {
	cases := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"order/checkout", "order/checkout", true},
		{"order/checkout", "order/cancel", false},
		{"order/cancel/#", "order/cancel/o-1", true},
		{"order/cancel/#", "order/cancel/o-1/extra", true},
		{"order/cancel/#", "order/checkout", false},
		{"#", "anything/at/all", true},
		{"order/+/o-1", "order/cancel/o-1", true},
		{"order/+", "order/cancel/o-1", false},
		{"order/cancel/o-1", "order/cancel", false},
		{"order/cancel", "order/cancel/o-1", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Matches(tc.filter, tc.topic), "filter %q topic %q", tc.filter, tc.topic)
	}
}
