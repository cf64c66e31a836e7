// Package topics defines the topic naming scheme shared by every publisher
// and subscriber of the order event pipeline. Topic strings are a wire
// contract: any dashboard listening on the broker depends on these exact
// segments.
package topics

import "strings"

// Wildcard subscribes to every remaining topic level. Valid only when
// subscribing; publishing to an addressed topic requires a concrete id.
const Wildcard = "#"

// separator between topic levels.
const separator = "/"

// Category classifies a topic by the event it carries.
type Category string

const (
	CategoryCheckout     Category = "checkout"
	CategoryCancel       Category = "cancel"
	CategoryKitchenOrder Category = "kitchen-order"
	CategoryKitchenReady Category = "kitchen-ready"
	CategoryAccept       Category = "accept-customer-order"
	CategoryCompleted    Category = "staff-completed"
	CategoryUnknown      Category = ""
)

// OrderCheckout is the broadcast topic for freshly placed orders.
func OrderCheckout() string { return "order/checkout" }

// CustomerCancel addresses a cancellation to one order. Pass Wildcard to
// subscribe to cancellations of any order.
func CustomerCancel(orderID string) string { return "order/cancel/" + orderID }

// KitchenOrder is the broadcast topic for orders accepted into preparation.
func KitchenOrder() string { return "kitchen/order" }

// KitchenReady addresses a ready-for-pickup event to the staff member who
// accepted the order.
func KitchenReady(preparerID string) string { return "kitchen/ready/" + preparerID }

// AcceptCustomerOrder addresses an acceptance notification to one customer.
func AcceptCustomerOrder(customerID string) string { return "notify/accept/" + customerID }

// StaffCompleted addresses a completion event to one customer.
func StaffCompleted(customerID string) string { return "staff/completed/" + customerID }

// CategoryOf maps a concrete topic back to its event category.
func CategoryOf(topic string) Category {
	switch {
	case topic == OrderCheckout():
		return CategoryCheckout
	case strings.HasPrefix(topic, "order/cancel/"):
		return CategoryCancel
	case topic == KitchenOrder():
		return CategoryKitchenOrder
	case strings.HasPrefix(topic, "kitchen/ready/"):
		return CategoryKitchenReady
	case strings.HasPrefix(topic, "notify/accept/"):
		return CategoryAccept
	case strings.HasPrefix(topic, "staff/completed/"):
		return CategoryCompleted
	default:
		return CategoryUnknown
	}
}

// Addressed reports whether publishing on this category requires a
// recipient id segment.
func (c Category) Addressed() bool {
	switch c {
	case CategoryCancel, CategoryKitchenReady, CategoryAccept, CategoryCompleted:
		return true
	}
	return false
}

// Matches reports whether an MQTT-style topic filter matches a concrete
// topic. "#" matches any number of trailing levels, "+" matches exactly one
// level. Used by the in-memory broker and by subscription bookkeeping; the
// MQTT broker applies the same rules server-side.
func Matches(filter, topic string) bool {
	fparts := strings.Split(filter, separator)
	tparts := strings.Split(topic, separator)

	for i, fp := range fparts {
		if fp == Wildcard {
			return true
		}
		if i >= len(tparts) {
			return false
		}
		if fp != "+" && fp != tparts[i] {
			return false
		}
	}
	return len(fparts) == len(tparts)
}
