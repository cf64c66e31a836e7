package orders

// OrderStatus represents the current status of an order in its lifecycle.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Allowed state transitions. Cancellation is reachable from PENDING only;
// once the kitchen has the order it runs to completion.
var allowed = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true},
	StatusReady:     {StatusCompleted: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition checks if from->to is allowed.
func CanTransition(from, to OrderStatus) bool {
	nexts := allowed[from]
	return nexts != nil && nexts[to]
}

// ParseStatus validates a status string from an external caller.
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}
