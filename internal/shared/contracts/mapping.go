package contracts

import (
	"time"

	"tableside/internal/domain/orders"
)

// FromOrder builds the wire payload for a domain order. Every producer of
// checkout/kitchen/ready events goes through this mapping so the id and
// amount fields stay consistent across topics.
func FromOrder(o *orders.Order) OrderEvent {
	event := OrderEvent{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.ToFloat2(),
		CreatedAt:   o.CreatedAt,
		Customer:    CustomerRef{ID: o.CustomerID, Name: o.CustomerName},
		Items:       make([]OrderItemEvent, 0, len(o.Items)),
	}
	if o.ProcessedBy != nil {
		event.PreparerID = *o.ProcessedBy
	}
	for i := range o.Items {
		it := &o.Items[i]
		event.Items = append(event.Items, OrderItemEvent{
			ID:             it.ID,
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
			MenuItem: MenuItemRef{
				Name:  it.Name,
				Price: it.UnitPrice.ToFloat2(),
			},
		})
	}
	return event
}

// NewCompleted builds the completion payload for an order.
func NewCompleted(orderID string, completedAt time.Time) CompletedEvent {
	return CompletedEvent{
		OrderID:     orderID,
		Status:      "COMPLETED",
		CompletedAt: completedAt.UTC(),
	}
}
