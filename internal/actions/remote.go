package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
)

// Remote performs order actions against the order-service HTTP API.
type Remote struct {
	baseURL string
	client  *http.Client
}

var _ ports.OrderActions = (*Remote)(nil)

// NewRemote points the capability at an order-service instance.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Remote) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*orders.Order, error) {
	body := map[string]any{
		"customerId":   cmd.CustomerID,
		"customerName": cmd.CustomerName,
	}
	items := make([]map[string]any, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		item := map[string]any{
			"menuItemId": it.MenuItemID,
			"quantity":   it.Quantity,
		}
		if it.SpecialRequest != nil {
			item["specialRequest"] = *it.SpecialRequest
		}
		items = append(items, item)
	}
	body["items"] = items

	var event contracts.OrderEvent
	if err := r.do(ctx, http.MethodPost, "/api/orders", body, &event); err != nil {
		return nil, err
	}
	return toDomainOrder(&event), nil
}

func (r *Remote) UpdateStatus(ctx context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error) {
	body := map[string]any{"status": string(next), "changedBy": changedBy}

	var event contracts.OrderEvent
	path := "/api/orders/" + url.PathEscape(orderID) + "/status"
	if err := r.do(ctx, http.MethodPatch, path, body, &event); err != nil {
		return nil, err
	}
	return toDomainOrder(&event), nil
}

func (r *Remote) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	var event contracts.OrderEvent
	if err := r.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &event); err != nil {
		return nil, err
	}
	return toDomainOrder(&event), nil
}

func (r *Remote) ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error) {
	var events []contracts.OrderEvent
	if err := r.do(ctx, http.MethodGet, "/api/orders?status="+url.QueryEscape(string(status)), nil, &events); err != nil {
		return nil, err
	}

	out := make([]orders.Order, 0, len(events))
	for i := range events {
		out = append(out, *toDomainOrder(&events[i]))
	}
	return out, nil
}

func (r *Remote) CreateNotification(ctx context.Context, userID, orderID, message string) (*notifications.Notification, error) {
	body := map[string]any{"orderId": orderID, "message": message}

	var resp struct {
		ID        string `json:"id"`
		UserID    string `json:"userId"`
		OrderID   string `json:"orderId"`
		Message   string `json:"message"`
		IsRead    bool   `json:"isRead"`
		CreatedAt string `json:"createdAt"`
	}
	path := "/api/users/" + url.PathEscape(userID) + "/notifications"
	if err := r.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	n := &notifications.Notification{
		ID:      resp.ID,
		UserID:  resp.UserID,
		OrderID: resp.OrderID,
		Message: resp.Message,
		IsRead:  resp.IsRead,
	}
	if t, err := time.Parse(time.RFC3339, resp.CreatedAt); err == nil {
		n.CreatedAt = t
	}
	return n, nil
}

func (r *Remote) MarkNotificationsRead(ctx context.Context, userID string) error {
	path := "/api/users/" + url.PathEscape(userID) + "/notifications/read"
	return r.do(ctx, http.MethodPost, path, nil, nil)
}

// do runs one JSON round-trip, mapping the API's error statuses back onto
// the domain sentinels the caller branches on.
func (r *Remote) do(ctx context.Context, method, path string, body, into any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("order api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return orders.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return orders.ErrStatusConflict
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("order api %s %s: %s", method, path, apiErr.Error)
	}

	if into == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

// toDomainOrder maps a wire order back onto the domain shape the consoles
// share with the local path. Menu item ids are not on the wire and stay
// empty.
func toDomainOrder(event *contracts.OrderEvent) *orders.Order {
	event.Normalize()
	order := &orders.Order{
		ID:           event.ID,
		CustomerID:   event.CustomerID,
		CustomerName: event.Customer.Name,
		Status:       orders.OrderStatus(event.Status),
		TotalAmount:  orders.NewMoneyFromFloat2(event.TotalAmount),
		CreatedAt:    event.CreatedAt,
	}
	if event.CustomerID == "" {
		order.CustomerID = event.Customer.ID
	}
	if event.PreparerID != "" {
		prep := event.PreparerID
		order.ProcessedBy = &prep
	}
	for _, it := range event.Items {
		order.Items = append(order.Items, orders.OrderItem{
			ID:             it.ID,
			OrderID:        event.ID,
			Name:           it.MenuItem.Name,
			Quantity:       it.Quantity,
			UnitPrice:      orders.NewMoneyFromFloat2(it.MenuItem.Price),
			SpecialRequest: it.SpecialRequest,
		})
	}
	return order
}
