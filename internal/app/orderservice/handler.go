package orderservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"tableside/internal/domain/menu"
	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/domain/users"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
)

// HTTPHandler adapts HTTP requests to the order, menu, and notification
// services. It is also the remote half of the consoles' dual-path order
// actions.
type HTTPHandler struct {
	orders ports.OrderService
	menu   ports.MenuService
	notifs ports.NotificationService
	users  ports.UserService
	logger *logger.Logger
}

// NewHTTPHandler wires the API handler.
func NewHTTPHandler(orderSvc ports.OrderService, menuSvc ports.MenuService, notifSvc ports.NotificationService, userSvc ports.UserService, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{orders: orderSvc, menu: menuSvc, notifs: notifSvc, users: userSvc, logger: log}
}

// Router builds the chi router for the API.
func (handler *HTTPHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(handler.requestID)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", handler.placeOrder)
		r.Get("/orders", handler.listOrders)
		r.Get("/orders/{orderID}", handler.getOrder)
		r.Patch("/orders/{orderID}/status", handler.updateStatus)
		r.Get("/customers/{customerID}/orders", handler.listCustomerOrders)

		r.Get("/menu", handler.listMenu)
		r.Post("/menu", handler.createMenuItem)
		r.Get("/menu/{itemID}", handler.getMenuItem)
		r.Put("/menu/{itemID}", handler.updateMenuItem)
		r.Delete("/menu/{itemID}", handler.deleteMenuItem)

		r.Post("/users", handler.registerUser)
		r.Get("/users", handler.listUsers)
		r.Get("/users/{userID}", handler.getUser)
		r.Patch("/users/{userID}/role", handler.updateUserRole)

		r.Post("/users/{userID}/notifications", handler.createNotification)
		r.Get("/users/{userID}/notifications", handler.listNotifications)
		r.Post("/users/{userID}/notifications/read", handler.markNotificationsRead)
		r.Delete("/notifications/{notificationID}", handler.deleteNotification)
	})

	return r
}

// requestID stamps every request with an id the logger picks up.
func (handler *HTTPHandler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx := handler.logger.WithRequestID(r.Context(), rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- Request/Response DTOs (HTTP boundary) ---

type placeOrderRequest struct {
	CustomerID   string                  `json:"customerId"`
	CustomerName string                  `json:"customerName"`
	Items        []placeOrderItemRequest `json:"items"`
}

type placeOrderItemRequest struct {
	MenuItemID     string  `json:"menuItemId"`
	Quantity       int     `json:"quantity"`
	SpecialRequest *string `json:"specialRequest,omitempty"`
}

type updateStatusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changedBy,omitempty"`
}

type menuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

type menuItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

type notificationRequest struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	OrderID   string `json:"orderId"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// --- Order handlers ---

func (handler *HTTPHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	cmd := ports.PlaceOrderCommand{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
	}
	for _, it := range req.Items {
		cmd.Items = append(cmd.Items, ports.OrderItemInput{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
		})
	}

	order, err := handler.orders.PlaceOrder(r.Context(), cmd)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusCreated, contracts.FromOrder(order))
}

func (handler *HTTPHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := handler.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, contracts.FromOrder(order))
}

func (handler *HTTPHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	status, ok := orders.ParseStatus(strings.ToUpper(r.URL.Query().Get("status")))
	if !ok {
		handler.writeErr(w, http.StatusBadRequest, "unknown or missing status query parameter")
		return
	}

	list, err := handler.orders.ListByStatus(r.Context(), status)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toOrderEvents(list))
}

func (handler *HTTPHandler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	list, err := handler.orders.ListCustomerOrders(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toOrderEvents(list))
}

func (handler *HTTPHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	status, ok := orders.ParseStatus(strings.ToUpper(req.Status))
	if !ok {
		handler.writeErr(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}

	order, err := handler.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), status, req.ChangedBy)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, contracts.FromOrder(order))
}

// --- Menu handlers ---

func (handler *HTTPHandler) listMenu(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"
	items, err := handler.menu.ListItems(r.Context(), onlyAvailable)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}

	out := make([]menuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toMenuItemResponse(&items[i]))
	}
	handler.writeJSON(w, http.StatusOK, out)
}

func (handler *HTTPHandler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	item := toMenuItem(req)
	if err := handler.menu.CreateItem(r.Context(), item); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

func (handler *HTTPHandler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := handler.menu.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (handler *HTTPHandler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	item := toMenuItem(req)
	item.ID = chi.URLParam(r, "itemID")
	if err := handler.menu.UpdateItem(r.Context(), item); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (handler *HTTPHandler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := handler.menu.DeleteItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- User handlers ---

func (handler *HTTPHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	u := &users.User{Name: req.Name, Email: req.Email, Role: users.Role(req.Role)}
	if err := handler.users.Register(r.Context(), u); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (handler *HTTPHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := handler.users.ListUsers(r.Context())
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	handler.writeJSON(w, http.StatusOK, out)
}

func (handler *HTTPHandler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := handler.users.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (handler *HTTPHandler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	role, ok := users.ParseRole(strings.ToUpper(req.Role))
	if !ok {
		handler.writeErr(w, http.StatusBadRequest, "unknown role "+req.Role)
		return
	}

	u, err := handler.users.UpdateRole(r.Context(), chi.URLParam(r, "userID"), role)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusOK, toUserResponse(u))
}

// --- Notification handlers ---

func (handler *HTTPHandler) createNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if !handler.decodeJSON(w, r, &req) {
		return
	}

	n, err := handler.notifs.Notify(r.Context(), chi.URLParam(r, "userID"), req.OrderID, req.Message)
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}
	handler.writeJSON(w, http.StatusCreated, toNotificationResponse(n))
}

func (handler *HTTPHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := handler.notifs.ListForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handler.serviceError(r, w, err)
		return
	}

	out := make([]notificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	handler.writeJSON(w, http.StatusOK, out)
}

func (handler *HTTPHandler) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := handler.notifs.MarkAllRead(r.Context(), chi.URLParam(r, "userID")); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *HTTPHandler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := handler.notifs.Delete(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		handler.serviceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func (handler *HTTPHandler) decodeJSON(w http.ResponseWriter, r *http.Request, into any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		handler.writeErr(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		handler.writeErr(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// serviceError maps service failures onto HTTP statuses, keeping DB detail
// out of responses.
func (handler *HTTPHandler) serviceError(r *http.Request, w http.ResponseWriter, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, menu.ErrNotFound),
		errors.Is(err, notifications.ErrNotFound), errors.Is(err, users.ErrNotFound):
		handler.writeErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, orders.ErrStatusConflict), errors.Is(err, ErrInvalidTransition):
		handler.writeErr(w, http.StatusConflict, err.Error())
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.logger.Error(ctx, "http_db_error", "database error serving request", err)
			handler.writeErr(w, http.StatusInternalServerError, "database error")
			return
		}
		handler.logger.Debug(ctx, "http_bad_request", "request rejected", map[string]any{"reason": err.Error()})
		handler.writeErr(w, http.StatusBadRequest, err.Error())
	}
}

func (handler *HTTPHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (handler *HTTPHandler) writeErr(w http.ResponseWriter, status int, msg string) {
	handler.writeJSON(w, status, map[string]string{"error": msg})
}

func toOrderEvents(list []orders.Order) []contracts.OrderEvent {
	out := make([]contracts.OrderEvent, 0, len(list))
	for i := range list {
		out = append(out, contracts.FromOrder(&list[i]))
	}
	return out
}

func toMenuItem(req menuItemRequest) *menu.Item {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &menu.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       orders.NewMoneyFromFloat2(req.Price),
		ImageURL:    req.ImageURL,
		IsAvailable: available,
	}
}

func toMenuItemResponse(item *menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.ToFloat2(),
		ImageURL:    item.ImageURL,
		IsAvailable: item.IsAvailable,
	}
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toNotificationResponse(n *notifications.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		OrderID:   n.OrderID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
