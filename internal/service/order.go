package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const publishTimeout = 5 * time.Second

type OrderService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher

	metrics orderMetrics
}

func NewOrderService(r *repo.GormRepo, p events.Publisher) *OrderService {
	if p == nil {
		p = events.Nop{}
	}
	return &OrderService{Repo: r, Publisher: p, metrics: newOrderMetrics()}
}

type orderEvent struct {
	OrderID uint            `json:"order_id"`
	UserID  uint            `json:"user_id"`
	Status  string          `json:"status"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items,omitempty"`
}

// ResolveBuyer decides whose order a request creates. An empty user_id means
// the caller; only admins may order on behalf of someone else.
func ResolveBuyer(requested, callerID uint, isAdmin bool) (uint, error) {
	if requested == 0 || requested == callerID {
		return callerID, nil
	}
	if !isAdmin {
		return 0, fmt.Errorf("%w: cannot create orders for another user", domain.ErrForbidden)
	}
	return requested, nil
}

// CreateOrder validates the line items, computes the total and writes header
// and items in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest, buyerID uint) (*models.Order, error) {
	if buyerID == 0 {
		return nil, fmt.Errorf("%w: user_id required", domain.ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for i := range req.Items {
		it := req.Items[i]
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", domain.ErrValidation)
		}
		if it.Quantity <= 0 || it.Quantity > maxQuantity {
			return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrValidation, maxQuantity)
		}
		if it.Price == nil {
			return nil, fmt.Errorf("%w: price required", domain.ErrValidation)
		}
		if err := checkAmount("price", *it.Price); err != nil {
			return nil, err
		}

		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     *it.Price,
		})
	}

	order := &models.Order{
		UserID: buyerID,
		Status: models.OrderStatusPending,
		Total:  models.SumItems(items),
		Items:  items,
	}
	if err := checkAmount("total", order.Total); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: create order: %w", domain.ErrPersistence, err)
	}

	s.metrics.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "direct")))
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// Checkout turns the caller's cart into a pending order priced at the
// products' current prices. The cart is read and emptied in the same
// transaction that writes the order.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	order, err := s.Repo.CreateOrderFromCart(ctx, userID, func(lines []repo.CartLine) (*models.Order, error) {
		if len(lines) == 0 {
			return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
		}
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
		}
		total := models.SumItems(items)
		if err := checkAmount("total", total); err != nil {
			return nil, err
		}
		return &models.Order{
			UserID: userID,
			Status: models.OrderStatusPending,
			Total:  total,
			Items:  items,
		}, nil
	})
	if errors.Is(err, domain.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: checkout: %w", domain.ErrPersistence, err)
	}

	s.metrics.created.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "cart")))
	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// GetOrder hides orders of other users behind ErrNotFound unless the caller is admin.
func (s *OrderService) GetOrder(ctx context.Context, id, callerID uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	if !isAdmin && order.UserID != callerID {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	total, orders, err := s.Repo.ListOrders(ctx, repo.OrderFilter{UserID: &userID}, offset, limit)
	if err != nil {
		return 0, nil, repoErr(err)
	}
	return total, orders, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return 0, nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	total, orders, err := s.Repo.ListOrders(ctx, repo.OrderFilter{Status: status}, offset, limit)
	if err != nil {
		return 0, nil, repoErr(err)
	}
	return total, orders, nil
}

// UpdateStatus writes any known status without a transition guard. Moving
// into completed consumes stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	order, err := s.Repo.SetOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.stockRejects.Add(ctx, 1)
		}
		return nil, repoErr(err)
	}

	s.metrics.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	s.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return repoErr(err)
	}
	s.publish(ctx, events.OrderDeleted, &models.Order{ID: id})
	return nil
}

// publish never fails the caller: the order is already committed.
func (s *OrderService) publish(ctx context.Context, eventType string, o *models.Order) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := events.New(eventType, orderEvent{
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status,
		Total:   o.Total,
		Items:   len(o.Items),
	})
	key := strconv.FormatUint(uint64(o.ID), 10)
	if err := s.Publisher.PublishEvent(pctx, events.TopicOrders, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error",
			"topic", events.TopicOrders, "type", eventType, "order_id", o.ID, "error", err)
	}
}
