package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	"github.com/edgeup/marketplace/internal/domain/notification"
	domain "github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service handles direct purchases and order fulfilment.
type Service struct {
	store      domain.Store
	users      user.Repository
	dispatcher notification.Dispatcher
	logger     zerolog.Logger
}

// NewService creates an order service.
func NewService(store domain.Store, users user.Repository, dispatcher notification.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "order").Logger(),
	}
}

// PlaceInput is a non-negotiated purchase at list price.
type PlaceInput struct {
	ProductID       uuid.UUID
	Quantity        int
	ShippingAddress string
}

// Place buys Quantity units at the current list price. Stock is decremented
// in the same transaction that creates the order.
func (s *Service) Place(ctx context.Context, actor user.Actor, in PlaceInput) (*domain.Order, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0, got %d: %w", in.Quantity, apperror.ErrInvalidQuantity)
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		buyer, err := s.users.GetByID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if buyer == nil {
			return nil, fmt.Errorf("buyer %s: %w", actor.UserID, apperror.ErrNotFound)
		}
		address = buyer.ShippingAddress()
	}
	if address == "" {
		return nil, apperror.Invalid("shipping address is required")
	}

	var (
		o      *domain.Order
		events []notification.Event
	)
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		p, err := tx.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsAvailable() {
			return fmt.Errorf("product %s: %w", in.ProductID, apperror.ErrNotFound)
		}
		if p.SellerID == actor.UserID {
			return apperror.ErrSelfDeal
		}
		if in.Quantity > p.Stock {
			return fmt.Errorf("quantity %d exceeds stock %d: %w", in.Quantity, p.Stock, apperror.ErrOutOfStock)
		}
		if _, ok := domain.Total(p.Price, in.Quantity); !ok {
			return apperror.Invalid("list price %d x quantity %d exceeds the maximum order total", p.Price, in.Quantity)
		}
		if err := tx.DecrementStock(ctx, p.ProductID, in.Quantity); err != nil {
			return err
		}
		o = domain.New(actor.UserID, p.SellerID, p.ProductID, p.Price, in.Quantity, address)
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		events = append(events, notification.NewEvent(
			notification.KindOrderCreated,
			p.SellerID,
			notification.TypeOrder,
			fmt.Sprintf("New order for %q: %d x %d", p.Title, o.Quantity, p.Price),
			orderPayload(o),
		))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events)
	s.logger.Info().
		Str("order_id", o.OrderID.String()).
		Str("product_id", o.ProductID.String()).
		Int("quantity", o.Quantity).
		Int64("price", o.Price).
		Msg("order placed")
	return o, nil
}

// UpdateStatus moves an order along its lifecycle. The buyer pays or
// cancels; the seller ships, delivers or cancels; admins may do anything
// the state machine allows. Cancelling returns the units to stock.
func (s *Service) UpdateStatus(ctx context.Context, actor user.Actor, orderID uuid.UUID, to domain.Status) (*domain.Order, error) {
	var (
		o      *domain.Order
		events []notification.Event
	)
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		o, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("order %s: %w", orderID, apperror.ErrNotFound)
		}
		if !mayMove(actor, o, to) {
			return fmt.Errorf("cannot set order to %s: %w", to, apperror.ErrForbidden)
		}
		if !domain.CanTransition(o.Status, to) {
			return fmt.Errorf("order is %s, cannot move to %s: %w", o.Status, to, apperror.ErrInvalidState)
		}
		if err := tx.UpdateOrderStatus(ctx, o.OrderID, o.Status, to); err != nil {
			return err
		}
		if to == domain.StatusCancelled {
			if err := tx.IncrementStock(ctx, o.ProductID, o.Quantity); err != nil {
				return err
			}
		}
		o.Status = to

		recipient := o.SellerID
		if actor.UserID == o.SellerID {
			recipient = o.BuyerID
		}
		typ := notification.TypeOrder
		if to == domain.StatusPaid {
			typ = notification.TypePayment
		}
		events = append(events, notification.NewEvent(
			notification.KindOrderStatus,
			recipient,
			typ,
			fmt.Sprintf("Order %s is now %s", shortID(o.OrderID), to),
			orderPayload(o),
		))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events)
	s.logger.Info().Str("order_id", orderID.String()).Str("status", string(to)).Msg("order status changed")
	return o, nil
}

// Get returns an order visible to the actor.
func (s *Service) Get(ctx context.Context, actor user.Actor, orderID uuid.UUID) (*domain.Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperror.ErrNotFound)
	}
	if o.BuyerID != actor.UserID && o.SellerID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("order %s: %w", orderID, apperror.ErrForbidden)
	}
	return o, nil
}

// List returns the actor's purchases ("buyer") or sales ("seller").
func (s *Service) List(ctx context.Context, actor user.Actor, as string, status *domain.Status, limit, offset int) ([]*domain.Order, error) {
	filter := domain.Filter{Status: status}
	id := actor.UserID
	switch as {
	case "", "buyer":
		filter.BuyerID = &id
	case "seller":
		filter.SellerID = &id
	default:
		return nil, apperror.Invalid("as must be buyer or seller")
	}
	return s.store.List(ctx, filter, limit, offset)
}

func mayMove(actor user.Actor, o *domain.Order, to domain.Status) bool {
	if actor.IsAdmin() {
		return true
	}
	switch to {
	case domain.StatusPaid:
		return actor.UserID == o.BuyerID
	case domain.StatusShipped, domain.StatusDelivered:
		return actor.UserID == o.SellerID
	case domain.StatusCancelled:
		return actor.UserID == o.BuyerID || actor.UserID == o.SellerID
	default:
		return false
	}
}

func orderPayload(o *domain.Order) map[string]interface{} {
	payload := map[string]interface{}{
		"orderId":   o.OrderID,
		"productId": o.ProductID,
		"buyerId":   o.BuyerID,
		"sellerId":  o.SellerID,
		"price":     o.Price,
		"quantity":  o.Quantity,
		"status":    o.Status,
	}
	if o.NegotiationID != nil {
		payload["negotiationId"] = *o.NegotiationID
	}
	return payload
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
