package negotiation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/negotiation"
	"github.com/edgeup/marketplace/internal/domain/notification"
	"github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/product"
)

// Engine runs the negotiation-to-order lifecycle. Every operation executes in
// a single transaction and returns the events to emit once it committed.
type Engine struct {
	store domain.Store
}

// NewEngine creates a lifecycle engine.
func NewEngine(store domain.Store) *Engine {
	return &Engine{store: store}
}

// ProposeInput is a buyer's offer.
type ProposeInput struct {
	ProductID    uuid.UUID
	BuyerID      uuid.UUID
	OfferedPrice int64
	Quantity     int
}

// Outcome is the committed result of a lifecycle operation.
type Outcome struct {
	Negotiation *domain.Negotiation
	Product     *product.Product
	Order       *order.Order
	Events      []notification.Event
}

// Propose records a PENDING offer and notifies the seller.
func (e *Engine) Propose(ctx context.Context, in ProposeInput) (*Outcome, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be > 0, got %d: %w", in.Quantity, apperror.ErrInvalidQuantity)
	}
	if in.OfferedPrice < 0 {
		return nil, apperror.Invalid("offered price must be >= 0")
	}
	if _, ok := order.Total(in.OfferedPrice, in.Quantity); !ok {
		return nil, apperror.Invalid("offered price %d x quantity %d exceeds the maximum order total", in.OfferedPrice, in.Quantity)
	}

	out := &Outcome{}
	err := e.store.InTx(ctx, func(tx domain.Tx) error {
		p, err := tx.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil || !p.IsAvailable() {
			return fmt.Errorf("product %s: %w", in.ProductID, apperror.ErrNotFound)
		}
		if p.SellerID == in.BuyerID {
			return apperror.ErrSelfDeal
		}
		if in.Quantity > p.Stock {
			return fmt.Errorf("quantity %d exceeds stock %d: %w", in.Quantity, p.Stock, apperror.ErrInvalidQuantity)
		}

		n := domain.New(p.ProductID, in.BuyerID, p.SellerID, in.OfferedPrice, in.Quantity)
		if err := tx.CreateNegotiation(ctx, n); err != nil {
			return err
		}

		out.Negotiation = n
		out.Product = p
		out.Events = append(out.Events, notification.NewEvent(
			notification.KindOfferReceived,
			p.SellerID,
			notification.TypeOrder,
			fmt.Sprintf("New offer for %q: %d x %d", p.Title, n.Quantity, n.OfferedPrice),
			eventPayload(n, nil),
		))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Respond applies the seller's decision to a PENDING negotiation. Accepting
// decrements stock and materializes the order in the same transaction; the
// negotiation ends in ORDERED.
func (e *Engine) Respond(ctx context.Context, negotiationID, actorID uuid.UUID, decision domain.Decision) (*Outcome, error) {
	if decision != domain.DecisionAccept && decision != domain.DecisionReject {
		return nil, apperror.Invalid("decision must be accept or reject")
	}

	out := &Outcome{}
	err := e.store.InTx(ctx, func(tx domain.Tx) error {
		n, err := tx.LockNegotiation(ctx, negotiationID)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("negotiation %s: %w", negotiationID, apperror.ErrNotFound)
		}
		if n.SellerID != actorID {
			return fmt.Errorf("only the seller can respond: %w", apperror.ErrForbidden)
		}
		if n.Status != domain.StatusPending {
			return fmt.Errorf("negotiation is %s: %w", n.Status, apperror.ErrInvalidState)
		}

		if decision == domain.DecisionReject {
			return e.reject(ctx, tx, n, out)
		}
		return e.accept(ctx, tx, n, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) reject(ctx context.Context, tx domain.Tx, n *domain.Negotiation, out *Outcome) error {
	if err := tx.UpdateNegotiationStatus(ctx, n.NegotiationID, domain.StatusPending, domain.StatusRejected); err != nil {
		return err
	}
	n.Status = domain.StatusRejected
	n.UpdatedAt = time.Now().UTC()

	out.Negotiation = n
	out.Events = append(out.Events, notification.NewEvent(
		notification.KindOfferRejected,
		n.BuyerID,
		notification.TypeOrder,
		fmt.Sprintf("Your offer of %d x %d was rejected", n.Quantity, n.OfferedPrice),
		eventPayload(n, nil),
	))
	return nil
}

func (e *Engine) accept(ctx context.Context, tx domain.Tx, n *domain.Negotiation, out *Outcome) error {
	p, err := tx.LockProduct(ctx, n.ProductID)
	if err != nil {
		return err
	}
	if p == nil || !p.IsAvailable() {
		return fmt.Errorf("product %s: %w", n.ProductID, apperror.ErrNotFound)
	}
	if n.Quantity > p.Stock {
		return fmt.Errorf("quantity %d exceeds stock %d: %w", n.Quantity, p.Stock, apperror.ErrOutOfStock)
	}
	if _, ok := order.Total(n.OfferedPrice, n.Quantity); !ok {
		return apperror.Invalid("offered price %d x quantity %d exceeds the maximum order total", n.OfferedPrice, n.Quantity)
	}

	buyer, err := tx.GetUser(ctx, n.BuyerID)
	if err != nil {
		return err
	}
	if buyer == nil {
		return fmt.Errorf("buyer %s: %w", n.BuyerID, apperror.ErrNotFound)
	}

	if err := tx.DecrementStock(ctx, p.ProductID, n.Quantity); err != nil {
		return err
	}
	p.Stock -= n.Quantity

	if err := tx.UpdateNegotiationStatus(ctx, n.NegotiationID, domain.StatusPending, domain.StatusAccepted); err != nil {
		return err
	}

	o := order.New(n.BuyerID, n.SellerID, n.ProductID, n.OfferedPrice, n.Quantity, buyer.ShippingAddress())
	negotiationID := n.NegotiationID
	o.NegotiationID = &negotiationID
	if err := tx.CreateOrder(ctx, o); err != nil {
		return err
	}

	if err := tx.UpdateNegotiationStatus(ctx, n.NegotiationID, domain.StatusAccepted, domain.StatusOrdered); err != nil {
		return err
	}
	n.Status = domain.StatusOrdered
	n.UpdatedAt = time.Now().UTC()

	out.Negotiation = n
	out.Product = p
	out.Order = o
	out.Events = append(out.Events,
		notification.NewEvent(
			notification.KindOfferAccepted,
			n.BuyerID,
			notification.TypeOrder,
			fmt.Sprintf("Your offer for %q was accepted, order created (total %d)", p.Title, o.Price),
			eventPayload(n, o),
		),
		notification.NewEvent(
			notification.KindOrderCreated,
			n.SellerID,
			notification.TypeOrder,
			fmt.Sprintf("Order created for %q: %d x %d", p.Title, o.Quantity, n.OfferedPrice),
			eventPayload(n, o),
		),
	)
	return nil
}

func eventPayload(n *domain.Negotiation, o *order.Order) map[string]interface{} {
	payload := map[string]interface{}{
		"negotiationId": n.NegotiationID,
		"productId":     n.ProductID,
		"buyerId":       n.BuyerID,
		"sellerId":      n.SellerID,
		"offeredPrice":  n.OfferedPrice,
		"quantity":      n.Quantity,
		"status":        n.Status,
	}
	if o != nil {
		payload["orderId"] = o.OrderID
		payload["orderPrice"] = o.Price
	}
	return payload
}
