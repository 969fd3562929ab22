package negotiation

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Store,Tx

import (
	"context"

	"github.com/google/uuid"

	"github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/product"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Filter controls negotiation listing. BuyerID and SellerID are ORed when
// both are set.
type Filter struct {
	BuyerID   *uuid.UUID
	SellerID  *uuid.UUID
	ProductID *uuid.UUID
	Status    *Status
}

// RuleCandidate is a pending negotiation paired with the seller rule and the
// product figures the rule is evaluated against.
type RuleCandidate struct {
	Negotiation *Negotiation
	Rule        string
	ListPrice   int64
	Stock       int
}

// Store owns transaction scoping for the lifecycle engine.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetByID(ctx context.Context, negotiationID uuid.UUID) (*Negotiation, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Negotiation, error)
	// ListRuleCandidates pages by Negotiation.ID, returning rows with ID > afterID.
	ListRuleCandidates(ctx context.Context, afterID int64, limit int) ([]*RuleCandidate, error)
}

// Tx is the unit of work handed to InTx. Lock methods take row locks that
// are held until the transaction ends; callers lock the negotiation before
// the product.
type Tx interface {
	LockNegotiation(ctx context.Context, negotiationID uuid.UUID) (*Negotiation, error)
	LockProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error)
	CreateNegotiation(ctx context.Context, n *Negotiation) error
	UpdateNegotiationStatus(ctx context.Context, negotiationID uuid.UUID, from, to Status) error
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	CreateOrder(ctx context.Context, o *order.Order) error
}
