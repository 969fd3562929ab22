package order

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status represents order fulfilment status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Order is a purchase commitment. Price is the total (unit price times
// quantity) captured at creation and never recomputed.
type Order struct {
	ID              int64      `json:"id"`
	OrderID         uuid.UUID  `json:"orderId"`
	BuyerID         uuid.UUID  `json:"buyerId"`
	SellerID        uuid.UUID  `json:"sellerId"`
	ProductID       uuid.UUID  `json:"productId"`
	Price           int64      `json:"price"`
	Quantity        int        `json:"quantity"`
	Status          Status     `json:"status"`
	ShippingAddress string     `json:"shippingAddress"`
	NegotiationID   *uuid.UUID `json:"negotiationId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// New builds a pending order for qty units at unitPrice.
func New(buyerID, sellerID, productID uuid.UUID, unitPrice int64, qty int, shippingAddress string) *Order {
	now := time.Now().UTC()
	return &Order{
		OrderID:         uuid.New(),
		BuyerID:         buyerID,
		SellerID:        sellerID,
		ProductID:       productID,
		Price:           unitPrice * int64(qty),
		Quantity:        qty,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Total returns unitPrice times qty. ok is false when the result does not
// fit in an int64.
func Total(unitPrice int64, qty int) (total int64, ok bool) {
	if unitPrice < 0 || qty < 0 {
		return 0, false
	}
	if qty > 0 && unitPrice > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return unitPrice * int64(qty), true
}

// CanTransition reports whether from -> to is a legal order move.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (o *Order) IsTerminal() bool {
	return len(transitions[o.Status]) == 0
}

// UnitPrice derives the per-unit price from the snapshotted total.
func (o *Order) UnitPrice() int64 {
	if o.Quantity == 0 {
		return 0
	}
	return o.Price / int64(o.Quantity)
}

func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if _, ok := transitions[s]; !ok {
		return "", errors.New("invalid order status")
	}
	return s, nil
}
