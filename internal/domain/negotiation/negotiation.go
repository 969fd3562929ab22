package negotiation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents negotiation status.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusOrdered  Status = "ORDERED"
)

// Decision is the seller's answer to an offer.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusOrdered},
	StatusRejected: {},
	StatusOrdered:  {},
}

// Negotiation is a buyer's per-unit price offer for a quantity of a product.
// SellerID is copied from the product when the offer is made.
type Negotiation struct {
	ID            int64     `json:"id"`
	NegotiationID uuid.UUID `json:"negotiationId"`
	ProductID     uuid.UUID `json:"productId"`
	BuyerID       uuid.UUID `json:"buyerId"`
	SellerID      uuid.UUID `json:"sellerId"`
	OfferedPrice  int64     `json:"offeredPrice"`
	Quantity      int       `json:"quantity"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// New builds a pending negotiation.
func New(productID, buyerID, sellerID uuid.UUID, offeredPrice int64, qty int) *Negotiation {
	now := time.Now().UTC()
	return &Negotiation{
		NegotiationID: uuid.New(),
		ProductID:     productID,
		BuyerID:       buyerID,
		SellerID:      sellerID,
		OfferedPrice:  offeredPrice,
		Quantity:      qty,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanTransition reports whether from -> to is a legal negotiation move.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (n *Negotiation) IsTerminal() bool {
	return len(transitions[n.Status]) == 0
}

// Total is the order price the offer materializes into.
func (n *Negotiation) Total() int64 {
	return n.OfferedPrice * int64(n.Quantity)
}

// IsParticipant reports whether userID is the buyer or the seller.
func (n *Negotiation) IsParticipant(userID uuid.UUID) bool {
	return n.BuyerID == userID || n.SellerID == userID
}

func ParseDecision(value string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(value))) {
	case DecisionAccept:
		return DecisionAccept, nil
	case DecisionReject:
		return DecisionReject, nil
	default:
		return "", errors.New("decision must be accept or reject")
	}
}

func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := transitions[s]; !ok {
		return "", errors.New("invalid negotiation status")
	}
	return s, nil
}
