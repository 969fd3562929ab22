package approval

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents a trusted-seller request status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decision represents an admin decision.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Request is an Untrusted user's application to become a Trusted seller.
type Request struct {
	ID          int64      `json:"id"`
	RequestID   uuid.UUID  `json:"requestId"`
	UserID      uuid.UUID  `json:"userId"`
	Pitch       string     `json:"pitch"`
	Status      Status     `json:"status"`
	ReviewedBy  *uuid.UUID `json:"reviewedBy,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// Decide moves a pending request to its final status.
func (r *Request) Decide(decision Decision, reviewer uuid.UUID, at time.Time) error {
	if !r.IsPending() {
		return errors.New("request already decided")
	}
	switch decision {
	case DecisionApprove:
		r.Status = StatusApproved
	case DecisionReject:
		r.Status = StatusRejected
	default:
		return errors.New("invalid decision")
	}
	r.ReviewedBy = &reviewer
	r.DecidedAt = &at
	return nil
}

func ValidatePitch(pitch string) error {
	pitch = strings.TrimSpace(pitch)
	if len(pitch) < 10 {
		return errors.New("pitch must be at least 10 characters")
	}
	if len(pitch) > 2000 {
		return errors.New("pitch must be at most 2000 characters")
	}
	return nil
}

func ParseDecision(value string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(value))) {
	case DecisionApprove:
		return DecisionApprove, nil
	case DecisionReject:
		return DecisionReject, nil
	default:
		return "", errors.New("decision must be approve or reject")
	}
}
