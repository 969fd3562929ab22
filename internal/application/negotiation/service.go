package negotiation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domain "github.com/edgeup/marketplace/internal/domain/negotiation"
	"github.com/edgeup/marketplace/internal/domain/notification"
	"github.com/edgeup/marketplace/internal/domain/order"
	"github.com/edgeup/marketplace/internal/domain/product"
	"github.com/edgeup/marketplace/internal/domain/user"
)

// Service exposes the negotiation lifecycle to the API and background loops.
type Service struct {
	engine     *Engine
	store      domain.Store
	dispatcher notification.Dispatcher
	logger     zerolog.Logger
}

// NewService creates a negotiation service.
func NewService(store domain.Store, dispatcher notification.Dispatcher, logger zerolog.Logger) *Service {
	return &Service{
		engine:     NewEngine(store),
		store:      store,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "negotiation").Logger(),
	}
}

// RespondResult is returned by Respond; Order is set when the offer was accepted.
type RespondResult struct {
	Negotiation *domain.Negotiation `json:"negotiation"`
	Order       *order.Order        `json:"order,omitempty"`
}

// ListInput selects which side of the negotiations the actor sees.
type ListInput struct {
	// As is "buying", "selling" or empty for both.
	As        string
	Status    *domain.Status
	ProductID *uuid.UUID
}

// Propose records a buyer's offer. If the product carries an auto-reject rule
// that matches, the offer is rejected on the seller's behalf right away.
func (s *Service) Propose(ctx context.Context, actor user.Actor, in ProposeInput) (*domain.Negotiation, error) {
	in.BuyerID = actor.UserID
	out, err := s.engine.Propose(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, out.Events)
	s.logger.Info().
		Str("negotiation_id", out.Negotiation.NegotiationID.String()).
		Str("product_id", out.Negotiation.ProductID.String()).
		Int64("offered_price", out.Negotiation.OfferedPrice).
		Int("quantity", out.Negotiation.Quantity).
		Msg("offer proposed")

	if out.Product != nil && out.Product.HasRule() {
		if rejected := s.applyRule(ctx, *out.Product.AutoRejectRule, out.Negotiation, out.Product.Price, out.Product.Stock); rejected != nil {
			return rejected, nil
		}
	}
	return out.Negotiation, nil
}

// Respond applies the seller's decision.
func (s *Service) Respond(ctx context.Context, actor user.Actor, negotiationID uuid.UUID, decision domain.Decision) (*RespondResult, error) {
	out, err := s.engine.Respond(ctx, negotiationID, actor.UserID, decision)
	if err != nil {
		if apperror.IsDomain(err) {
			s.logger.Debug().Err(err).Str("negotiation_id", negotiationID.String()).Msg("respond refused")
		} else {
			s.logger.Error().Err(err).Str("negotiation_id", negotiationID.String()).Msg("respond failed")
		}
		return nil, err
	}
	s.dispatcher.Dispatch(ctx, out.Events)

	evt := s.logger.Info().
		Str("negotiation_id", negotiationID.String()).
		Str("decision", string(decision)).
		Str("status", string(out.Negotiation.Status))
	if out.Order != nil {
		evt = evt.Str("order_id", out.Order.OrderID.String()).Int64("order_price", out.Order.Price)
	}
	evt.Msg("offer answered")

	return &RespondResult{Negotiation: out.Negotiation, Order: out.Order}, nil
}

// Get returns a negotiation visible to the actor.
func (s *Service) Get(ctx context.Context, actor user.Actor, negotiationID uuid.UUID) (*domain.Negotiation, error) {
	n, err := s.store.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("negotiation %s: %w", negotiationID, apperror.ErrNotFound)
	}
	if !n.IsParticipant(actor.UserID) && !actor.IsAdmin() {
		return nil, fmt.Errorf("negotiation %s: %w", negotiationID, apperror.ErrForbidden)
	}
	return n, nil
}

// List returns the actor's negotiations.
func (s *Service) List(ctx context.Context, actor user.Actor, in ListInput, limit, offset int) ([]*domain.Negotiation, error) {
	filter := domain.Filter{Status: in.Status, ProductID: in.ProductID}
	id := actor.UserID
	switch in.As {
	case "buying":
		filter.BuyerID = &id
	case "selling":
		filter.SellerID = &id
	case "":
		filter.BuyerID = &id
		filter.SellerID = &id
	default:
		return nil, apperror.Invalid("as must be buying or selling")
	}
	return s.store.List(ctx, filter, limit, offset)
}

// AutoRespond walks pending negotiations on products with auto-reject rules
// and rejects the matching ones as their seller. It returns how many offers
// were rejected.
func (s *Service) AutoRespond(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	rejected := 0
	var afterID int64
	for {
		candidates, err := s.store.ListRuleCandidates(ctx, afterID, batchSize)
		if err != nil {
			return rejected, err
		}
		for _, c := range candidates {
			afterID = c.Negotiation.ID
			if s.applyRule(ctx, c.Rule, c.Negotiation, c.ListPrice, c.Stock) != nil {
				rejected++
			}
		}
		if len(candidates) < batchSize {
			break
		}
	}
	if rejected > 0 {
		s.logger.Info().Int("rejected", rejected).Msg("auto-respond sweep")
	}
	return rejected, nil
}

// applyRule returns the rejected negotiation when the rule matched and the
// rejection went through, nil otherwise.
func (s *Service) applyRule(ctx context.Context, rule string, n *domain.Negotiation, listPrice int64, stock int) *domain.Negotiation {
	log := s.logger.With().Str("negotiation_id", n.NegotiationID.String()).Logger()
	match, err := product.EvaluateRule(rule, product.RuleInput{
		OfferedPrice: n.OfferedPrice,
		Quantity:     n.Quantity,
		ListPrice:    listPrice,
		Stock:        stock,
	})
	if err != nil {
		log.Warn().Err(err).Str("rule", rule).Msg("auto-reject rule evaluation failed")
		return nil
	}
	if !match {
		return nil
	}
	out, err := s.engine.Respond(ctx, n.NegotiationID, n.SellerID, domain.DecisionReject)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidState) {
			log.Debug().Msg("negotiation already answered")
		} else {
			log.Warn().Err(err).Msg("auto-reject failed")
		}
		return nil
	}
	s.dispatcher.Dispatch(ctx, out.Events)
	log.Info().Str("rule", rule).Msg("offer auto-rejected")
	return out.Negotiation
}
