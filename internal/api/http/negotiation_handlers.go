package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appNegotiation "github.com/edgeup/marketplace/internal/application/negotiation"
	appOrder "github.com/edgeup/marketplace/internal/application/order"
	"github.com/edgeup/marketplace/internal/domain/negotiation"
	"github.com/edgeup/marketplace/internal/domain/order"
)

type proposeRequest struct {
	ProductID    uuid.UUID `json:"productId"`
	OfferedPrice int64     `json:"offeredPrice"`
	Quantity     int       `json:"quantity"`
}

type respondRequest struct {
	Decision string `json:"decision"`
}

type placeOrderRequest struct {
	ProductID       uuid.UUID `json:"productId"`
	Quantity        int       `json:"quantity"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) proposeNegotiation(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	n, err := s.negotiationSvc.Propose(r.Context(), actorFromContext(r.Context()), appNegotiation.ProposeInput{
		ProductID:    req.ProductID,
		OfferedPrice: req.OfferedPrice,
		Quantity:     req.Quantity,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

func (s *Server) listNegotiations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	in := appNegotiation.ListInput{}
	if v := queryString(r, "as"); v != nil {
		in.As = *v
	}
	if v := queryString(r, "status"); v != nil {
		st, err := negotiation.ParseStatus(*v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		in.Status = &st
	}
	var err error
	if in.ProductID, err = parseOptionalUUID(queryString(r, "productId")); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	items, err := s.negotiationSvc.List(r.Context(), actorFromContext(r.Context()), in, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "negotiationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid negotiationId")
		return
	}
	n, err := s.negotiationSvc.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (s *Server) respondNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "negotiationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid negotiationId")
		return
	}
	var req respondRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	decision, err := negotiation.ParseDecision(req.Decision)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	res, err := s.negotiationSvc.Respond(r.Context(), actorFromContext(r.Context()), id, decision)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	o, err := s.orderSvc.Place(r.Context(), actorFromContext(r.Context()), appOrder.PlaceInput{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	as := ""
	if v := queryString(r, "as"); v != nil {
		as = *v
	}
	var status *order.Status
	if v := queryString(r, "status"); v != nil {
		st, err := order.ParseStatus(*v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		status = &st
	}
	items, err := s.orderSvc.List(r.Context(), actorFromContext(r.Context()), as, status, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "orderId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid orderId")
		return
	}
	o, err := s.orderSvc.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "orderId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid orderId")
		return
	}
	var req orderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	to, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	o, err := s.orderSvc.UpdateStatus(r.Context(), actorFromContext(r.Context()), id, to)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
