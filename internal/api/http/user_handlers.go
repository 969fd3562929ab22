package httpapi

import (
	"net/http"

	domainApproval "github.com/edgeup/marketplace/internal/domain/approval"
	domainUser "github.com/edgeup/marketplace/internal/domain/user"
)

type trustedRequestCreate struct {
	Pitch string `json:"pitch"`
}

type trustedRequestReview struct {
	Decision string `json:"decision"`
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

func (s *Server) submitTrustedRequest(w http.ResponseWriter, r *http.Request) {
	var req trustedRequestCreate
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	tr, err := s.approvalSvc.Submit(r.Context(), actorFromContext(r.Context()), req.Pitch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tr)
}

func (s *Server) listTrustedRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	filter := domainApproval.Filter{}
	if v := queryString(r, "status"); v != nil {
		st := domainApproval.Status(*v)
		filter.Status = &st
	}
	items, err := s.approvalSvc.List(r.Context(), actorFromContext(r.Context()), filter, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) reviewTrustedRequest(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "requestId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid requestId")
		return
	}
	var req trustedRequestReview
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	decision, err := domainApproval.ParseDecision(req.Decision)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	tr, err := s.approvalSvc.Review(r.Context(), actorFromContext(r.Context()), id, decision)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tr)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 50, 200)
	filter := domainUser.Filter{
		Country: queryString(r, "country"),
		City:    queryString(r, "city"),
	}
	if v := queryString(r, "role"); v != nil {
		role, err := domainUser.ParseRole(*v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
			return
		}
		filter.Role = &role
	}
	items, err := s.userSvc.ListUsers(r.Context(), filter, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid userId")
		return
	}
	u, err := s.userSvc.GetUser(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) setUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid userId")
		return
	}
	var req roleUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	role, err := domainUser.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.userSvc.SetRole(r.Context(), actorFromContext(r.Context()), id, role)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
