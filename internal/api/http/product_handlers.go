package httpapi

import (
	"net/http"
	"strings"

	appProduct "github.com/edgeup/marketplace/internal/application/product"
	"github.com/edgeup/marketplace/internal/domain/product"
)

type productCreateRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	Price          int64   `json:"price"`
	Stock          int     `json:"stock"`
	AutoRejectRule *string `json:"autoRejectRule,omitempty"`
}

type productUpdateRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Category       *string `json:"category,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	Price          *int64  `json:"price,omitempty"`
	Stock          *int    `json:"stock,omitempty"`
	AutoRejectRule *string `json:"autoRejectRule,omitempty"`
}

type reviewCreateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	p, err := s.productSvc.Create(r.Context(), actorFromContext(r.Context()), appProduct.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       product.Category(req.Category),
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		Stock:          req.Stock,
		AutoRejectRule: req.AutoRejectRule,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	filter := product.Filter{Search: queryString(r, "q")}
	if v := queryString(r, "category"); v != nil {
		c := product.Category(*v)
		filter.Category = &c
	}
	if v := queryString(r, "status"); v != nil {
		st := product.Status(strings.ToUpper(*v))
		filter.Status = &st
	}
	var err error
	if filter.SellerID, err = parseOptionalUUID(queryString(r, "sellerId")); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid sellerId")
		return
	}
	if filter.MinPrice, err = queryInt64(r, "minPrice"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid minPrice")
		return
	}
	if filter.MaxPrice, err = queryInt64(r, "maxPrice"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid maxPrice")
		return
	}
	items, err := s.productSvc.List(r.Context(), actorFromContext(r.Context()), filter, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	p, err := s.productSvc.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	var req productUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	in := appProduct.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		Stock:          req.Stock,
		AutoRejectRule: req.AutoRejectRule,
	}
	if req.Category != nil {
		c := product.Category(*req.Category)
		in.Category = &c
	}
	p, err := s.productSvc.Update(r.Context(), actorFromContext(r.Context()), id, in)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) archiveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	p, err := s.productSvc.Archive(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	limit, offset := parseLimitOffset(r, 20, 100)
	items, err := s.reviewSvc.ListForProduct(r.Context(), id, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	var req reviewCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	rev, err := s.reviewSvc.Create(r.Context(), actorFromContext(r.Context()), id, req.Rating, req.Comment)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}
