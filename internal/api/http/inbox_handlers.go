package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type startConversationRequest struct {
	SellerID uuid.UUID `json:"sellerId"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// Notification handlers
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 50, 200)
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	actor := actorFromContext(r.Context())
	items, err := s.notificationSvc.ListNotifications(r.Context(), actor.UserID, unreadOnly, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	count, err := s.notificationSvc.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "notificationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid notificationId")
		return
	}
	n, err := s.notificationSvc.MarkRead(r.Context(), actorFromContext(r.Context()).UserID, id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, n)
}

func (s *Server) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	count, err := s.notificationSvc.MarkAllRead(r.Context(), actorFromContext(r.Context()).UserID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": count})
}

// Conversation handlers
func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	items, err := s.chatSvc.ListConversations(r.Context(), actorFromContext(r.Context()), limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) startConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	c, err := s.chatSvc.StartConversation(r.Context(), actorFromContext(r.Context()), req.SellerID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "conversationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid conversationId")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	items, err := s.chatSvc.ListMessages(r.Context(), actorFromContext(r.Context()), id, limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "conversationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid conversationId")
		return
	}
	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	m, err := s.chatSvc.Send(r.Context(), actorFromContext(r.Context()), id, req.Body)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) markConversationRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "conversationId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid conversationId")
		return
	}
	count, err := s.chatSvc.MarkRead(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": count})
}

// Favorite handlers
func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 100)
	items, err := s.favoriteSvc.List(r.Context(), actorFromContext(r.Context()), limit, offset)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	f, err := s.favoriteSvc.Add(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid productId")
		return
	}
	if err := s.favoriteSvc.Remove(r.Context(), actorFromContext(r.Context()), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
