package httpapi

import (
	"net"
	"net/http"
	"time"

	appAuth "github.com/edgeup/marketplace/internal/application/auth"
	appUser "github.com/edgeup/marketplace/internal/application/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         interface{} `json:"user"`
	SessionID    string      `json:"sessionId"`
	ExpiresAt    string      `json:"expiresAt"`
	SessionToken string      `json:"sessionToken"`
}

type profileRequest struct {
	Name      *string `json:"name,omitempty"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (req registerRequest) input() appAuth.RegisterInput {
	return appAuth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Country:  req.Country,
		City:     req.City,
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.authSvc.Register(r.Context(), req.input())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) bootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	u, err := s.authSvc.BootstrapAdmin(r.Context(), req.input())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	userAgent := r.UserAgent()
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	res, err := s.authSvc.Login(r.Context(), req.Email, req.Password, &userAgent, &ip)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     s.sessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.sessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	respondJSON(w, http.StatusOK, loginResponse{
		User:         res.User,
		SessionID:    res.Session.SessionID.String(),
		ExpiresAt:    res.Session.ExpiresAt.Format(time.RFC3339),
		SessionToken: res.Token,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r, s.sessionCookieName)
	if err := s.authSvc.Logout(r.Context(), token); err != nil {
		s.logger.Warn().Err(err).Msg("logout failed")
	}

	cookie := &http.Cookie{
		Name:     s.sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.sessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
	http.SetCookie(w, cookie)
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	user, err := s.userSvc.GetUser(r.Context(), u.UserID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	u := authUserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth")
		return
	}
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	user, err := s.userSvc.UpdateProfile(r.Context(), u.UserID, appUser.UpdateProfileInput{
		Name:      req.Name,
		Country:   req.Country,
		City:      req.City,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
