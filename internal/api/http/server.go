package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appApproval "github.com/edgeup/marketplace/internal/application/approval"
	appAuth "github.com/edgeup/marketplace/internal/application/auth"
	appChat "github.com/edgeup/marketplace/internal/application/chat"
	appFavorite "github.com/edgeup/marketplace/internal/application/favorite"
	appNegotiation "github.com/edgeup/marketplace/internal/application/negotiation"
	appNotification "github.com/edgeup/marketplace/internal/application/notification"
	appOrder "github.com/edgeup/marketplace/internal/application/order"
	appProduct "github.com/edgeup/marketplace/internal/application/product"
	appReview "github.com/edgeup/marketplace/internal/application/review"
	appUser "github.com/edgeup/marketplace/internal/application/user"
	domainUser "github.com/edgeup/marketplace/internal/domain/user"
	"github.com/edgeup/marketplace/internal/infrastructure/redisx"
)

// IdempotencyStore remembers responses for requests carrying an
// Idempotency-Key header.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Lookup(ctx context.Context, key string) (*redisx.Response, bool, error)
	Save(ctx context.Context, key string, resp redisx.Response) error
	Release(ctx context.Context, key string) error
}

// Deps carries the services the HTTP layer is built on.
type Deps struct {
	Auth         *appAuth.Service
	Users        *appUser.Service
	Products     *appProduct.Service
	Negotiations *appNegotiation.Service
	Orders       *appOrder.Service
	Notifier     *appNotification.Service
	Chat         *appChat.Service
	Favorites    *appFavorite.Service
	Reviews      *appReview.Service
	Approvals    *appApproval.Service

	// Idempotency is optional; nil disables Idempotency-Key handling.
	Idempotency IdempotencyStore

	SessionCookieName   string
	SessionCookieSecure bool
	CORSAllowedOrigins  []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc         *appAuth.Service
	userSvc         *appUser.Service
	productSvc      *appProduct.Service
	negotiationSvc  *appNegotiation.Service
	orderSvc        *appOrder.Service
	notificationSvc *appNotification.Service
	chatSvc         *appChat.Service
	favoriteSvc     *appFavorite.Service
	reviewSvc       *appReview.Service
	approvalSvc     *appApproval.Service
	idem            IdempotencyStore

	sessionCookieName   string
	sessionCookieSecure bool
	corsOrigins         []string
	logger              zerolog.Logger
}

func NewServer(deps Deps, logger zerolog.Logger) *Server {
	return &Server{
		authSvc:             deps.Auth,
		userSvc:             deps.Users,
		productSvc:          deps.Products,
		negotiationSvc:      deps.Negotiations,
		orderSvc:            deps.Orders,
		notificationSvc:     deps.Notifier,
		chatSvc:             deps.Chat,
		favoriteSvc:         deps.Favorites,
		reviewSvc:           deps.Reviews,
		approvalSvc:         deps.Approvals,
		idem:                deps.Idempotency,
		sessionCookieName:   deps.SessionCookieName,
		sessionCookieSecure: deps.SessionCookieSecure,
		corsOrigins:         deps.CORSAllowedOrigins,
		logger:              logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-Id", "Idempotent-Replayed"},
		AllowCredentials: !containsWildcard(s.corsOrigins),
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/bootstrap", s.bootstrapAdmin)
			r.With(s.requireAuth).Post("/logout", s.logout)
			r.With(s.requireAuth).Get("/me", s.me)
			r.With(s.requireAuth).Patch("/me", s.updateMe)
		})

		r.Route("/products", func(r chi.Router) {
			r.With(s.optionalAuth).Get("/", s.listProducts)
			r.With(s.optionalAuth).Get("/{productId}", s.getProduct)
			r.Get("/{productId}/reviews", s.listReviews)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.With(s.requireRole(string(domainUser.RoleTrusted), string(domainUser.RoleAdmin))).Post("/", s.createProduct)
				r.Patch("/{productId}", s.updateProduct)
				r.Post("/{productId}/archive", s.archiveProduct)
				r.Post("/{productId}/reviews", s.createReview)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/negotiations", func(r chi.Router) {
				r.With(s.idempotent).Post("/", s.proposeNegotiation)
				r.Get("/", s.listNegotiations)
				r.Get("/{negotiationId}", s.getNegotiation)
				r.Post("/{negotiationId}/respond", s.respondNegotiation)
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(s.idempotent).Post("/", s.placeOrder)
				r.Get("/", s.listOrders)
				r.Get("/{orderId}", s.getOrder)
				r.Post("/{orderId}/status", s.updateOrderStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.listNotifications)
				r.Get("/unread-count", s.unreadCount)
				r.Post("/read-all", s.markAllNotificationsRead)
				r.Post("/{notificationId}/read", s.markNotificationRead)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", s.listConversations)
				r.Post("/", s.startConversation)
				r.Get("/{conversationId}/messages", s.listMessages)
				r.Post("/{conversationId}/messages", s.sendMessage)
				r.Post("/{conversationId}/read", s.markConversationRead)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", s.listFavorites)
				r.Put("/{productId}", s.addFavorite)
				r.Delete("/{productId}", s.removeFavorite)
			})

			r.Route("/trusted-requests", func(r chi.Router) {
				r.With(s.requireRole(string(domainUser.RoleUntrusted))).Post("/", s.submitTrustedRequest)
				r.Get("/", s.listTrustedRequests)
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Post("/{requestId}/review", s.reviewTrustedRequest)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Get("/", s.listUsers)
				r.Get("/{userId}", s.getUser)
				r.With(s.requireRole(string(domainUser.RoleAdmin))).Patch("/{userId}/role", s.setUserRole)
			})
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		evt := s.logger.Info()
		if status >= 500 {
			evt = s.logger.Error()
		}
		evt.Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	v := queryString(r, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseOptionalUUID(v *string) (*uuid.UUID, error) {
	if v == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
