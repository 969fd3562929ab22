package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domainSession "github.com/edgeup/marketplace/internal/domain/session"
	domainUser "github.com/edgeup/marketplace/internal/domain/user"
)

const issuer = "marketplace"

// Claims is the access token payload. Subject carries the user id.
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles registration, login and token verification.
type Service struct {
	userRepo    domainUser.Repository
	sessionRepo domainSession.Repository
	secret      []byte
	sessionTTL  time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService creates an auth service signing tokens with secret.
func NewService(userRepo domainUser.Repository, sessionRepo domainSession.Repository, secret []byte, sessionTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      secret,
		sessionTTL:  sessionTTL,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// RegisterInput defines self sign-up input.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Country  string
	City     string
}

// LoginResult contains login response.
type LoginResult struct {
	User    *domainUser.User
	Session *domainSession.Session
	Token   string
}

// Register creates an untrusted account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domainUser.User, error) {
	return s.createUser(ctx, in, domainUser.RoleUntrusted)
}

// BootstrapAdmin creates the first account as Admin. It fails once any user
// exists.
func (s *Service) BootstrapAdmin(ctx context.Context, in RegisterInput) (*domainUser.User, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("bootstrap already completed: %w", apperror.ErrInvalidState)
	}
	return s.createUser(ctx, in, domainUser.RoleAdmin)
}

func (s *Service) createUser(ctx context.Context, in RegisterInput, role domainUser.Role) (*domainUser.User, error) {
	email := domainUser.NormalizeEmail(in.Email)
	if err := domainUser.ValidateEmail(email); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if err := domainUser.ValidateName(in.Name); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	if err := domainUser.ValidatePassword(in.Password, email); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", apperror.ErrConflict)
	}
	hash, err := domainUser.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &domainUser.User{
		UserID:       uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		Country:      strings.TrimSpace(in.Country),
		City:         strings.TrimSpace(in.City),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Str("role", string(role)).Msg("user registered")
	return u, nil
}

// Login verifies credentials, opens a session and issues a signed token
// bound to it.
func (s *Service) Login(ctx context.Context, email, password string, userAgent, ipAddress *string) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, domainUser.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !domainUser.VerifyPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)
	}

	now := s.now()
	sess := &domainSession.Session{
		SessionID:  uuid.New(),
		UserID:     u.UserID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionTTL),
		LastSeenAt: &now,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.sign(u, sess)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.UserID.String()).Msg("user login")
	return &LoginResult{User: u, Session: sess, Token: token}, nil
}

// Authenticate validates a token and the session behind it and returns the
// current user. The role is read from the user row, so role changes apply
// without a new login.
func (s *Service) Authenticate(ctx context.Context, token string) (*domainUser.User, *domainSession.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, nil, err
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("malformed session id: %w", apperror.ErrUnauthorized)
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("session not found: %w", apperror.ErrUnauthorized)
	}
	if sess.UserID.String() != claims.Subject {
		return nil, nil, fmt.Errorf("token subject mismatch: %w", apperror.ErrUnauthorized)
	}
	if sess.IsExpired(s.now()) {
		if err := s.sessionRepo.DeleteByID(ctx, sess.SessionID); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sess.SessionID.String()).Msg("failed to delete expired session")
		}
		return nil, nil, fmt.Errorf("session expired: %w", apperror.ErrUnauthorized)
	}
	u, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, fmt.Errorf("user not found: %w", apperror.ErrUnauthorized)
	}
	if err := s.sessionRepo.UpdateLastSeen(ctx, sess.SessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.SessionID.String()).Msg("failed to touch session")
	}
	return u, sess, nil
}

// Logout deletes the session referenced by token. Unknown or invalid tokens
// are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}
	return s.sessionRepo.DeleteByID(ctx, sessionID)
}

// CleanupExpiredSessions removes sessions past their expiry.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int, error) {
	count, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info().Int("count", count).Msg("expired sessions removed")
	}
	return count, nil
}

func (s *Service) sign(u *domainUser.User, sess *domainSession.Session) (string, error) {
	claims := Claims{
		SessionID: sess.SessionID.String(),
		Role:      string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", apperror.ErrUnauthorized)
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("token without expiry: %w", apperror.ErrUnauthorized)
	}
	return claims, nil
}
