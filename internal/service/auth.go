package service

import (
	"context"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// AuthService handles CMS trader registration, login and sessions.
type AuthService struct {
	traders repository.TraderRepository
	audit   repository.AuditRepository
	backend BackendClient
	tokens  *TokenService
}

// NewAuthService creates the CMS auth service.
func NewAuthService(traders repository.TraderRepository, audit repository.AuditRepository,
	backend BackendClient, tokens *TokenService) *AuthService {
	return &AuthService{traders: traders, audit: audit, backend: backend, tokens: tokens}
}

// RegisterInput is the trader registration payload.
type RegisterInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
}

func (in *RegisterInput) validate() error {
	var details []apierror.FieldError
	if !strings.Contains(in.Email, "@") {
		details = append(details, apierror.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if len(in.Password) < 8 {
		details = append(details, apierror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if strings.TrimSpace(in.BusinessName) == "" {
		details = append(details, apierror.FieldError{Field: "business_name", Message: "is required"})
	}
	if len(details) > 0 {
		return apierror.ValidationError("Invalid registration data", details...)
	}
	return nil
}

// Register creates a local PENDING trader and registers it on the
// backend. Backend failure is logged, not fatal; the backend user id is
// linked when registration succeeds.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Trader, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.InternalError("failed to hash password")
	}

	trader := &model.Trader{
		Email:        in.Email,
		PasswordHash: string(hash),
		BusinessName: in.BusinessName,
		Status:       model.TraderPending,
	}
	if err := s.traders.Create(ctx, trader); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apierror.Conflict("Email already registered")
		}
		return nil, err
	}

	resp, err := s.backend.RegisterTrader(ctx, adminapi.RegisterTraderRequest{
		Email: in.Email, Password: in.Password, BusinessName: in.BusinessName,
	})
	if err != nil {
		log.Printf("[AuthService] backend registration failed for %s: %v", in.Email, err)
	} else if resp.UserID != 0 {
		if err := s.traders.SetBackendUserID(ctx, trader.ID, resp.UserID); err != nil {
			log.Printf("[AuthService] failed to link backend user: %v", err)
		} else {
			trader.BackendUserID = resp.UserID
		}
	}

	s.writeAudit(ctx, trader.ID, model.AuditRegister, nil)
	return trader, nil
}

// LoginResult carries the session token and trader identity.
type LoginResult struct {
	Token  string        `json:"token"`
	Trader *model.Trader `json:"trader"`
}

// Login verifies credentials, requires an ACTIVE trader and issues a
// session. The backend login is best-effort; its token pair is captured
// into the session for later sync calls.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	trader, err := s.traders.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return nil, apierror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(trader.PasswordHash), []byte(password)) != nil {
		return nil, apierror.Unauthorized("Invalid email or password")
	}
	if trader.Status != model.TraderActive {
		return nil, apierror.Forbidden("Trader account is not active")
	}

	sess := &model.SessionData{
		Kind:     model.SessionTrader,
		TraderID: trader.ID,
		Email:    trader.Email,
	}

	backendLogin, err := s.backend.LoginTrader(ctx, email, password)
	if err != nil {
		log.Printf("[AuthService] backend login failed for %s: %v", email, err)
	} else {
		sess.BackendAccessToken = backendLogin.AccessToken
		sess.BackendRefreshToken = backendLogin.RefreshToken
		if backendLogin.UserID != 0 && !trader.Linked() {
			if err := s.traders.SetBackendUserID(ctx, trader.ID, backendLogin.UserID); err == nil {
				trader.BackendUserID = backendLogin.UserID
			}
		}
	}

	token, err := s.tokens.GenerateToken(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, trader.ID, model.AuditLogin, nil)
	return &LoginResult{Token: token, Trader: trader}, nil
}

// Refresh rotates the session token.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	fresh, _, err := s.tokens.RefreshToken(ctx, token)
	return fresh, err
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.RevokeToken(ctx, token)
}

// Profile returns the trader behind a session.
func (s *AuthService) Profile(ctx context.Context, traderID int64) (*model.Trader, error) {
	trader, err := s.traders.GetByID(ctx, traderID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Trader not found")
	}
	return trader, err
}

// UpdateProfile changes the trader-editable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, traderID int64, businessName, apiKey string) (*model.Trader, error) {
	trader, err := s.Profile(ctx, traderID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(businessName) != "" {
		trader.BusinessName = businessName
	}
	if apiKey != "" {
		trader.APIKey = apiKey
	}
	if err := s.traders.UpdateProfile(ctx, trader); err != nil {
		return nil, err
	}
	s.writeAudit(ctx, traderID, model.AuditProfileUpdate, nil)
	return trader, nil
}

func (s *AuthService) writeAudit(ctx context.Context, traderID int64, action string, data map[string]interface{}) {
	entry := &model.AuditLog{TraderID: traderID, Action: action, Entity: "trader", EntityID: traderID, Data: data}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Printf("[AuthService] failed to write audit log: %v", err)
	}
}
