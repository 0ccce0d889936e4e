package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// CustomerService handles storefront customer accounts and sessions.
type CustomerService struct {
	customers repository.CustomerRepository
	tokens    *TokenService
}

// NewCustomerService creates the shop customer service.
func NewCustomerService(customers repository.CustomerRepository, tokens *TokenService) *CustomerService {
	return &CustomerService{customers: customers, tokens: tokens}
}

// CustomerRegisterInput is the storefront registration payload.
type CustomerRegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

func (in *CustomerRegisterInput) validate() error {
	var details []apierror.FieldError
	if !strings.Contains(in.Email, "@") {
		details = append(details, apierror.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if len(in.Password) < 8 {
		details = append(details, apierror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if strings.TrimSpace(in.FullName) == "" {
		details = append(details, apierror.FieldError{Field: "full_name", Message: "is required"})
	}
	if len(details) > 0 {
		return apierror.ValidationError("Invalid registration data", details...)
	}
	return nil
}

// Register creates a customer account.
func (s *CustomerService) Register(ctx context.Context, in CustomerRegisterInput) (*model.ShopCustomer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.InternalError("failed to hash password")
	}
	customer := &model.ShopCustomer{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		City:         in.City,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apierror.Conflict("Email already registered")
		}
		return nil, err
	}
	return customer, nil
}

// CustomerLoginResult carries the session token and customer identity.
type CustomerLoginResult struct {
	Token    string              `json:"token"`
	Customer *model.ShopCustomer `json:"customer"`
}

// Login verifies credentials and issues a session.
func (s *CustomerService) Login(ctx context.Context, email, password string) (*CustomerLoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	customer, err := s.customers.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return nil, apierror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return nil, apierror.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(ctx, &model.SessionData{
		Kind:       model.SessionCustomer,
		CustomerID: customer.ID,
		Email:      customer.Email,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerLoginResult{Token: token, Customer: customer}, nil
}

// Refresh rotates the session token.
func (s *CustomerService) Refresh(ctx context.Context, token string) (string, error) {
	fresh, _, err := s.tokens.RefreshToken(ctx, token)
	return fresh, err
}

// Logout revokes the session token.
func (s *CustomerService) Logout(ctx context.Context, token string) error {
	return s.tokens.RevokeToken(ctx, token)
}

// Profile returns the customer behind a session.
func (s *CustomerService) Profile(ctx context.Context, customerID int64) (*model.ShopCustomer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Customer not found")
	}
	return customer, err
}

// UpdateProfile changes the customer's contact fields.
func (s *CustomerService) UpdateProfile(ctx context.Context, customerID int64, in CustomerRegisterInput) (*model.ShopCustomer, error) {
	customer, err := s.Profile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) != "" {
		customer.FullName = in.FullName
	}
	if in.Phone != "" {
		customer.Phone = in.Phone
	}
	if in.Address != "" {
		customer.Address = in.Address
	}
	if in.City != "" {
		customer.City = in.City
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
