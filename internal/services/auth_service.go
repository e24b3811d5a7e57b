package services

import (
	"errors"
	"fmt"
	"time"

	"freshmarket/internal/models"
	"freshmarket/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Validation-class errors, rendered as inline messages without any
// state change.
var (
	ErrMissingFields      = errors.New("please fill in all fields")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles login, registration and account maintenance for
// both customers and managers.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// Authenticate verifies the credentials for a user of the given role.
// Failure never reveals whether the username or the password was wrong.
func (s *AuthService) Authenticate(username, password string, role models.Role) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}

	var storedHash string
	switch role {
	case models.RoleCustomer:
		c, err := s.userRepo.GetCustomer(username)
		if err != nil {
			return ErrInvalidCredentials
		}
		storedHash = c.Password
	case models.RoleManager:
		m, err := s.userRepo.GetManager(username)
		if err != nil {
			return ErrInvalidCredentials
		}
		storedHash = m.Password
	default:
		return fmt.Errorf("unknown user type %q", role)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs a token binding the session id to the logged-in
// identity.
func (s *AuthService) IssueToken(sessionID, username string, role models.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":      sessionID,
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the session id
// it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid token: missing session")
	}
	return sid, nil
}

// RegisterCustomer creates a new customer account. The password is
// stored bcrypt-hashed; the legacy system kept it in the clear, which
// is a weakness this implementation does not carry over.
func (s *AuthService) RegisterCustomer(username, password, confirm string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if existing, err := s.userRepo.GetCustomer(username); err == nil && existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.CreateCustomer(&models.Customer{Name: username, Password: string(hash)}); err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	return nil
}

// RegisterManager creates a new manager account from the console.
func (s *AuthService) RegisterManager(username, password, confirm string) error {
	if username == "" || password == "" {
		return ErrMissingFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if existing, err := s.userRepo.GetManager(username); err == nil && existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.CreateManager(&models.Manager{Name: username, Password: string(hash)}); err != nil {
		return fmt.Errorf("failed to register manager: %w", err)
	}
	return nil
}

// UpdateProfile renames a customer and/or changes their password. A
// rename to a taken username is rejected.
func (s *AuthService) UpdateProfile(currentName, newName, newPassword, confirm string) error {
	if newName == "" || newPassword == "" || confirm == "" {
		return ErrMissingFields
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if newName != currentName {
		if existing, err := s.userRepo.GetCustomer(newName); err == nil && existing != nil {
			return ErrUsernameTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdateCustomer(currentName, &models.Customer{Name: newName, Password: string(hash)}); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ListCustomers returns every customer account for the manager console.
func (s *AuthService) ListCustomers() ([]models.Customer, error) {
	return s.userRepo.GetAllCustomers()
}

// UpdateCustomer lets a manager rename/re-credential a customer.
func (s *AuthService) UpdateCustomer(name, newName, newPassword string) error {
	if newName == "" || newPassword == "" {
		return ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdateCustomer(name, &models.Customer{Name: newName, Password: string(hash)}); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// DeleteCustomer removes a customer account.
func (s *AuthService) DeleteCustomer(name string) error {
	if err := s.userRepo.DeleteCustomer(name); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
