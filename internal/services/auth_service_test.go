package services_test

import (
	"fmt"
	"testing"

	"freshmarket/internal/models"
	"freshmarket/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	stored := &models.Customer{Name: "alice", Password: hashFor(t, "s3cret")}

	// Correct credentials
	mockRepo.On("GetCustomer", "alice").Return(stored, nil).Once()
	err := service.Authenticate("alice", "s3cret", models.RoleCustomer)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetCustomer", "alice").Return(stored, nil).Once()
	err = service.Authenticate("alice", "wrong", models.RoleCustomer)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user reports the same error as a wrong password
	mockRepo.On("GetCustomer", "mallory").Return(nil, fmt.Errorf("customer mallory not found")).Once()
	err = service.Authenticate("mallory", "s3cret", models.RoleCustomer)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate_MissingFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	err := service.Authenticate("", "s3cret", models.RoleCustomer)
	assert.ErrorIs(t, err, services.ErrMissingFields)

	err = service.Authenticate("alice", "", models.RoleCustomer)
	assert.ErrorIs(t, err, services.ErrMissingFields)

	mockRepo.AssertNotCalled(t, "GetCustomer", mock.Anything)
}

func TestAuthService_Authenticate_ManagerTable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	stored := &models.Manager{Name: "boss", Password: hashFor(t, "hunter2")}

	// Manager logins read the managers table, not customers.
	mockRepo.On("GetManager", "boss").Return(stored, nil).Once()
	err := service.Authenticate("boss", "hunter2", models.RoleManager)
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "GetCustomer", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_TokenRoundtrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	token, err := service.IssueToken("session-123", "alice", models.RoleCustomer)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	sid, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "session-123", sid)

	// A token signed with another secret is rejected
	other := services.NewAuthService(mockRepo, "other-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	// Successful registration stores a hash, never the password itself
	mockRepo.On("GetCustomer", "bob").Return(nil, fmt.Errorf("customer bob not found")).Once()
	mockRepo.On("CreateCustomer", mock.AnythingOfType("*models.Customer")).Run(func(args mock.Arguments) {
		created := args.Get(0).(*models.Customer)
		assert.Equal(t, "bob", created.Name)
		assert.NotEqual(t, "pass123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("pass123")))
	}).Return(nil).Once()

	err := service.RegisterCustomer("bob", "pass123", "pass123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterCustomer_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	err := service.RegisterCustomer("", "pass123", "pass123")
	assert.ErrorIs(t, err, services.ErrMissingFields)

	err = service.RegisterCustomer("bob", "pass123", "different")
	assert.ErrorIs(t, err, services.ErrPasswordMismatch)

	// Duplicate username
	mockRepo.On("GetCustomer", "alice").Return(&models.Customer{Name: "alice"}, nil).Once()
	err = service.RegisterCustomer("alice", "pass123", "pass123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	mockRepo.AssertNotCalled(t, "CreateCustomer", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterManager(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	mockRepo.On("GetManager", "boss").Return(nil, fmt.Errorf("manager boss not found")).Once()
	mockRepo.On("CreateManager", mock.AnythingOfType("*models.Manager")).Return(nil).Once()

	err := service.RegisterManager("boss", "pass123", "pass123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Duplicate manager name
	mockRepo.On("GetManager", "boss").Return(&models.Manager{Name: "boss"}, nil).Once()
	err = service.RegisterManager("boss", "pass123", "pass123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	// Rename onto a taken username is rejected
	mockRepo.On("GetCustomer", "taken").Return(&models.Customer{Name: "taken"}, nil).Once()
	err := service.UpdateProfile("alice", "taken", "newpass", "newpass")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Keeping the same name skips the duplicate check
	mockRepo.On("UpdateCustomer", "alice", mock.AnythingOfType("*models.Customer")).Return(nil).Once()
	err = service.UpdateProfile("alice", "alice", "newpass", "newpass")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Mismatched confirmation
	err = service.UpdateProfile("alice", "alice", "newpass", "other")
	assert.ErrorIs(t, err, services.ErrPasswordMismatch)
}

func TestAuthService_DeleteCustomer(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test-secret")

	mockRepo.On("DeleteCustomer", "bob").Return(nil).Once()
	err := service.DeleteCustomer("bob")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	mockRepo.On("DeleteCustomer", "ghost").Return(fmt.Errorf("customer ghost not found")).Once()
	err = service.DeleteCustomer("ghost")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}
