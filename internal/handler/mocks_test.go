package handler_test

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusdesk/internal/config"
	"campusdesk/internal/handler"
	"campusdesk/internal/model"
	"campusdesk/internal/router"
	"campusdesk/internal/service"
)

// newServer builds the full route table over mocked persistence, so requests
// travel the same path they do in production.
func newServer(
	users *MockUserRepository,
	admins *MockAdminRepository,
	complaints *MockComplaintRepository,
	files *MockFileSaver,
	mailer *MockMailer,
) *echo.Echo {
	e := echo.New()
	cfg := &config.Config{StaticDir: "frontend", UploadDir: "uploads"}

	authService := service.NewAuthService(users, admins, mailer)
	complaintService := service.NewComplaintService(complaints, admins, files, mailer, nil)

	router.Register(e, cfg,
		handler.NewAuthHandler(authService),
		handler.NewComplaintHandler(complaintService),
		nil,
	)
	return e
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, hash string) error {
	args := m.Called(ctx, email, hash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePhoto(ctx context.Context, email, photo string) error {
	args := m.Called(ctx, email, photo)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAdminRepository is a mock implementation of repository.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmailAndDepartment(ctx context.Context, email, department string) (*model.Admin, error) {
	args := m.Called(ctx, email, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) ListByDepartment(ctx context.Context, department string) ([]model.Admin, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdateUsername(ctx context.Context, email, username string) (*model.Admin, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdatePhoto(ctx context.Context, email, photo string) error {
	args := m.Called(ctx, email, photo)
	return args.Error(0)
}

func (m *MockAdminRepository) SetResetCode(ctx context.Context, email, code string, expiry time.Time) error {
	args := m.Called(ctx, email, code, expiry)
	return args.Error(0)
}

func (m *MockAdminRepository) ResetPassword(ctx context.Context, email, hash string) error {
	args := m.Called(ctx, email, hash)
	return args.Error(0)
}

func (m *MockAdminRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockComplaintRepository is a mock implementation of repository.ComplaintRepository.
type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Insert(ctx context.Context, complaint *model.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) List(ctx context.Context, department string) ([]model.Complaint, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) SearchByType(ctx context.Context, pattern string) ([]model.Complaint, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Complaint, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockComplaintRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockComplaintRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockFileSaver is a mock implementation of service.FileSaver.
type MockFileSaver struct {
	mock.Mock
}

func (m *MockFileSaver) Save(filename string, data []byte) (string, error) {
	args := m.Called(filename, data)
	return args.String(0), args.Error(1)
}
