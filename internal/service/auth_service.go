package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	apperrors "campusdesk/internal/errors"
	"campusdesk/internal/mail"
	"campusdesk/internal/model"
	"campusdesk/internal/repository"
)

const (
	bcryptCost     = 10
	resetCodeTTL   = 15 * time.Minute
	resetCodeLimit = 1000000 // six digits
)

// UserInfo is the payload returned on successful login. No token or session is
// issued; the client keeps this out-of-band.
type UserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	StudentID  string `json:"studentId,omitempty"`
	Department string `json:"department"`
	IsAdmin    bool   `json:"isAdmin"`
	Photo      string `json:"photo,omitempty"`
}

// AuthService handles student and admin account operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password, studentID, department, role string) error
	Login(ctx context.Context, email, password string) (*UserInfo, error)
	RegisterAdmin(ctx context.Context, username, email, password, department string) error
	AdminLogin(ctx context.Context, email, password, department string) (*UserInfo, error)
	UploadPhoto(ctx context.Context, email string, data []byte) (string, error)
	UpdateProfile(ctx context.Context, email, username string) (*model.Admin, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	DeleteAllStudents(ctx context.Context) (int64, error)
}

type authService struct {
	users  repository.UserRepository
	admins repository.AdminRepository
	// photo upload resolves the account polymorphically: users first, then admins
	accounts []repository.AccountStore
	mailer   mail.Mailer
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, admins repository.AdminRepository, mailer mail.Mailer) AuthService {
	return &authService{
		users:    users,
		admins:   admins,
		accounts: []repository.AccountStore{users, admins},
		mailer:   mailer,
	}
}

// NormalizeEmail trims and lower-cases an email; it is the lookup key for
// every account collection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new student account with a hashed password.
func (s *authService) Register(ctx context.Context, username, email, password, studentID, department, role string) error {
	email = NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrEmailExists
	}
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("check user existence: %w", err)
	}

	// Hashing is an explicit service-layer step, applied before every persist
	// of a changed password.
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		StudentID:  studentID,
		Department: department,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login authenticates a student. Records that still hold a legacy plain-text
// password are compared directly and transparently re-hashed on first success.
func (s *authService) Login(ctx context.Context, email, password string) (*UserInfo, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if strings.HasPrefix(user.Password, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return nil, apperrors.ErrBadCredentials
		}
	} else {
		// Legacy plain-text record: one-time migration on first login.
		if password != strings.TrimSpace(user.Password) {
			return nil, apperrors.ErrBadCredentials
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, email, string(hashed)); err != nil {
			return nil, fmt.Errorf("migrate password: %w", err)
		}
		log.Printf("auth: re-hashed legacy password for %s", email)
	}

	return &UserInfo{
		ID:         user.ID.Hex(),
		Email:      user.Email,
		Username:   user.Username,
		StudentID:  user.StudentID,
		Department: user.Department,
		IsAdmin:    false,
		Photo:      user.Photo,
	}, nil
}

// RegisterAdmin creates a new admin account. The endpoint carries no
// authorization guard; it is an operator-facing maintenance surface.
func (s *authService) RegisterAdmin(ctx context.Context, username, email, password, department string) error {
	email = NormalizeEmail(email)

	existing, err := s.admins.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrEmailExists
	}
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("check admin existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		Department: department,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailExists
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// AdminLogin authenticates an admin against the (email, department) pair.
func (s *authService) AdminLogin(ctx context.Context, email, password, department string) (*UserInfo, error) {
	email = NormalizeEmail(email)

	admin, err := s.admins.FindByEmailAndDepartment(ctx, email, department)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(strings.TrimSpace(password))) != nil {
		return nil, apperrors.ErrBadCredentials
	}

	return &UserInfo{
		ID:         admin.ID.Hex(),
		Email:      admin.Email,
		Username:   admin.Username,
		Department: admin.Department,
		IsAdmin:    true,
		Photo:      admin.Photo,
	}, nil
}

// UploadPhoto stores the image as base64 text on whichever account matches the
// email, trying each account store in order. Returns the encoded string.
func (s *authService) UploadPhoto(ctx context.Context, email string, data []byte) (string, error) {
	email = NormalizeEmail(email)
	encoded := base64.StdEncoding.EncodeToString(data)

	for _, store := range s.accounts {
		err := store.UpdatePhoto(ctx, email, encoded)
		if err == nil {
			return encoded, nil
		}
		if err != mongo.ErrNoDocuments {
			return "", fmt.Errorf("update photo: %w", err)
		}
	}
	return "", apperrors.ErrAccountNotFound
}

// UpdateProfile changes an admin's username.
func (s *authService) UpdateProfile(ctx context.Context, email, username string) (*model.Admin, error) {
	admin, err := s.admins.UpdateUsername(ctx, NormalizeEmail(email), strings.TrimSpace(username))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrAdminMissing
		}
		return nil, fmt.Errorf("update username: %w", err)
	}
	return admin, nil
}

// ForgotPassword issues a short-lived reset code to an admin's email.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	if _, err := s.admins.FindByEmail(ctx, email); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrAdminMissing
		}
		return fmt.Errorf("find admin: %w", err)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeLimit))
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.admins.SetResetCode(ctx, email, code, time.Now().Add(resetCodeTTL)); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is: %s\n\nIt expires in 15 minutes.", code)
	if err := s.mailer.Send(email, "Password Reset Code", body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ResetPassword verifies the code and stores a fresh hash, clearing the code.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrAdminMissing
		}
		return fmt.Errorf("find admin: %w", err)
	}
	if admin.ResetCode == "" || admin.ResetCode != code ||
		admin.ResetExpiry == nil || time.Now().After(*admin.ResetExpiry) {
		return apperrors.ErrInvalidResetCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.ResetPassword(ctx, email, string(hashed)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// DeleteAllStudents removes every user with the student role and reports the
// count. Unguarded maintenance operation.
func (s *authService) DeleteAllStudents(ctx context.Context) (int64, error) {
	return s.users.DeleteByRole(ctx, "student")
}
