package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "campusdesk/internal/errors"
	"campusdesk/internal/service"
)

// AuthHandler handles account endpoints for students and admins.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a student registration request.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	StudentID  string `json:"studentId" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"`
}

// LoginRequest represents a student login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterAdminRequest represents an admin registration request.
type RegisterAdminRequest struct {
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// AdminLoginRequest represents an admin login request.
type AdminLoginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// UpdateProfileRequest represents an admin username change.
type UpdateProfileRequest struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// ForgotPasswordRequest starts the admin password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the admin password reset flow.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// LoginResponse wraps the tokenless login payload.
type LoginResponse struct {
	Message string            `json:"message"`
	User    *service.UserInfo `json:"user"`
}

// Register godoc
// @Summary Register a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: err.Error()})
	}
	role := req.Role
	if role == "" {
		role = "student"
	}

	err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.StudentID, req.Department, role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Account created successfully"})
}

// Login godoc
// @Summary Student login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "Email and password are required"})
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Message: "Student login successful", User: user})
}

// RegisterAdmin godoc
// @Summary Register an admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterAdminRequest true "Admin registration data"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req RegisterAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: err.Error()})
	}

	err := h.authService.RegisterAdmin(c.Request().Context(), req.Username, req.Email, req.Password, req.Department)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Admin account created successfully"})
}

// AdminLogin godoc
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/admin-login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "Email, password, and department are required"})
	}

	user, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password, req.Department)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Message: "Admin login successful", User: user})
}

// UploadPhoto godoc
// @Summary Upload a profile photo for a student or admin
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param email formData string true "Account email"
// @Param photo formData file true "Photo file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/upload-photo [post]
func (h *AuthHandler) UploadPhoto(c echo.Context) error {
	email := c.FormValue("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "Email is required"})
	}

	// The frontend is inconsistent about the field name.
	fh, err := c.FormFile("photo")
	if err != nil {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "Photo file is required"})
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, err)
	}

	encoded, err := h.authService.UploadPhoto(c.Request().Context(), email, data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Profile photo updated successfully",
		"photo":   encoded,
	})
}

// UpdateProfile godoc
// @Summary Update an admin's username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "Email and username are required"})
	}

	admin, err := h.authService.UpdateProfile(c.Request().Context(), req.Email, req.Username)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    map[string]string{"username": admin.Username},
	})
}

// ForgotPassword godoc
// @Summary Send an admin a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Admin email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: err.Error()})
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		// Admin lookup failures surface as 404 here; the reset flow is an
		// operator-facing surface, not a public one.
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reset code sent"})
}

// ResetPassword godoc
// @Summary Reset an admin password with a code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset fields"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: err.Error()})
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// DeleteAllStudents godoc
// @Summary Delete every student account (maintenance)
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/delete-all-students [delete]
func (h *AuthHandler) DeleteAllStudents(c echo.Context) error {
	count, err := h.authService.DeleteAllStudents(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted %d students.", count),
	})
}

// fail logs server-side errors and writes the mapped JSON error body.
func fail(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	if he.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(he.StatusCode, apperrors.ErrorResponse{Message: he.Message})
}
