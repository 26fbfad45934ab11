package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "campusdesk/internal/errors"
	"campusdesk/internal/service"
)

const maxAttachmentSize = 10 << 20 // 10MB per file

// Images, PDFs and common document types.
var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// ComplaintHandler handles complaint endpoints.
type ComplaintHandler struct {
	complaintService service.ComplaintService
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// UpdateStatusRequest carries the new status for a complaint.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DeleteRequest identifies the student requesting a delete.
type DeleteRequest struct {
	StudentID string `json:"studentId"`
}

// Create godoc
// @Summary Submit a complaint
// @Tags complaints
// @Accept mpfd
// @Produce json
// @Param studentId formData string true "Student identifier"
// @Param name formData string true "Student name"
// @Param email formData string true "Student email"
// @Param type formData string true "Complaint type"
// @Param department formData string true "Department"
// @Param date formData string true "Date"
// @Param complaintText formData string true "Complaint text"
// @Param files formData file false "Attachments"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c echo.Context) error {
	in := service.CreateComplaintInput{
		StudentID:     c.FormValue("studentId"),
		Name:          c.FormValue("name"),
		Email:         c.FormValue("email"),
		Type:          c.FormValue("type"),
		Department:    c.FormValue("department"),
		ComplaintText: c.FormValue("complaintText"),
		Date:          parseDate(c.FormValue("date")),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			if fh.Size > maxAttachmentSize {
				return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
					Message: fmt.Sprintf("File %s exceeds the 10MB limit", fh.Filename),
				})
			}
			contentType := fh.Header.Get("Content-Type")
			if !allowedAttachmentTypes[contentType] {
				return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
					Message: "Invalid file type. Only images, PDFs, and documents are allowed.",
				})
			}
			src, err := fh.Open()
			if err != nil {
				return fail(c, err)
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				return fail(c, err)
			}
			in.Attachments = append(in.Attachments, service.AttachmentUpload{
				Filename:    fh.Filename,
				ContentType: contentType,
				Data:        data,
			})
		}
	}

	if _, err := h.complaintService.Create(c.Request().Context(), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Complaint submitted successfully"})
}

// List godoc
// @Summary List complaints
// @Tags complaints
// @Produce json
// @Param department query string false "Exact department filter"
// @Success 200 {array} model.Complaint
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints [get]
func (h *ComplaintHandler) List(c echo.Context) error {
	complaints, err := h.complaintService.ListAll(c.Request().Context(), c.QueryParam("department"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, complaints)
}

// Search godoc
// @Summary Search complaints by type
// @Tags complaints
// @Produce json
// @Param type query string false "Case-insensitive substring of type"
// @Success 200 {array} model.Complaint
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints/search [get]
func (h *ComplaintHandler) Search(c echo.Context) error {
	complaints, err := h.complaintService.Search(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, complaints)
}

// ListByStudent godoc
// @Summary List complaints for one student
// @Tags complaints
// @Produce json
// @Param studentId path string true "Student identifier"
// @Success 200 {array} model.Complaint
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints/student/{studentId} [get]
func (h *ComplaintHandler) ListByStudent(c echo.Context) error {
	complaints, err := h.complaintService.ListByStudent(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, complaints)
}

// UpdateStatus godoc
// @Summary Update complaint status (admin action)
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint id"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints/{id}/status [put]
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}

	if err := h.complaintService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Complaint status updated to %s", req.Status),
	})
}

// Update godoc
// @Summary Update a complaint (owning student only)
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint id"
// @Param request body map[string]interface{} true "studentId plus fields to apply"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints/{id} [put]
func (h *ComplaintHandler) Update(c echo.Context) error {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}
	studentID, _ := body["studentId"].(string)
	delete(body, "studentId")

	if err := h.complaintService.UpdateByStudent(c.Request().Context(), c.Param("id"), studentID, body); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Complaint updated successfully"})
}

// Delete godoc
// @Summary Delete a complaint (owning student only)
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint id"
// @Param request body DeleteRequest true "Requesting student"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: "invalid request body"})
	}

	if err := h.complaintService.DeleteByStudent(c.Request().Context(), c.Param("id"), req.StudentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Complaint deleted successfully"})
}

// parseDate accepts the formats the frontend actually sends and falls back to
// the submission time.
func parseDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
