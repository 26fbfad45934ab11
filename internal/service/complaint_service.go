package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campusdesk/internal/cache"
	apperrors "campusdesk/internal/errors"
	"campusdesk/internal/mail"
	"campusdesk/internal/metrics"
	"campusdesk/internal/model"
	"campusdesk/internal/repository"
)

const (
	listCachePrefix = "complaints:list:"
	listCacheTTL    = 30 * time.Second
)

// FileSaver stores attachment bytes and returns the path they are served from.
type FileSaver interface {
	Save(filename string, data []byte) (string, error)
}

// AttachmentUpload carries one uploaded file into Create.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateComplaintInput bundles the fields of a complaint submission.
type CreateComplaintInput struct {
	StudentID     string
	Name          string
	Email         string
	Type          string
	Department    string
	Date          time.Time
	ComplaintText string
	Attachments   []AttachmentUpload
}

// ComplaintService drives the complaint lifecycle and its notifications.
type ComplaintService interface {
	Create(ctx context.Context, in CreateComplaintInput) (*model.Complaint, error)
	ListAll(ctx context.Context, department string) ([]model.Complaint, error)
	Search(ctx context.Context, typePattern string) ([]model.Complaint, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateByStudent(ctx context.Context, id, studentID string, fields map[string]interface{}) error
	DeleteByStudent(ctx context.Context, id, studentID string) error
}

type complaintService struct {
	complaints repository.ComplaintRepository
	admins     repository.AdminRepository
	files      FileSaver
	mailer     mail.Mailer
	cache      *cache.Client
}

// NewComplaintService builds a ComplaintService.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	admins repository.AdminRepository,
	files FileSaver,
	mailer mail.Mailer,
	cache *cache.Client,
) ComplaintService {
	return &complaintService{
		complaints: complaints,
		admins:     admins,
		files:      files,
		mailer:     mailer,
		cache:      cache,
	}
}

// Create persists a new complaint with status Pending and fans out
// notifications. The confirmation mail to the student is best-effort; the
// admin lookup and notification mails are not separately guarded.
func (s *complaintService) Create(ctx context.Context, in CreateComplaintInput) (*model.Complaint, error) {
	attachments := make([]model.Attachment, 0, len(in.Attachments))
	for _, up := range in.Attachments {
		path, err := s.files.Save(up.Filename, up.Data)
		if err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		attachments = append(attachments, model.Attachment{
			Filename:    up.Filename,
			ContentType: up.ContentType,
			Path:        path,
		})
	}

	complaint := &model.Complaint{
		StudentID:     in.StudentID,
		Name:          in.Name,
		Email:         in.Email,
		Type:          in.Type,
		Department:    in.Department,
		Date:          in.Date,
		ComplaintText: in.ComplaintText,
		Status:        model.StatusPending,
		Attachments:   attachments,
	}
	if err := s.complaints.Insert(ctx, complaint); err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	metrics.ComplaintsCreated.Inc()
	_ = s.cache.DeletePrefix(ctx, listCachePrefix)

	// Confirmation to the student: the complaint stands even if this fails.
	confirmation := fmt.Sprintf(
		"Dear %s,\n\nYour complaint has been submitted successfully.\n\n"+
			"Complaint Details:\n- Type: %s\n- Department: %s\n- Date: %s\n- Description: %s\n\n"+
			"We will review your complaint and get back to you soon.\n\nThank you.",
		complaint.Name, complaint.Type, complaint.Department,
		complaint.Date.Format("2006-01-02"), complaint.ComplaintText,
	)
	if err := s.send(complaint.Email, "Complaint Submitted Successfully", confirmation); err != nil {
		log.Printf("complaint: confirmation mail to %s failed: %v", complaint.Email, err)
	}

	admins, err := s.admins.ListByDepartment(ctx, strings.ToLower(complaint.Type))
	if err != nil {
		return nil, fmt.Errorf("list admins for %s: %w", complaint.Type, err)
	}
	for _, admin := range admins {
		body := fmt.Sprintf(
			"A new complaint has been submitted in your department (%s):\n\n%s\n\nSubmitted by: %s (%s)",
			complaint.Type, complaint.ComplaintText, complaint.Name, complaint.Email,
		)
		if err := s.send(admin.Email, "New Complaint Submitted", body); err != nil {
			return nil, fmt.Errorf("notify admin %s: %w", admin.Email, err)
		}
	}

	return complaint, nil
}

// ListAll returns complaints, optionally filtered by exact department.
// Results are cached briefly; every write path invalidates the cache.
func (s *complaintService) ListAll(ctx context.Context, department string) ([]model.Complaint, error) {
	key := listCachePrefix + department
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Complaint
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	complaints, err := s.complaints.List(ctx, department)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(complaints); err == nil {
		_ = s.cache.Set(ctx, key, payload, listCacheTTL)
	}
	return complaints, nil
}

// Search matches complaint type against a case-insensitive substring pattern.
func (s *complaintService) Search(ctx context.Context, typePattern string) ([]model.Complaint, error) {
	return s.complaints.SearchByType(ctx, typePattern)
}

// ListByStudent returns the complaints a student submitted.
func (s *complaintService) ListByStudent(ctx context.Context, studentID string) ([]model.Complaint, error) {
	return s.complaints.ListByStudent(ctx, studentID)
}

// UpdateStatus moves a complaint to a new status and mails the complainant.
// Unlike creation, the mail failure here propagates to the caller.
func (s *complaintService) UpdateStatus(ctx context.Context, id, status string) error {
	if !model.ValidStatus(status) {
		return apperrors.ErrInvalidStatus
	}
	oid, err := parseComplaintID(id)
	if err != nil {
		return err
	}
	complaint, err := s.complaints.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrComplaintNotFound
		}
		return fmt.Errorf("find complaint: %w", err)
	}
	if err := s.complaints.UpdateStatus(ctx, oid, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	metrics.StatusUpdates.WithLabelValues(status).Inc()
	_ = s.cache.DeletePrefix(ctx, listCachePrefix)

	body := fmt.Sprintf(
		"Your complaint status has been updated to: %s\n\nComplaint Details:\n%s",
		status, complaint.ComplaintText,
	)
	if err := s.send(complaint.Email, "Complaint Status Update", body); err != nil {
		return fmt.Errorf("status mail to %s: %w", complaint.Email, err)
	}
	return nil
}

// UpdateByStudent merges the supplied fields onto a complaint the student
// owns. Full overwrite semantics: whatever arrives is applied verbatim, minus
// the identity fields.
func (s *complaintService) UpdateByStudent(ctx context.Context, id, studentID string, fields map[string]interface{}) error {
	oid, err := parseComplaintID(id)
	if err != nil {
		return err
	}
	complaint, err := s.complaints.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrComplaintNotFound
		}
		return fmt.Errorf("find complaint: %w", err)
	}
	if complaint.StudentID != studentID {
		return apperrors.ErrNotOwner
	}

	update := bson.M{}
	for k, v := range fields {
		if k == "studentId" || k == "_id" || k == "id" {
			continue
		}
		update[k] = v
	}
	if err := s.complaints.UpdateFields(ctx, oid, update); err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	_ = s.cache.DeletePrefix(ctx, listCachePrefix)
	return nil
}

// DeleteByStudent removes a complaint after the same ownership check.
func (s *complaintService) DeleteByStudent(ctx context.Context, id, studentID string) error {
	oid, err := parseComplaintID(id)
	if err != nil {
		return err
	}
	complaint, err := s.complaints.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrComplaintNotFound
		}
		return fmt.Errorf("find complaint: %w", err)
	}
	if complaint.StudentID != studentID {
		return apperrors.ErrNotOwner
	}
	if err := s.complaints.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	_ = s.cache.DeletePrefix(ctx, listCachePrefix)
	return nil
}

// send wraps the mailer with delivery counters.
func (s *complaintService) send(to, subject, body string) error {
	if err := s.mailer.Send(to, subject, body); err != nil {
		metrics.MailsFailed.Inc()
		return err
	}
	metrics.MailsSent.Inc()
	return nil
}

// parseComplaintID maps a malformed hex id to not-found rather than exposing
// a decode error.
func parseComplaintID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.ErrComplaintNotFound
	}
	return oid, nil
}
