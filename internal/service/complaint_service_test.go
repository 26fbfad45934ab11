package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "campusdesk/internal/errors"
	"campusdesk/internal/model"
)

func newComplaintService(complaints *MockComplaintRepository, admins *MockAdminRepository, files *MockFileSaver, mailer *MockMailer) ComplaintService {
	return NewComplaintService(complaints, admins, files, mailer, nil)
}

func TestComplaintService_Create_NotifiesMatchingAdmins(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("Insert", mock.Anything, mock.AnythingOfType("*model.Complaint")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Complaint).ID = primitive.NewObjectID()
		}).
		Return(nil)

	mockAdmins := new(MockAdminRepository)
	mockAdmins.On("ListByDepartment", mock.Anything, "academic").Return([]model.Admin{
		{Email: "admin1@example.com", Department: "academic"},
		{Email: "admin2@example.com", Department: "academic"},
	}, nil)

	mockMailer := new(MockMailer)
	mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newComplaintService(mockComplaints, mockAdmins, new(MockFileSaver), mockMailer)
	complaint, err := svc.Create(context.Background(), CreateComplaintInput{
		StudentID:     "S1",
		Name:          "Test Student",
		Email:         "s@example.com",
		Type:          "Academic",
		Department:    "Academic",
		Date:          time.Now(),
		ComplaintText: "Missing grades",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, complaint.Status)
	// one confirmation plus one mail per matching admin
	mockMailer.AssertNumberOfCalls(t, "Send", 3)
	mockMailer.AssertCalled(t, "Send", "admin1@example.com", "New Complaint Submitted", mock.Anything)
	mockMailer.AssertCalled(t, "Send", "admin2@example.com", "New Complaint Submitted", mock.Anything)
	mockComplaints.AssertExpectations(t)
}

func TestComplaintService_Create_ZeroAdminsStillSucceeds(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("Insert", mock.Anything, mock.AnythingOfType("*model.Complaint")).Return(nil)

	mockAdmins := new(MockAdminRepository)
	mockAdmins.On("ListByDepartment", mock.Anything, "academic").Return([]model.Admin{}, nil)

	mockMailer := new(MockMailer)
	mockMailer.On("Send", "s@example.com", "Complaint Submitted Successfully", mock.Anything).Return(nil)

	svc := newComplaintService(mockComplaints, mockAdmins, new(MockFileSaver), mockMailer)
	_, err := svc.Create(context.Background(), CreateComplaintInput{
		StudentID:     "S1",
		Email:         "s@example.com",
		Type:          "academic",
		ComplaintText: "Missing grades",
	})

	assert.NoError(t, err)
	mockMailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestComplaintService_Create_ConfirmationFailureIsSwallowed(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("Insert", mock.Anything, mock.AnythingOfType("*model.Complaint")).Return(nil)

	mockAdmins := new(MockAdminRepository)
	mockAdmins.On("ListByDepartment", mock.Anything, "hostel").Return([]model.Admin{}, nil)

	mockMailer := new(MockMailer)
	mockMailer.On("Send", "s@example.com", "Complaint Submitted Successfully", mock.Anything).
		Return(errors.New("smtp down"))

	svc := newComplaintService(mockComplaints, mockAdmins, new(MockFileSaver), mockMailer)
	_, err := svc.Create(context.Background(), CreateComplaintInput{
		Email:         "s@example.com",
		Type:          "Hostel",
		ComplaintText: "Leaking roof",
	})

	assert.NoError(t, err, "complaint creation must survive a failed confirmation mail")
}

func TestComplaintService_Create_AdminNotifyFailurePropagates(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("Insert", mock.Anything, mock.AnythingOfType("*model.Complaint")).Return(nil)

	mockAdmins := new(MockAdminRepository)
	mockAdmins.On("ListByDepartment", mock.Anything, "hostel").Return([]model.Admin{
		{Email: "admin@example.com", Department: "hostel"},
	}, nil)

	mockMailer := new(MockMailer)
	mockMailer.On("Send", "s@example.com", "Complaint Submitted Successfully", mock.Anything).Return(nil)
	mockMailer.On("Send", "admin@example.com", "New Complaint Submitted", mock.Anything).
		Return(errors.New("smtp down"))

	svc := newComplaintService(mockComplaints, mockAdmins, new(MockFileSaver), mockMailer)
	_, err := svc.Create(context.Background(), CreateComplaintInput{
		Email:         "s@example.com",
		Type:          "Hostel",
		ComplaintText: "Leaking roof",
	})

	assert.Error(t, err)
}

func TestComplaintService_Create_StoresAttachments(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	var stored *model.Complaint
	mockComplaints.On("Insert", mock.Anything, mock.AnythingOfType("*model.Complaint")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.Complaint) }).
		Return(nil)

	mockAdmins := new(MockAdminRepository)
	mockAdmins.On("ListByDepartment", mock.Anything, mock.Anything).Return([]model.Admin{}, nil)

	mockFiles := new(MockFileSaver)
	mockFiles.On("Save", "roof.png", mock.Anything).Return("/uploads/abc.png", nil)

	mockMailer := new(MockMailer)
	mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newComplaintService(mockComplaints, mockAdmins, mockFiles, mockMailer)
	_, err := svc.Create(context.Background(), CreateComplaintInput{
		Email: "s@example.com",
		Type:  "Hostel",
		Attachments: []AttachmentUpload{
			{Filename: "roof.png", ContentType: "image/png", Data: []byte{1, 2, 3}},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, stored.Attachments, 1)
	assert.Equal(t, "/uploads/abc.png", stored.Attachments[0].Path)
	assert.Equal(t, "image/png", stored.Attachments[0].ContentType)
	mockFiles.AssertExpectations(t)
}

func TestComplaintService_UpdateStatus(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("rejects a status outside the allowed set", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockMailer := new(MockMailer)

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), mockMailer)
		err := svc.UpdateStatus(context.Background(), oid.Hex(), "Done")

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
		mockComplaints.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		mockComplaints.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mockMailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("complaint not found", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockComplaints.On("FindByID", mock.Anything, oid).Return(nil, mongo.ErrNoDocuments)

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
		err := svc.UpdateStatus(context.Background(), oid.Hex(), model.StatusResolved)

		assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)
	})

	t.Run("persists and mails the new status", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
			ID:            oid,
			Email:         "s@example.com",
			ComplaintText: "Leaking roof",
			Status:        model.StatusPending,
		}, nil)
		mockComplaints.On("UpdateStatus", mock.Anything, oid, model.StatusResolved).Return(nil)

		mockMailer := new(MockMailer)
		mockMailer.On("Send", "s@example.com", "Complaint Status Update", mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, model.StatusResolved) && strings.Contains(body, "Leaking roof")
		})).Return(nil)

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), mockMailer)
		err := svc.UpdateStatus(context.Background(), oid.Hex(), model.StatusResolved)

		assert.NoError(t, err)
		mockComplaints.AssertExpectations(t)
		mockMailer.AssertExpectations(t)
	})

	t.Run("mail failure propagates", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
			ID:    oid,
			Email: "s@example.com",
		}, nil)
		mockComplaints.On("UpdateStatus", mock.Anything, oid, model.StatusRejected).Return(nil)

		mockMailer := new(MockMailer)
		mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), mockMailer)
		err := svc.UpdateStatus(context.Background(), oid.Hex(), model.StatusRejected)

		assert.Error(t, err)
	})
}

func TestComplaintService_UpdateByStudent_OwnershipEnforced(t *testing.T) {
	oid := primitive.NewObjectID()

	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
		ID:        oid,
		StudentID: "S2",
	}, nil)

	svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
	err := svc.UpdateByStudent(context.Background(), oid.Hex(), "S1", map[string]interface{}{
		"complaintText": "hijacked",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	mockComplaints.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplaintService_UpdateByStudent_AppliesFieldsVerbatim(t *testing.T) {
	oid := primitive.NewObjectID()

	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
		ID:        oid,
		StudentID: "S1",
	}, nil)
	mockComplaints.On("UpdateFields", mock.Anything, oid, mock.MatchedBy(func(fields bson.M) bool {
		_, hasID := fields["_id"]
		_, hasStudent := fields["studentId"]
		return fields["complaintText"] == "updated text" && !hasID && !hasStudent
	})).Return(nil)

	svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
	err := svc.UpdateByStudent(context.Background(), oid.Hex(), "S1", map[string]interface{}{
		"complaintText": "updated text",
		"_id":           "spoofed",
		"studentId":     "S9",
	})

	assert.NoError(t, err)
	mockComplaints.AssertExpectations(t)
}

func TestComplaintService_DeleteByStudent(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("owner can delete", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
			ID:        oid,
			StudentID: "S1",
		}, nil)
		mockComplaints.On("Delete", mock.Anything, oid).Return(nil)

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
		assert.NoError(t, svc.DeleteByStudent(context.Background(), oid.Hex(), "S1"))
		mockComplaints.AssertExpectations(t)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockComplaints := new(MockComplaintRepository)
		mockComplaints.On("FindByID", mock.Anything, oid).Return(&model.Complaint{
			ID:        oid,
			StudentID: "S2",
		}, nil)

		svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
		err := svc.DeleteByStudent(context.Background(), oid.Hex(), "S1")

		assert.ErrorIs(t, err, apperrors.ErrNotOwner)
		mockComplaints.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestComplaintService_ListAll(t *testing.T) {
	mockComplaints := new(MockComplaintRepository)
	mockComplaints.On("List", mock.Anything, "Hostel").Return([]model.Complaint{
		{Department: "Hostel", Status: model.StatusPending},
	}, nil)

	svc := newComplaintService(mockComplaints, new(MockAdminRepository), new(MockFileSaver), new(MockMailer))
	complaints, err := svc.ListAll(context.Background(), "Hostel")

	assert.NoError(t, err)
	assert.Len(t, complaints, 1)
	assert.Equal(t, model.StatusPending, complaints[0].Status)
}
