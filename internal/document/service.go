package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/albaledger/portal/internal"
	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/core/events"
	"github.com/google/uuid"
)

// ListQuery is the storage-level filter built by the service after applying
// role scoping on top of the caller's Filter.
type ListQuery struct {
	ClientID  int64
	ClientIDs []int64
	Category  string
	Month     int
	Year      int
}

// Repository defines the data access methods for documents
type Repository interface {
	CreateBatch(docs []*Document) error
	GetByID(id string) (*Document, error)
	List(q ListQuery) ([]*Document, error)
	Update(doc *Document) error
}

// EventPublisher publishes domain events; satisfied by the core event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service drives the document lifecycle and filtered views.
type Service struct {
	repo        Repository
	eventBus    EventPublisher
	logger      *slog.Logger
	maxFileSize int64
}

func NewService(repo Repository, eventBus EventPublisher, logger *slog.Logger, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = MaxFileSizeBytes
	}
	return &Service{
		repo:        repo,
		eventBus:    eventBus,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Submit validates and stores a batch of uploaded documents. Payment-field
// violations fail the whole batch; a bad file type or size only excludes that file.
func (s *Service) Submit(actor *auth.User, dto SubmitDocumentsDTO) (*SubmitResult, error) {
	if actor.IsClient() && actor.ID != dto.ClientID {
		s.logger.Warn("submit denied: client submitting for another client",
			"actor_id", actor.ID, "client_id", dto.ClientID)
		return nil, errors.ErrRoleNotAllowed
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("document batch validation failed", "error", err, "client_id", dto.ClientID)
		return nil, err
	}

	now := time.Now()
	result := &SubmitResult{}

	for _, file := range dto.Files {
		if !IsAcceptedFileType(file.MimeType) {
			result.Rejected = append(result.Rejected, FileRejection{
				FileName: file.Name,
				Reason:   fmt.Sprintf("file type %q is not allowed, only images and PDF are accepted", file.MimeType),
			})
			continue
		}
		if file.SizeBytes > s.maxFileSize {
			result.Rejected = append(result.Rejected, FileRejection{
				FileName: file.Name,
				Reason:   fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxFileSize),
			})
			continue
		}

		doc := &Document{
			ID:         uuid.New().String(),
			ClientID:   dto.ClientID,
			FileName:   file.Name,
			FileRef:    file.ContentRef,
			Category:   dto.Category,
			FileSize:   file.SizeBytes,
			FileType:   file.MimeType,
			Status:     StatusUploaded,
			UploadedAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if IsPaymentBearing(dto.Category) {
			doc.PaymentStatus = dto.PaymentStatus
			if dto.PaymentStatus != nil && *dto.PaymentStatus == PaymentStatusPaid {
				doc.PaymentMethod = dto.PaymentMethod
			}
		}
		result.Accepted = append(result.Accepted, doc)
	}

	if len(result.Accepted) > 0 {
		if err := s.repo.CreateBatch(result.Accepted); err != nil {
			s.logger.Error("failed to store document batch", "error", err, "client_id", dto.ClientID)
			return nil, err
		}
	}

	s.logger.Info("document batch submitted",
		"client_id", dto.ClientID,
		"category", dto.Category,
		"accepted", len(result.Accepted),
		"rejected", len(result.Rejected))

	return result, nil
}

// ListByFilter returns documents visible to the actor. Clients see their own
// documents, employees their assigned clients', admins everything. An unset year
// defaults to the current calendar year.
func (s *Service) ListByFilter(actor *auth.User, filter Filter) ([]*Document, error) {
	q := ListQuery{
		ClientID: filter.ClientID,
		Category: filter.Category,
		Month:    int(filter.Month),
		Year:     filter.Year,
	}
	if q.Year == 0 {
		q.Year = time.Now().Year()
	}

	switch {
	case actor.IsClient():
		q.ClientID = actor.ID
	case actor.IsEmployee():
		if q.ClientID != 0 && !actor.ManagesClient(q.ClientID) {
			s.logger.Warn("list denied: employee not assigned to client",
				"actor_id", actor.ID, "client_id", q.ClientID)
			return nil, errors.ErrRoleNotAllowed
		}
		if q.ClientID == 0 {
			if len(actor.AssignedClients) == 0 {
				return []*Document{}, nil
			}
			q.ClientIDs = actor.AssignedClients
		}
	}

	docs, err := s.repo.List(q)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		return nil, err
	}
	return docs, nil
}

// GetByID returns a single document, enforcing the same visibility rules as listing.
func (s *Service) GetByID(actor *auth.User, documentID string) (*Document, error) {
	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, errors.ErrDocumentNotFound
	}

	if actor.IsClient() && doc.ClientID != actor.ID {
		return nil, errors.ErrRoleNotAllowed
	}
	if actor.IsEmployee() && !actor.ManagesClient(doc.ClientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	return doc, nil
}

// MarkProcessed moves a document to registered and announces it. Calling it on an
// already-registered document re-confirms the state without emitting a second event.
func (s *Service) MarkProcessed(actor *auth.User, documentID string) (*Document, error) {
	if !actor.IsStaff() {
		s.logger.Warn("mark processed denied: staff role required", "actor_id", actor.ID, "role", actor.Role)
		return nil, errors.ErrRoleNotAllowed
	}

	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		s.logger.Error("document not found for registration", "error", err, "document_id", documentID)
		return nil, errors.ErrDocumentNotFound
	}

	if actor.IsEmployee() && !actor.ManagesClient(doc.ClientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	if doc.IsRegistered() {
		return doc, nil
	}

	if !doc.CanBeRegistered() {
		s.logger.Warn("cannot register document in current status",
			"document_id", documentID, "status", doc.Status)
		return nil, errors.NewValidationError(
			fmt.Sprintf("document in status %q cannot be registered", doc.Status),
			errors.ErrCodeInvalidDocumentStatus)
	}

	doc.Register(actor.ID)
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to register document", "error", err, "document_id", documentID)
		return nil, err
	}

	s.logger.Info("document registered",
		"document_id", documentID,
		"client_id", doc.ClientID,
		"registered_by", actor.ID)

	event := events.NewDocumentRegisteredEvent(doc.ID, doc.ClientID, doc.FileName, actor.ID)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		// inbox delivery is the subscriber's problem; registration already committed
		s.logger.Error("failed to publish document registered event", "error", err, "document_id", doc.ID)
	}

	return doc, nil
}

// SubmitForApproval moves an uploaded document into the review queue.
func (s *Service) SubmitForApproval(actor *auth.User, documentID string) (*Document, error) {
	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, errors.ErrDocumentNotFound
	}

	if actor.IsClient() && doc.ClientID != actor.ID {
		return nil, errors.ErrRoleNotAllowed
	}
	if actor.IsEmployee() && !actor.ManagesClient(doc.ClientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	if !doc.CanBeSubmittedForApproval() {
		return nil, errors.NewValidationError(
			fmt.Sprintf("document in status %q cannot be submitted for approval", doc.Status),
			errors.ErrCodeInvalidDocumentStatus)
	}

	doc.Status = StatusPendingApproval
	doc.UpdatedAt = time.Now()
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to submit document for approval", "error", err, "document_id", documentID)
		return nil, err
	}

	return doc, nil
}

// Approve records the approver and moves a pending document to approved.
func (s *Service) Approve(actor *auth.User, documentID string) (*Document, error) {
	if !actor.IsStaff() {
		return nil, errors.ErrRoleNotAllowed
	}

	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, errors.ErrDocumentNotFound
	}

	if actor.IsEmployee() && !actor.ManagesClient(doc.ClientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	if !doc.CanBeApproved() {
		return nil, errors.NewValidationError(
			fmt.Sprintf("document in status %q cannot be approved", doc.Status),
			errors.ErrCodeInvalidDocumentStatus)
	}

	doc.Approve(actor.ID)
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to approve document", "error", err, "document_id", documentID)
		return nil, err
	}

	s.logger.Info("document approved", "document_id", documentID, "approved_by", actor.ID)
	return doc, nil
}

// Reject refuses a pending document with a mandatory reason.
func (s *Service) Reject(actor *auth.User, documentID string, dto RejectDocumentDTO) (*Document, error) {
	if !actor.IsStaff() {
		return nil, errors.ErrRoleNotAllowed
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, errors.ErrDocumentNotFound
	}

	if actor.IsEmployee() && !actor.ManagesClient(doc.ClientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	if !doc.CanBeRejected() {
		return nil, errors.NewValidationError(
			fmt.Sprintf("document in status %q cannot be rejected", doc.Status),
			errors.ErrCodeInvalidDocumentStatus)
	}

	doc.Reject(dto.Reason)
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to reject document", "error", err, "document_id", documentID)
		return nil, err
	}

	s.logger.Info("document rejected", "document_id", documentID, "rejected_by", actor.ID, "reason", dto.Reason)
	return doc, nil
}

// AssignEmployee links a document to the employee responsible for it. Admin only.
func (s *Service) AssignEmployee(actor *auth.User, documentID string, dto AssignEmployeeDTO) (*Document, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrRoleNotAllowed
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetByID(documentID)
	if err != nil {
		return nil, errors.ErrDocumentNotFound
	}

	doc.AssignedEmployeeID = &dto.EmployeeID
	doc.UpdatedAt = time.Now()
	if err := s.repo.Update(doc); err != nil {
		s.logger.Error("failed to assign employee to document", "error", err, "document_id", documentID)
		return nil, err
	}

	return doc, nil
}
