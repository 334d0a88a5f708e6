package document_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/albaledger/portal/internal"
	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/core/events"
	"github.com/albaledger/portal/internal/document"
)

func TestDocumentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DocumentService Suite")
}

// Mock repository for testing
type mockDocumentRepository struct {
	documents   map[string]*document.Document
	createError error
	getError    error
	updateError error
	lastQuery   document.ListQuery
}

func newMockDocumentRepository() *mockDocumentRepository {
	return &mockDocumentRepository{
		documents: make(map[string]*document.Document),
	}
}

func (m *mockDocumentRepository) CreateBatch(docs []*document.Document) error {
	if m.createError != nil {
		return m.createError
	}
	for _, d := range docs {
		m.documents[d.ID] = d
	}
	return nil
}

func (m *mockDocumentRepository) GetByID(id string) (*document.Document, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	doc, exists := m.documents[id]
	if !exists {
		return nil, document.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockDocumentRepository) List(q document.ListQuery) ([]*document.Document, error) {
	m.lastQuery = q
	var result []*document.Document
	for _, d := range m.documents {
		if q.ClientID != 0 && d.ClientID != q.ClientID {
			continue
		}
		if len(q.ClientIDs) > 0 {
			found := false
			for _, id := range q.ClientIDs {
				if d.ClientID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if q.Category != "" && d.Category != q.Category {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (m *mockDocumentRepository) Update(doc *document.Document) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.documents[doc.ID] = doc
	return nil
}

// Mock event publisher for testing
type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func strPtr(s string) *string {
	return &s
}

var _ = Describe("DocumentService", func() {
	var (
		service   *document.Service
		mockRepo  *mockDocumentRepository
		mockBus   *mockEventPublisher
		logger    *slog.Logger
		admin     *auth.User
		client    *auth.User
		employee  *auth.User
	)

	BeforeEach(func() {
		mockRepo = newMockDocumentRepository()
		mockBus = &mockEventPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = document.NewService(mockRepo, mockBus, logger, document.MaxFileSizeBytes)

		admin = &auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin, IsActive: true}
		client = &auth.User{ID: 2, Username: "klient1", Role: auth.RoleClient, IsActive: true}
		employee = &auth.User{ID: 4, Username: "employee1", Role: auth.RoleEmployee, AssignedClients: []int64{2}, IsActive: true}
	})

	Describe("Submit", func() {
		Context("when submitting a valid batch", func() {
			It("should accept all files and store them as uploaded", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID:      2,
					Category:      document.CategoryKthim,
					Files: []document.FileMetadata{
						{Name: "fatura1.pdf", MimeType: "application/pdf", SizeBytes: 1024},
						{Name: "fatura2.jpg", MimeType: "image/jpeg", SizeBytes: 2048},
					},
				}

				result, err := service.Submit(client, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Accepted).To(HaveLen(2))
				Expect(result.Rejected).To(BeEmpty())
				Expect(result.Accepted[0].Status).To(Equal(document.StatusUploaded))
				Expect(result.Accepted[0].ID).ToNot(BeEmpty())
				Expect(mockRepo.documents).To(HaveLen(2))
			})
		})

		Context("when some files are invalid", func() {
			It("should keep the good files and report the bad ones", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID: 2,
					Category: document.CategoryKthim,
					Files: []document.FileMetadata{
						{Name: "ok.pdf", MimeType: "application/pdf", SizeBytes: 1024},
						{Name: "virus.exe", MimeType: "application/octet-stream", SizeBytes: 1024},
						{Name: "huge.pdf", MimeType: "application/pdf", SizeBytes: document.MaxFileSizeBytes + 1},
					},
				}

				result, err := service.Submit(client, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Accepted).To(HaveLen(1))
				Expect(result.Rejected).To(HaveLen(2))
				Expect(result.Rejected[0].FileName).To(Equal("virus.exe"))
				Expect(result.Rejected[1].FileName).To(Equal("huge.pdf"))
				Expect(mockRepo.documents).To(HaveLen(1))
			})
		})

		Context("when the category carries payment information", func() {
			It("should reject the batch when payment_status is missing", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID: 2,
					Category: document.CategoryShpenzime,
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				_, err := service.Submit(client, dto)

				Expect(err).To(HaveOccurred())
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			})

			It("should require payment_method when status is paid", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID:      2,
					Category:      document.CategoryBlerje,
					PaymentStatus: strPtr(document.PaymentStatusPaid),
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				_, err := service.Submit(client, dto)

				Expect(err).To(HaveOccurred())
			})

			It("should store payment fields on accepted documents", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID:      2,
					Category:      document.CategoryBlerje,
					PaymentStatus: strPtr(document.PaymentStatusPaid),
					PaymentMethod: strPtr(document.PaymentMethodBank),
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				result, err := service.Submit(client, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Accepted).To(HaveLen(1))
				Expect(*result.Accepted[0].PaymentStatus).To(Equal(document.PaymentStatusPaid))
				Expect(*result.Accepted[0].PaymentMethod).To(Equal(document.PaymentMethodBank))
			})

			It("should accept a debt batch without payment_method", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID:      2,
					Category:      document.CategoryImport,
					PaymentStatus: strPtr(document.PaymentStatusDebt),
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				result, err := service.Submit(client, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Accepted).To(HaveLen(1))
				Expect(result.Accepted[0].PaymentMethod).To(BeNil())
			})
		})

		Context("when a client submits for another client", func() {
			It("should deny the submission", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID: 3,
					Category: document.CategoryKthim,
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				_, err := service.Submit(client, dto)

				Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
			})
		})

		Context("when the category is unknown", func() {
			It("should fail validation", func() {
				dto := document.SubmitDocumentsDTO{
					ClientID: 2,
					Category: "random",
					Files: []document.FileMetadata{
						{Name: "fatura.pdf", MimeType: "application/pdf", SizeBytes: 1024},
					},
				}

				_, err := service.Submit(client, dto)

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListByFilter", func() {
		BeforeEach(func() {
			mockRepo.documents["a"] = &document.Document{ID: "a", ClientID: 2, Category: document.CategoryKthim, Status: document.StatusUploaded}
			mockRepo.documents["b"] = &document.Document{ID: "b", ClientID: 3, Category: document.CategoryKthim, Status: document.StatusUploaded}
		})

		It("should default to the current year when unset", func() {
			_, err := service.ListByFilter(admin, document.Filter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastQuery.Year).To(Equal(time.Now().Year()))
		})

		It("should scope clients to their own documents", func() {
			docs, err := service.ListByFilter(client, document.Filter{ClientID: 3})

			Expect(err).ToNot(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].ClientID).To(Equal(int64(2)))
		})

		It("should scope employees to their assigned clients", func() {
			docs, err := service.ListByFilter(employee, document.Filter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].ClientID).To(Equal(int64(2)))
		})

		It("should deny employees asking for an unassigned client", func() {
			_, err := service.ListByFilter(employee, document.Filter{ClientID: 3})

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})

		It("should let admins see every client", func() {
			docs, err := service.ListByFilter(admin, document.Filter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(docs).To(HaveLen(2))
		})
	})

	Describe("MarkProcessed", func() {
		BeforeEach(func() {
			mockRepo.documents["doc1"] = &document.Document{
				ID:       "doc1",
				ClientID: 2,
				FileName: "fatura.pdf",
				Category: document.CategoryKthim,
				Status:   document.StatusUploaded,
			}
		})

		It("should register an uploaded document and publish an event", func() {
			doc, err := service.MarkProcessed(admin, "doc1")

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusRegistered))
			Expect(doc.RegisteredBy).ToNot(BeNil())
			Expect(*doc.RegisteredBy).To(Equal(admin.ID))
			Expect(doc.RegisteredAt).ToNot(BeNil())
			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.EventTypeDocumentRegistered))
		})

		It("should not publish a second event when already registered", func() {
			_, err := service.MarkProcessed(admin, "doc1")
			Expect(err).ToNot(HaveOccurred())

			doc, err := service.MarkProcessed(admin, "doc1")

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusRegistered))
			Expect(mockBus.published).To(HaveLen(1))
		})

		It("should deny clients", func() {
			_, err := service.MarkProcessed(client, "doc1")

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})

		It("should deny employees not assigned to the document's client", func() {
			other := &auth.User{ID: 5, Role: auth.RoleEmployee, AssignedClients: []int64{9}, IsActive: true}

			_, err := service.MarkProcessed(other, "doc1")

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})

		It("should allow assigned employees", func() {
			doc, err := service.MarkProcessed(employee, "doc1")

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusRegistered))
		})

		It("should refuse documents in a non-registrable status", func() {
			mockRepo.documents["doc1"].Status = document.StatusRejected

			_, err := service.MarkProcessed(admin, "doc1")

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidDocumentStatus))
		})

		It("should return not found for unknown documents", func() {
			_, err := service.MarkProcessed(admin, "missing")

			Expect(err).To(Equal(apperrors.ErrDocumentNotFound))
		})
	})

	Describe("approval lifecycle", func() {
		BeforeEach(func() {
			mockRepo.documents["doc1"] = &document.Document{
				ID:       "doc1",
				ClientID: 2,
				FileName: "fatura.pdf",
				Category: document.CategoryKthim,
				Status:   document.StatusUploaded,
			}
		})

		It("should walk uploaded through approval to registered", func() {
			doc, err := service.SubmitForApproval(client, "doc1")
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusPendingApproval))

			doc, err = service.Approve(admin, "doc1")
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusApproved))
			Expect(*doc.ApprovedBy).To(Equal(admin.ID))

			doc, err = service.MarkProcessed(admin, "doc1")
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusRegistered))
		})

		It("should require a reason for rejection", func() {
			_, err := service.SubmitForApproval(client, "doc1")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(admin, "doc1", document.RejectDocumentDTO{})

			Expect(err).To(HaveOccurred())
		})

		It("should record the rejection reason", func() {
			_, err := service.SubmitForApproval(client, "doc1")
			Expect(err).ToNot(HaveOccurred())

			doc, err := service.Reject(admin, "doc1", document.RejectDocumentDTO{Reason: "faturë e palexueshme"})

			Expect(err).ToNot(HaveOccurred())
			Expect(doc.Status).To(Equal(document.StatusRejected))
			Expect(*doc.RejectionReason).To(Equal("faturë e palexueshme"))
		})

		It("should not approve a document that is not pending", func() {
			_, err := service.Approve(admin, "doc1")

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AssignEmployee", func() {
		BeforeEach(func() {
			mockRepo.documents["doc1"] = &document.Document{
				ID:       "doc1",
				ClientID: 2,
				Status:   document.StatusUploaded,
			}
		})

		It("should let admins assign an employee", func() {
			doc, err := service.AssignEmployee(admin, "doc1", document.AssignEmployeeDTO{EmployeeID: 4})

			Expect(err).ToNot(HaveOccurred())
			Expect(*doc.AssignedEmployeeID).To(Equal(int64(4)))
		})

		It("should deny employees", func() {
			_, err := service.AssignEmployee(employee, "doc1", document.AssignEmployeeDTO{EmployeeID: 4})

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})
	})
})
