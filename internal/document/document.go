package document

import (
	"errors"
	"strings"
	"time"

	documentDatamodel "github.com/albaledger/portal/internal/core/datamodel/document"
)

// Document categories. Four of them carry payment information at submission time.
const (
	CategoryShpenzime   = "shpenzime"
	CategoryBlerje      = "blerje"
	CategoryImport      = "import"
	CategoryExport      = "export"
	CategoryNoteDebiti  = "note_debiti"
	CategoryKthim       = "kthim"
	CategoryNoteKrediti = "note_krediti"
)

var CategoryLabels = map[string]string{
	CategoryShpenzime:   "Shpenzime",
	CategoryBlerje:      "Blerje",
	CategoryImport:      "Import",
	CategoryExport:      "Export",
	CategoryNoteDebiti:  "Notë Debiti",
	CategoryKthim:       "Kthim",
	CategoryNoteKrediti: "Notë Krediti",
}

var paymentBearingCategories = map[string]bool{
	CategoryShpenzime: true,
	CategoryBlerje:    true,
	CategoryImport:    true,
	CategoryExport:    true,
}

func IsValidCategory(category string) bool {
	_, ok := CategoryLabels[category]
	return ok
}

func IsPaymentBearing(category string) bool {
	return paymentBearingCategories[category]
}

const (
	PaymentStatusPaid = "paid"
	PaymentStatusDebt = "debt"

	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"
)

const (
	StatusUploaded        = "uploaded"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusRegistered      = "registered"
)

// MaxFileSizeBytes is the per-file ceiling (10 MiB).
const MaxFileSizeBytes = 10 * 1024 * 1024

type Document struct {
	ID                 string     `json:"id"`
	ClientID           int64      `json:"client_id"`
	FileName           string     `json:"file_name"`
	FileRef            string     `json:"file_ref"`
	Category           string     `json:"category"`
	FileSize           int64      `json:"file_size"`
	FileType           string     `json:"file_type"`
	Status             string     `json:"status"`
	PaymentStatus      *string    `json:"payment_status,omitempty"`
	PaymentMethod      *string    `json:"payment_method,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	AssignedEmployeeID *int64     `json:"assigned_employee_id,omitempty"`
	ApprovedBy         *int64     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	RegisteredBy       *int64     `json:"registered_by,omitempty"`
	RegisteredAt       *time.Time `json:"registered_at,omitempty"`
	UploadedAt         time.Time  `json:"uploaded_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (d *Document) IsRegistered() bool {
	return d.Status == StatusRegistered
}

func (d *Document) CanBeSubmittedForApproval() bool {
	return d.Status == StatusUploaded
}

func (d *Document) CanBeApproved() bool {
	return d.Status == StatusPendingApproval
}

func (d *Document) CanBeRejected() bool {
	return d.Status == StatusPendingApproval
}

// CanBeRegistered covers both the direct uploaded→registered shortcut used by the
// admin review surface and the registered step after explicit approval.
func (d *Document) CanBeRegistered() bool {
	return d.Status == StatusUploaded || d.Status == StatusApproved
}

func (d *Document) Approve(approverID int64) {
	now := time.Now()
	d.Status = StatusApproved
	d.ApprovedBy = &approverID
	d.ApprovedAt = &now
	d.UpdatedAt = now
}

func (d *Document) Reject(reason string) {
	d.Status = StatusRejected
	d.RejectionReason = &reason
	d.UpdatedAt = time.Now()
}

func (d *Document) Register(registrarID int64) {
	now := time.Now()
	d.Status = StatusRegistered
	d.RegisteredBy = &registrarID
	d.RegisteredAt = &now
	d.UpdatedAt = now
}

// IsAcceptedFileType reports whether the declared MIME type is an image or a PDF.
func IsAcceptedFileType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// Domain errors
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidStatus    = errors.New("invalid document status for this operation")
	ErrAccessDenied     = errors.New("access to document denied")
)

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		FileName:           d.FileName,
		FileRef:            d.FileRef,
		Category:           d.Category,
		FileSize:           d.FileSize,
		FileType:           d.FileType,
		Status:             d.Status,
		PaymentStatus:      d.PaymentStatus,
		PaymentMethod:      d.PaymentMethod,
		RejectionReason:    d.RejectionReason,
		AssignedEmployeeID: d.AssignedEmployeeID,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		RegisteredBy:       d.RegisteredBy,
		RegisteredAt:       d.RegisteredAt,
		UploadedAt:         d.UploadedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func FromDataModel(d *documentDatamodel.Document) *Document {
	return &Document{
		ID:                 d.ID,
		ClientID:           d.ClientID,
		FileName:           d.FileName,
		FileRef:            d.FileRef,
		Category:           d.Category,
		FileSize:           d.FileSize,
		FileType:           d.FileType,
		Status:             d.Status,
		PaymentStatus:      d.PaymentStatus,
		PaymentMethod:      d.PaymentMethod,
		RejectionReason:    d.RejectionReason,
		AssignedEmployeeID: d.AssignedEmployeeID,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		RegisteredBy:       d.RegisteredBy,
		RegisteredAt:       d.RegisteredAt,
		UploadedAt:         d.UploadedAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func FromDataModelSlice(docs []*documentDatamodel.Document) []*Document {
	result := make([]*Document, len(docs))
	for i, d := range docs {
		result[i] = FromDataModel(d)
	}
	return result
}
