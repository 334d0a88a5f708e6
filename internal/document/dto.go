package document

import (
	"fmt"
	"time"

	errors "github.com/albaledger/portal/internal"
)

// FileMetadata describes one file in a submission batch. The content itself is
// opaque to the registry; ContentRef points at wherever the bytes live.
type FileMetadata struct {
	Name       string `json:"name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	ContentRef string `json:"content_ref"`
}

// SubmitDocumentsDTO is the request payload for submitting a batch of documents.
type SubmitDocumentsDTO struct {
	ClientID      int64          `json:"client_id"`
	Category      string         `json:"category"`
	PaymentStatus *string        `json:"payment_status,omitempty"`
	PaymentMethod *string        `json:"payment_method,omitempty"`
	Files         []FileMetadata `json:"files"`
}

// Validate checks the batch-level constraints. Per-file type/size checks happen in
// the service so that one bad file does not sink its siblings.
func (dto SubmitDocumentsDTO) Validate() error {
	if dto.ClientID <= 0 {
		return errors.NewValidationFieldError("client_id", "client_id is required", errors.ErrCodeValidationFailed)
	}
	if !IsValidCategory(dto.Category) {
		return errors.NewValidationFieldError("category",
			fmt.Sprintf("unknown category %q", dto.Category), errors.ErrCodeInvalidCategory)
	}
	if len(dto.Files) == 0 {
		return errors.NewValidationFieldError("files", "at least one file is required", errors.ErrCodeValidationFailed)
	}

	if IsPaymentBearing(dto.Category) {
		if dto.PaymentStatus == nil || *dto.PaymentStatus == "" {
			return errors.NewValidationFieldError("payment_status",
				"payment_status is required for this category", errors.ErrCodeMissingPayment)
		}
		if *dto.PaymentStatus != PaymentStatusPaid && *dto.PaymentStatus != PaymentStatusDebt {
			return errors.NewValidationFieldError("payment_status",
				fmt.Sprintf("payment_status must be %q or %q", PaymentStatusPaid, PaymentStatusDebt),
				errors.ErrCodeMissingPayment)
		}
		if *dto.PaymentStatus == PaymentStatusPaid {
			if dto.PaymentMethod == nil || *dto.PaymentMethod == "" {
				return errors.NewValidationFieldError("payment_method",
					"payment_method is required when payment_status is paid", errors.ErrCodeMissingPayment)
			}
			if *dto.PaymentMethod != PaymentMethodCash && *dto.PaymentMethod != PaymentMethodBank {
				return errors.NewValidationFieldError("payment_method",
					fmt.Sprintf("payment_method must be %q or %q", PaymentMethodCash, PaymentMethodBank),
					errors.ErrCodeMissingPayment)
			}
		}
	}

	return nil
}

// FileRejection reports one file excluded from a batch, with the reason.
type FileRejection struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// SubmitResult carries the partial-success outcome of a batch submission.
type SubmitResult struct {
	Accepted []*Document     `json:"accepted"`
	Rejected []FileRejection `json:"rejected,omitempty"`
}

// Filter narrows document listings. Zero values mean "all", except Year which
// defaults to the current calendar year when unset.
type Filter struct {
	ClientID int64
	Category string
	Month    time.Month
	Year     int
}

// RejectDocumentDTO is the request payload for rejecting a document.
type RejectDocumentDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectDocumentDTO) Validate() error {
	if dto.Reason == "" {
		return errors.NewValidationFieldError("reason",
			"reason is required when rejecting a document", errors.ErrCodeMissingReason)
	}
	return nil
}

// AssignEmployeeDTO assigns an employee to a document.
type AssignEmployeeDTO struct {
	EmployeeID int64 `json:"employee_id"`
}

func (dto AssignEmployeeDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.NewValidationFieldError("employee_id", "employee_id is required", errors.ErrCodeValidationFailed)
	}
	return nil
}
