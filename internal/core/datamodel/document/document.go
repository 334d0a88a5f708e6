package document

import "time"

type Document struct {
	ID                 string     `gorm:"primaryKey"`
	ClientID           int64      `gorm:"column:client_id;not null;index"`
	FileName           string     `gorm:"column:file_name;not null"`
	FileRef            string     `gorm:"column:file_ref;not null"`
	Category           string     `gorm:"column:category;not null;index"`
	FileSize           int64      `gorm:"column:file_size;not null"`
	FileType           string     `gorm:"column:file_type;not null"`
	Status             string     `gorm:"column:status;default:uploaded"`
	PaymentStatus      *string    `gorm:"column:payment_status"`
	PaymentMethod      *string    `gorm:"column:payment_method"`
	RejectionReason    *string    `gorm:"column:rejection_reason"`
	AssignedEmployeeID *int64     `gorm:"column:assigned_employee_id"`
	ApprovedBy         *int64     `gorm:"column:approved_by"`
	ApprovedAt         *time.Time `gorm:"column:approved_at"`
	RegisteredBy       *int64     `gorm:"column:registered_by"`
	RegisteredAt       *time.Time `gorm:"column:registered_at"`
	UploadedAt         time.Time  `gorm:"column:uploaded_at;index"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
