package employee

import "time"

type Employee struct {
	ID                 int64     `gorm:"primaryKey"`
	Name               string    `gorm:"column:name;not null"`
	Username           string    `gorm:"column:username;uniqueIndex;not null"`
	Email              string    `gorm:"column:email;not null"`
	Phone              *string   `gorm:"column:phone"`
	AssignedClients    string    `gorm:"column:assigned_clients;default:'[]'"`
	IsActive           bool      `gorm:"column:is_active;default:true"`
	DocumentsProcessed *int      `gorm:"column:documents_processed"`
	AvgProcessingHours *float64  `gorm:"column:avg_processing_hours"`
	SatisfactionScore  *float64  `gorm:"column:satisfaction_score"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
