package notification

import "time"

type Notification struct {
	ID         string     `gorm:"primaryKey"`
	ClientID   int64      `gorm:"column:client_id;not null;index"`
	Kind       string     `gorm:"column:kind;not null"`
	Title      string     `gorm:"column:title;not null"`
	Message    string     `gorm:"column:message;not null"`
	DocumentID   *string    `gorm:"column:document_id"`
	DeadlineName *string    `gorm:"column:deadline_name;index"`
	DeadlineAt   *time.Time `gorm:"column:deadline_at"`
	IsRead     bool       `gorm:"column:is_read;default:false"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
