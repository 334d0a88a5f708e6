package postgres

import (
	"time"

	notificationDatamodel "github.com/albaledger/portal/internal/core/datamodel/notification"
	"github.com/albaledger/portal/internal/notification"
	"gorm.io/gorm"
)

// NotificationRepository implements the notification.Repository interface using GORM
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(notification.ToDataModel(n)).Error
}

func (r *NotificationRepository) GetByID(id string) (*notification.Notification, error) {
	var model notificationDatamodel.Notification
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}
	return notification.FromDataModel(&model), nil
}

func (r *NotificationRepository) ListByClient(clientID int64) ([]*notification.Notification, error) {
	var models []*notificationDatamodel.Notification
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(models), nil
}

func (r *NotificationRepository) CountUnread(clientID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("client_id = ? AND is_read = ?", clientID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id string) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(clientID int64) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("client_id = ? AND is_read = ?", clientID, false).
		Update("is_read", true).Error
}

// HasReminder reports whether a reminder for this deadline occurrence already
// exists, at day granularity.
func (r *NotificationRepository) HasReminder(clientID int64, deadlineName string, dayStart, dayEnd time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("client_id = ? AND kind = ? AND deadline_name = ?", clientID, notification.KindDeadlineReminder, deadlineName).
		Where("deadline_at >= ? AND deadline_at < ?", dayStart, dayEnd).
		Count(&count).Error
	return count > 0, err
}
