package notification

import (
	"errors"
	"time"

	notificationDatamodel "github.com/albaledger/portal/internal/core/datamodel/notification"
)

// Notification kinds delivered to client inboxes.
const (
	KindDocumentProcessed = "document_processed"
	KindDeadlineReminder  = "deadline_reminder"
)

// Notification is one inbox entry for a client.
type Notification struct {
	ID           string     `json:"id"`
	ClientID     int64      `json:"client_id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	DocumentID   *string    `json:"document_id,omitempty"`
	DeadlineName *string    `json:"deadline_name,omitempty"`
	DeadlineAt   *time.Time `json:"deadline_at,omitempty"`
	IsRead       bool       `json:"is_read"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Deadline is one recurring monthly filing obligation.
type Deadline struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	Description string `json:"description"`
	MonthlyDay  int    `json:"monthly_day"`
	LeadDays    int    `json:"lead_days"`
}

// DefaultDeadlines is the built-in filing calendar. Each entry recurs on the
// same day of every month.
var DefaultDeadlines = []Deadline{
	{
		Name:        "tvsh",
		Label:       "Deklarimi i TVSH-së",
		Category:    "tvsh",
		Description: "Afati për deklarimin e TVSH-së",
		MonthlyDay:  20,
		LeadDays:    3,
	},
	{
		Name:        "pagat",
		Label:       "Dorëzimi i Pagave",
		Category:    "shpenzime",
		Description: "Afati për dorëzimin e pagave",
		MonthlyDay:  15,
		LeadDays:    2,
	},
	{
		Name:        "blerje",
		Label:       "Deklarimi i Blerjeve",
		Category:    "blerje",
		Description: "Afati për deklarimin e blerjeve",
		MonthlyDay:  25,
		LeadDays:    3,
	},
}

// Domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:           n.ID,
		ClientID:     n.ClientID,
		Kind:         n.Kind,
		Title:        n.Title,
		Message:      n.Message,
		DocumentID:   n.DocumentID,
		DeadlineName: n.DeadlineName,
		DeadlineAt:   n.DeadlineAt,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:           n.ID,
		ClientID:     n.ClientID,
		Kind:         n.Kind,
		Title:        n.Title,
		Message:      n.Message,
		DocumentID:   n.DocumentID,
		DeadlineName: n.DeadlineName,
		DeadlineAt:   n.DeadlineAt,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

func FromDataModelSlice(items []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(items))
	for i, n := range items {
		result[i] = FromDataModel(n)
	}
	return result
}
