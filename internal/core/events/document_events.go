package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDocumentRegistered = "document.registered"
)

type DocumentRegisteredEvent struct {
	BaseEvent
	DocumentID   string `json:"document_id"`
	ClientID     int64  `json:"client_id"`
	FileName     string `json:"file_name"`
	RegisteredBy int64  `json:"registered_by"`
}

func NewDocumentRegisteredEvent(documentID string, clientID int64, fileName string, registeredBy int64) *DocumentRegisteredEvent {
	return &DocumentRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDocumentRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"document_id":   documentID,
				"client_id":     clientID,
				"file_name":     fileName,
				"registered_by": registeredBy,
			},
		},
		DocumentID:   documentID,
		ClientID:     clientID,
		FileName:     fileName,
		RegisteredBy: registeredBy,
	}
}
