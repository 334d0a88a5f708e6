package notification

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

// Repository defines the data access methods for notifications
type Repository interface {
	Create(n *Notification) error
	GetByID(id string) (*Notification, error)
	ListByClient(clientID int64) ([]*Notification, error)
	CountUnread(clientID int64) (int64, error)
	MarkRead(id string) error
	MarkAllRead(clientID int64) error
	HasReminder(clientID int64, deadlineName string, dayStart, dayEnd time.Time) (bool, error)
}

// ClientDirectory lists the clients whose deadlines get evaluated.
type ClientDirectory interface {
	ListClientIDs() ([]int64, error)
}

// Service maintains per-client inboxes and runs the deadline calendar.
type Service struct {
	repo      Repository
	clients   ClientDirectory
	notifier  Notifier
	deadlines []Deadline
	logger    *slog.Logger
}

func NewService(repo Repository, clients ClientDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		clients:   clients,
		notifier:  notifier,
		deadlines: DefaultDeadlines,
		logger:    logger,
	}
}

// RegisterEventHandlers wires inbox delivery to domain events.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeDocumentRegistered, s.handleDocumentRegistered)
}

func (s *Service) handleDocumentRegistered(ctx context.Context, event events.Event) error {
	registered, ok := event.(*events.DocumentRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for event %s", event.EventType())
	}

	n := &Notification{
		ClientID:   registered.ClientID,
		Kind:       KindDocumentProcessed,
		Title:      "Dokumenti u Regjistrua",
		Message:    fmt.Sprintf("Dokumenti %q është regjistruar me sukses nga kontabilisti.", registered.FileName),
		DocumentID: &registered.DocumentID,
	}
	_, err := s.AddNotification(ctx, n)
	return err
}

// AddNotification stores an inbox entry and pushes it through the notifier.
// Push failures are logged and swallowed; the inbox write is what counts.
func (s *Service) AddNotification(ctx context.Context, n *Notification) (*Notification, error) {
	n.ID = uuid.New().String()
	n.IsRead = false
	n.CreatedAt = time.Now()

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to store notification",
			"error", err, "client_id", n.ClientID, "kind", n.Kind)
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.Warn("notification push failed",
				"error", err, "notification_id", n.ID, "client_id", n.ClientID)
		}
	}

	return n, nil
}

// ListForClient returns a client's inbox, most recent first.
func (s *Service) ListForClient(actor *auth.User, clientID int64) ([]*Notification, error) {
	if actor.IsClient() {
		clientID = actor.ID
	}
	if clientID <= 0 {
		return nil, errors.NewValidationFieldError("client_id", "client_id is required", errors.ErrCodeValidationFailed)
	}
	if actor.IsEmployee() && !actor.ManagesClient(clientID) {
		return nil, errors.ErrRoleNotAllowed
	}

	items, err := s.repo.ListByClient(clientID)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "client_id", clientID)
		return nil, err
	}
	return items, nil
}

// UnreadCount returns the number of unread entries in a client's inbox.
func (s *Service) UnreadCount(actor *auth.User, clientID int64) (int64, error) {
	if actor.IsClient() {
		clientID = actor.ID
	}
	if clientID <= 0 {
		return 0, errors.NewValidationFieldError("client_id", "client_id is required", errors.ErrCodeValidationFailed)
	}
	if actor.IsEmployee() && !actor.ManagesClient(clientID) {
		return 0, errors.ErrRoleNotAllowed
	}
	return s.repo.CountUnread(clientID)
}

// MarkRead flags one notification as read. Re-marking a read notification is a no-op.
func (s *Service) MarkRead(actor *auth.User, notificationID string) error {
	n, err := s.repo.GetByID(notificationID)
	if err != nil {
		return errors.ErrNotificationNotFound
	}

	if actor.IsClient() && n.ClientID != actor.ID {
		return errors.ErrRoleNotAllowed
	}
	if actor.IsEmployee() && !actor.ManagesClient(n.ClientID) {
		return errors.ErrRoleNotAllowed
	}

	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(notificationID)
}

// MarkAllRead flags every entry in the actor's own inbox as read.
func (s *Service) MarkAllRead(actor *auth.User) error {
	if !actor.IsClient() {
		return errors.ErrRoleNotAllowed
	}
	return s.repo.MarkAllRead(actor.ID)
}

// EvaluateDeadlines runs one pass of the filing calendar for every client and
// returns the number of reminders created. A reminder fires once per client per
// deadline occurrence; re-running the pass on the same day creates nothing new.
func (s *Service) EvaluateDeadlines(ctx context.Context, now time.Time) (int, error) {
	clientIDs, err := s.clients.ListClientIDs()
	if err != nil {
		s.logger.Error("failed to list clients for deadline evaluation", "error", err)
		return 0, err
	}

	created := 0
	for _, deadline := range s.deadlines {
		occurrence, days, due := deadline.ReminderDue(now)
		if !due {
			continue
		}

		dayStart, dayEnd := DayBounds(occurrence)
		for _, clientID := range clientIDs {
			exists, err := s.repo.HasReminder(clientID, deadline.Name, dayStart, dayEnd)
			if err != nil {
				s.logger.Error("reminder lookup failed",
					"error", err, "client_id", clientID, "deadline", deadline.Name)
				continue
			}
			if exists {
				continue
			}

			name := deadline.Name
			occ := occurrence
			n := &Notification{
				ClientID:     clientID,
				Kind:         KindDeadlineReminder,
				Title:        fmt.Sprintf("Paralajmërim: %s", deadline.Label),
				Message:      fmt.Sprintf("%s - Afati: %s (%d ditë të mbetura)", deadline.Description, occurrence.Format("02.01.2006"), days),
				DeadlineName: &name,
				DeadlineAt:   &occ,
			}
			if _, err := s.AddNotification(ctx, n); err != nil {
				continue
			}
			created++
		}
	}

	if created > 0 {
		s.logger.Info("deadline reminders created", "count", created)
	}
	return created, nil
}

// Deadlines exposes the active filing calendar.
func (s *Service) Deadlines() []Deadline {
	return s.deadlines
}
