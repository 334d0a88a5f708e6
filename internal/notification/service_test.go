package notification_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/albaledger/portal/internal"
	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/core/events"
	"github.com/albaledger/portal/internal/notification"
)

// Mock repository for testing
type mockNotificationRepository struct {
	notifications []*notification.Notification
	createError   error
}

func (m *mockNotificationRepository) Create(n *notification.Notification) error {
	if m.createError != nil {
		return m.createError
	}
	stored := *n
	m.notifications = append(m.notifications, &stored)
	return nil
}

func (m *mockNotificationRepository) GetByID(id string) (*notification.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, notification.ErrNotificationNotFound
}

func (m *mockNotificationRepository) ListByClient(clientID int64) ([]*notification.Notification, error) {
	var result []*notification.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].ClientID == clientID {
			result = append(result, m.notifications[i])
		}
	}
	return result, nil
}

func (m *mockNotificationRepository) CountUnread(clientID int64) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.ClientID == clientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) MarkRead(id string) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (m *mockNotificationRepository) MarkAllRead(clientID int64) error {
	for _, n := range m.notifications {
		if n.ClientID == clientID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepository) HasReminder(clientID int64, deadlineName string, dayStart, dayEnd time.Time) (bool, error) {
	for _, n := range m.notifications {
		if n.ClientID != clientID || n.Kind != notification.KindDeadlineReminder {
			continue
		}
		if n.DeadlineName == nil || *n.DeadlineName != deadlineName {
			continue
		}
		if n.DeadlineAt != nil && !n.DeadlineAt.Before(dayStart) && n.DeadlineAt.Before(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

// Mock client directory for testing
type mockClientDirectory struct {
	ids     []int64
	listErr error
}

func (m *mockClientDirectory) ListClientIDs() ([]int64, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ids, nil
}

// Mock notifier that records deliveries and can fail
type mockNotifier struct {
	delivered []string
	notifyErr error
}

func (m *mockNotifier) Notify(ctx context.Context, n *notification.Notification) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.delivered = append(m.delivered, n.ID)
	return nil
}

var _ = Describe("NotificationService", func() {
	var (
		service  *notification.Service
		mockRepo *mockNotificationRepository
		clients  *mockClientDirectory
		notifier *mockNotifier
		logger   *slog.Logger
		client   *auth.User
		admin    *auth.User
	)

	BeforeEach(func() {
		mockRepo = &mockNotificationRepository{}
		clients = &mockClientDirectory{ids: []int64{2, 3}}
		notifier = &mockNotifier{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = notification.NewService(mockRepo, clients, notifier, logger)

		client = &auth.User{ID: 2, Username: "klient1", Role: auth.RoleClient, IsActive: true}
		admin = &auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin, IsActive: true}
	})

	Describe("EvaluateDeadlines", func() {
		// March 18: two days before the VAT filing on the 20th, outside the
		// windows of the other two deadlines.
		now := time.Date(2026, time.March, 18, 9, 0, 0, 0, time.UTC)

		It("should create one reminder per client for a due deadline", func() {
			created, err := service.EvaluateDeadlines(context.Background(), now)

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(2))
			Expect(mockRepo.notifications).To(HaveLen(2))

			first := mockRepo.notifications[0]
			Expect(first.Kind).To(Equal(notification.KindDeadlineReminder))
			Expect(first.Title).To(ContainSubstring("Paralajmërim"))
			Expect(first.Message).To(ContainSubstring("2 ditë"))
			Expect(*first.DeadlineName).To(Equal("tvsh"))
			Expect(first.DeadlineAt.Day()).To(Equal(20))
		})

		It("should not duplicate reminders on a second pass", func() {
			_, err := service.EvaluateDeadlines(context.Background(), now)
			Expect(err).ToNot(HaveOccurred())

			created, err := service.EvaluateDeadlines(context.Background(), now.Add(2*time.Hour))

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(BeZero())
			Expect(mockRepo.notifications).To(HaveLen(2))
		})

		It("should fire again for the next month's occurrence", func() {
			_, err := service.EvaluateDeadlines(context.Background(), now)
			Expect(err).ToNot(HaveOccurred())

			nextMonth := time.Date(2026, time.April, 18, 9, 0, 0, 0, time.UTC)
			created, err := service.EvaluateDeadlines(context.Background(), nextMonth)

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(2))
			Expect(mockRepo.notifications).To(HaveLen(4))
		})

		It("should create nothing outside every lead window", func() {
			quiet := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

			created, err := service.EvaluateDeadlines(context.Background(), quiet)

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(BeZero())
		})

		It("should push reminders through the notifier", func() {
			_, err := service.EvaluateDeadlines(context.Background(), now)

			Expect(err).ToNot(HaveOccurred())
			Expect(notifier.delivered).To(HaveLen(2))
		})

		It("should still store the inbox entry when the push fails", func() {
			notifier.notifyErr = context.DeadlineExceeded

			created, err := service.EvaluateDeadlines(context.Background(), now)

			Expect(err).ToNot(HaveOccurred())
			Expect(created).To(Equal(2))
			Expect(mockRepo.notifications).To(HaveLen(2))
		})
	})

	Describe("document registered subscription", func() {
		It("should add a processed notification to the client's inbox", func() {
			bus := events.NewEventBus(logger)
			service.RegisterEventHandlers(bus)

			event := events.NewDocumentRegisteredEvent("doc1", 2, "fatura.pdf", 1)
			err := bus.PublishSync(context.Background(), event)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.notifications).To(HaveLen(1))

			n := mockRepo.notifications[0]
			Expect(n.ClientID).To(Equal(int64(2)))
			Expect(n.Kind).To(Equal(notification.KindDocumentProcessed))
			Expect(n.Message).To(ContainSubstring("fatura.pdf"))
			Expect(*n.DocumentID).To(Equal("doc1"))
			Expect(n.IsRead).To(BeFalse())
		})
	})

	Describe("inbox operations", func() {
		BeforeEach(func() {
			_, err := service.AddNotification(context.Background(), &notification.Notification{
				ClientID: 2,
				Kind:     notification.KindDocumentProcessed,
				Title:    "Dokumenti u Regjistrua",
				Message:  "Dokumenti u regjistrua",
			})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.AddNotification(context.Background(), &notification.Notification{
				ClientID: 3,
				Kind:     notification.KindDocumentProcessed,
				Title:    "Dokumenti u Regjistrua",
				Message:  "Dokumenti u regjistrua",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should show clients only their own inbox", func() {
			items, err := service.ListForClient(client, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ClientID).To(Equal(int64(2)))
		})

		It("should let admins read any inbox", func() {
			items, err := service.ListForClient(admin, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ClientID).To(Equal(int64(3)))
		})

		It("should count unread entries", func() {
			count, err := service.UnreadCount(client, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("should mark a notification read idempotently", func() {
			id := mockRepo.notifications[0].ID

			Expect(service.MarkRead(client, id)).To(Succeed())
			Expect(service.MarkRead(client, id)).To(Succeed())

			count, err := service.UnreadCount(client, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should deny reading another client's notification", func() {
			otherID := mockRepo.notifications[1].ID

			err := service.MarkRead(client, otherID)

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})

		It("should return not found for unknown notifications", func() {
			err := service.MarkRead(client, "missing")

			Expect(err).To(Equal(apperrors.ErrNotificationNotFound))
		})

		It("should mark the whole inbox read", func() {
			_, err := service.AddNotification(context.Background(), &notification.Notification{
				ClientID: 2,
				Kind:     notification.KindDeadlineReminder,
				Title:    "Paralajmërim",
				Message:  "Afat",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.MarkAllRead(client)).To(Succeed())

			count, err := service.UnreadCount(client, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should restrict mark-all-read to clients", func() {
			err := service.MarkAllRead(admin)

			Expect(err).To(Equal(apperrors.ErrRoleNotAllowed))
		})
	})
})
