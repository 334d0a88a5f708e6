package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	notificationDatamodel "github.com/albaledger/portal/internal/core/datamodel/notification"
	"github.com/albaledger/portal/internal/notification"
)

func TestNotificationRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "NotificationRepository Suite")
}

var _ = Describe("NotificationRepository", func() {
	var (
		db   *gorm.DB
		repo notification.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&notificationDatamodel.Notification{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewNotificationRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	add := func(id string, clientID int64, kind string, createdAt time.Time) {
		err := repo.Create(&notification.Notification{
			ID:        id,
			ClientID:  clientID,
			Kind:      kind,
			Title:     "title " + id,
			Message:   "message " + id,
			CreatedAt: createdAt,
		})
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("ListByClient", func() {
		It("should return only the client's entries, newest first", func() {
			base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
			add("n1", 2, notification.KindDocumentProcessed, base)
			add("n2", 2, notification.KindDeadlineReminder, base.Add(time.Hour))
			add("n3", 3, notification.KindDocumentProcessed, base)

			items, err := repo.ListByClient(2)

			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).To(Equal("n2"))
			Expect(items[1].ID).To(Equal("n1"))
		})
	})

	Describe("read state", func() {
		It("should count and clear unread entries", func() {
			now := time.Now().UTC()
			add("n1", 2, notification.KindDocumentProcessed, now)
			add("n2", 2, notification.KindDocumentProcessed, now)

			count, err := repo.CountUnread(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))

			Expect(repo.MarkRead("n1")).To(Succeed())

			count, err = repo.CountUnread(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			Expect(repo.MarkAllRead(2)).To(Succeed())

			count, err = repo.CountUnread(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("HasReminder", func() {
		It("should match reminders at day granularity", func() {
			deadlineName := "tvsh"
			occurrence := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

			err := repo.Create(&notification.Notification{
				ID:           "r1",
				ClientID:     2,
				Kind:         notification.KindDeadlineReminder,
				Title:        "Paralajmërim",
				Message:      "Afat",
				DeadlineName: &deadlineName,
				DeadlineAt:   &occurrence,
				CreatedAt:    time.Now().UTC(),
			})
			Expect(err).NotTo(HaveOccurred())

			dayStart := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
			dayEnd := dayStart.AddDate(0, 0, 1)

			exists, err := repo.HasReminder(2, "tvsh", dayStart, dayEnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.HasReminder(2, "pagat", dayStart, dayEnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			exists, err = repo.HasReminder(3, "tvsh", dayStart, dayEnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			nextMonthStart := dayStart.AddDate(0, 1, 0)
			exists, err = repo.HasReminder(2, "tvsh", nextMonthStart, nextMonthStart.AddDate(0, 0, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
