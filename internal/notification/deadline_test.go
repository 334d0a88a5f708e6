package notification_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/albaledger/portal/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var _ = Describe("Deadline", func() {
	tvsh := notification.Deadline{
		Name:       "tvsh",
		Label:      "Deklarimi i TVSH-së",
		MonthlyDay: 20,
		LeadDays:   3,
	}

	Describe("NextOccurrence", func() {
		It("should pick this month's day when it is still ahead", func() {
			now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

			occurrence := tvsh.NextOccurrence(now)

			Expect(occurrence).To(Equal(time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)))
		})

		It("should roll to next month when the day has passed", func() {
			now := time.Date(2026, time.March, 21, 12, 0, 0, 0, time.UTC)

			occurrence := tvsh.NextOccurrence(now)

			Expect(occurrence).To(Equal(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)))
		})

		It("should roll past a deadline falling earlier on the same day", func() {
			// midnight of the 20th is not after 09:00 of the 20th
			now := time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)

			occurrence := tvsh.NextOccurrence(now)

			Expect(occurrence).To(Equal(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)))
		})

		It("should roll across a year boundary", func() {
			now := time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)

			occurrence := tvsh.NextOccurrence(now)

			Expect(occurrence).To(Equal(time.Date(2027, time.January, 20, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("DaysUntil", func() {
		It("should round partial days up", func() {
			now := time.Date(2026, time.March, 17, 18, 0, 0, 0, time.UTC)
			occurrence := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

			Expect(notification.DaysUntil(now, occurrence)).To(Equal(3))
		})

		It("should count whole days exactly", func() {
			now := time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)
			occurrence := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

			Expect(notification.DaysUntil(now, occurrence)).To(Equal(2))
		})
	})

	Describe("ReminderDue", func() {
		It("should not fire outside the lead window", func() {
			now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

			_, days, due := tvsh.ReminderDue(now)

			Expect(due).To(BeFalse())
			Expect(days).To(Equal(10))
		})

		It("should fire at the edge of the lead window", func() {
			now := time.Date(2026, time.March, 17, 6, 0, 0, 0, time.UTC)

			occurrence, days, due := tvsh.ReminderDue(now)

			Expect(due).To(BeTrue())
			Expect(days).To(Equal(3))
			Expect(occurrence.Day()).To(Equal(20))
		})

		It("should fire the day before the deadline", func() {
			now := time.Date(2026, time.March, 19, 9, 0, 0, 0, time.UTC)

			_, days, due := tvsh.ReminderDue(now)

			Expect(due).To(BeTrue())
			Expect(days).To(Equal(1))
		})

		It("should not fire on the deadline day itself", func() {
			now := time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC)

			occurrence, _, due := tvsh.ReminderDue(now)

			// the next occurrence already rolled to April, a month away
			Expect(due).To(BeFalse())
			Expect(occurrence.Month()).To(Equal(time.April))
		})
	})

	Describe("DefaultDeadlines", func() {
		It("should carry the three monthly filings", func() {
			Expect(notification.DefaultDeadlines).To(HaveLen(3))

			byName := make(map[string]notification.Deadline)
			for _, d := range notification.DefaultDeadlines {
				byName[d.Name] = d
			}

			Expect(byName["tvsh"].MonthlyDay).To(Equal(20))
			Expect(byName["tvsh"].LeadDays).To(Equal(3))
			Expect(byName["pagat"].MonthlyDay).To(Equal(15))
			Expect(byName["pagat"].LeadDays).To(Equal(2))
			Expect(byName["blerje"].MonthlyDay).To(Equal(25))
			Expect(byName["blerje"].LeadDays).To(Equal(3))
		})
	})
})
