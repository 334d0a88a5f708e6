package notification

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler drives periodic deadline evaluation. It runs one pass immediately,
// waits until the configured hour of the next day, then repeats on a fixed
// interval.
type Scheduler struct {
	service   *Service
	logger    *slog.Logger
	checkHour int
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewScheduler(service *Service, checkHour int, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		service:   service,
		logger:    logger,
		checkHour: checkHour,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the scheduling loop. It returns immediately; evaluation runs
// in the background until Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.runPass(ctx)

	first := time.NewTimer(time.Until(s.nextRunAfter(time.Now())))
	defer first.Stop()

	select {
	case <-first.C:
	case <-s.stop:
		return
	case <-ctx.Done():
		return
	}

	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runPass(ctx)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	created, err := s.service.EvaluateDeadlines(ctx, time.Now())
	if err != nil {
		s.logger.Error("deadline evaluation pass failed", "error", err)
		return
	}
	s.logger.Info("deadline evaluation pass finished", "reminders_created", created)
}

// nextRunAfter picks the checkHour mark of the following day.
func (s *Scheduler) nextRunAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.checkHour, 0, 0, 0, now.Location())
	return next.AddDate(0, 0, 1)
}

// Stop halts the loop and waits for the in-flight pass to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
