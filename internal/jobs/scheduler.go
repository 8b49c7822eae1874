package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"clinicbook/api/internal/repository"
)

// Scheduler runs the periodic expired-session sweep. Expired sessions are
// already rejected at read time; the sweep keeps the table from accumulating
// dead rows.
type Scheduler struct {
	cron     *cron.Cron
	sessions repository.SessionStore
	schedule string
	log      zerolog.Logger
}

func NewScheduler(sessions repository.SessionStore, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.sessions == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweepSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits briefly for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("removed", n).Msg("expired sessions swept")
	}
}
