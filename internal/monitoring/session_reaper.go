package monitoring

import (
	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionReaper periodically removes expired sessions so the sessions table
// doesn't accumulate dead rows. Expired sessions are already rejected on
// resolve; this is housekeeping.
type SessionReaper struct {
	sessions services.SessionServiceProvider
	cron     *cron.Cron
}

// NewSessionReaper creates a new reaper instance.
func NewSessionReaper(sessions services.SessionServiceProvider) *SessionReaper {
	return &SessionReaper{
		sessions: sessions,
		cron:     cron.New(),
	}
}

// Run registers the purge job and starts the scheduler. Purges once
// immediately on start.
func (r *SessionReaper) Run() {
	log.Info().Msg("Starting session reaper")
	r.cron.AddFunc("@every 15m", r.purge)
	r.cron.Start()
	r.purge()
}

// Stop halts the scheduler, waiting for a running purge to finish.
func (r *SessionReaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Session reaper stopped")
}

func (r *SessionReaper) purge() {
	n, err := r.sessions.PurgeExpired()
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge expired sessions")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("Purged expired sessions")
	}
}
