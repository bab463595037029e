// services/scheduler.go
package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartSessionSweeper registers a recurring job on the service scheduler
// that ends sessions idle for longer than ttl.
func (s *MissionService) StartSessionSweeper(interval, ttl time.Duration) (gocron.Job, error) {
	return s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := s.SweepIdleSessions(ttl); n > 0 {
				s.log.Info("🧹 idle sessions swept", zap.Int("count", n), zap.Duration("ttl", ttl))
			}
		}),
		gocron.WithName("session-sweeper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}

// SweepIdleSessions ends every session whose LastSeen is older than ttl and
// returns how many were removed.
func (s *MissionService) SweepIdleSessions(ttl time.Duration) int {
	cutoff := s.clock.Now().Add(-ttl)

	s.state.mu.Lock()
	var stale []*Session
	for id, sess := range s.state.sessions {
		if sess.LastSeen.Before(cutoff) {
			stale = append(stale, sess)
			s.state.drop(id)
		}
	}
	s.state.mu.Unlock()

	for _, sess := range stale {
		sess.Intention.Release()
		s.log.Debug("session expired", zap.String("user_id", sess.UserID), zap.String("session_id", sess.ID))
	}
	return len(stale)
}
