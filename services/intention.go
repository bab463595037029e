package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// IntentionHoldDuration is how long the niat button must be held.
const IntentionHoldDuration = 1500 * time.Millisecond

// IntentionStatus is a point-in-time view of a gate.
type IntentionStatus struct {
	Holding     bool       `json:"holding"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// IntentionGate models the press-and-hold niat gesture. Arm schedules a
// one-shot job hold from now; Release cancels it if it has not fired yet.
// Once fired the gate stays confirmed for the rest of the session.
type IntentionGate struct {
	mu        sync.Mutex
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	hold      time.Duration
	onConfirm func(at time.Time)

	armed       bool
	gen         uint64
	jobID       uuid.UUID
	confirmed   bool
	confirmedAt time.Time
	done        chan struct{}
}

// NewIntentionGate returns an unconfirmed gate. onConfirm may be nil; it is
// called at most once, outside the gate's lock.
func NewIntentionGate(scheduler gocron.Scheduler, clock clockwork.Clock, hold time.Duration, onConfirm func(at time.Time)) *IntentionGate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if hold <= 0 {
		hold = IntentionHoldDuration
	}
	return &IntentionGate{
		scheduler: scheduler,
		clock:     clock,
		hold:      hold,
		onConfirm: onConfirm,
		done:      make(chan struct{}),
	}
}

// Arm starts the hold. It is a no-op when already confirmed or already holding.
func (g *IntentionGate) Arm() error {
	g.mu.Lock()
	if g.confirmed || g.armed {
		g.mu.Unlock()
		return nil
	}
	g.gen++
	gen := g.gen
	g.armed = true
	startAt := g.clock.Now().Add(g.hold)
	g.mu.Unlock()

	job, err := g.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(startAt)),
		gocron.NewTask(g.fire, gen),
		gocron.WithName("intention-hold"),
	)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		if g.gen == gen {
			g.armed = false
		}
		return fmt.Errorf("schedule intention hold: %w", err)
	}
	if g.gen == gen {
		g.jobID = job.ID()
	}
	return nil
}

// Release ends the hold. It reports whether a pending confirmation was
// cancelled; releasing after confirmation changes nothing.
func (g *IntentionGate) Release() bool {
	g.mu.Lock()
	if !g.armed || g.confirmed {
		g.mu.Unlock()
		return false
	}
	g.armed = false
	g.gen++
	jobID := g.jobID
	g.jobID = uuid.Nil
	g.mu.Unlock()

	if jobID != uuid.Nil {
		// the job may already be running; fire() sees the stale generation
		_ = g.scheduler.RemoveJob(jobID)
	}
	return true
}

func (g *IntentionGate) fire(gen uint64) {
	g.mu.Lock()
	if !g.armed || g.confirmed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.armed = false
	g.jobID = uuid.Nil
	g.confirmed = true
	g.confirmedAt = g.clock.Now()
	at := g.confirmedAt
	cb := g.onConfirm
	g.mu.Unlock()

	if cb != nil {
		cb(at)
	}
	close(g.done)
}

func (g *IntentionGate) Confirmed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirmed
}

// Done is closed once the gate has confirmed and onConfirm has returned.
func (g *IntentionGate) Done() <-chan struct{} {
	return g.done
}

func (g *IntentionGate) Status() IntentionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := IntentionStatus{Holding: g.armed, Confirmed: g.confirmed}
	if g.confirmed {
		at := g.confirmedAt
		st.ConfirmedAt = &at
	}
	return st
}
