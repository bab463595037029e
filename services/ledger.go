package services

import (
	"context"
	"sync"

	"insan-mission-system/models"
	"insan-mission-system/utils"

	"gorm.io/gorm"
)

// XPLedger is an append-only audit trail of XP events. It is never used to
// rebuild state.
type XPLedger interface {
	Record(ctx context.Context, ev models.XPEvent) error
	Recent(ctx context.Context, userID string, limit int) ([]models.XPEvent, error)
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

func clampLimit(limit int) int {
	if limit < 1 || limit > maxRecentLimit {
		return defaultRecentLimit
	}
	return limit
}

// GormLedger writes events to the xp_events table.
type GormLedger struct {
	DB *gorm.DB
}

// NewGormLedger migrates the ledger table and returns the ledger.
func NewGormLedger(db *gorm.DB) (*GormLedger, error) {
	if err := db.AutoMigrate(&models.XPEvent{}); err != nil {
		return nil, err
	}
	return &GormLedger{DB: db}, nil
}

func (l *GormLedger) Record(ctx context.Context, ev models.XPEvent) error {
	if ev.ID == "" {
		ev.ID = utils.NewEventID()
	}
	return l.DB.WithContext(ctx).Create(&ev).Error
}

func (l *GormLedger) Recent(ctx context.Context, userID string, limit int) ([]models.XPEvent, error) {
	var events []models.XPEvent
	err := l.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&events).Error
	return events, err
}

// MemoryLedger keeps the most recent events in process. Used when no
// database is configured.
type MemoryLedger struct {
	mu       sync.Mutex
	events   []models.XPEvent
	capacity int
}

func NewMemoryLedger(capacity int) *MemoryLedger {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryLedger{capacity: capacity}
}

func (l *MemoryLedger) Record(_ context.Context, ev models.XPEvent) error {
	if ev.ID == "" {
		ev.ID = utils.NewEventID()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append([]models.XPEvent(nil), l.events[over:]...)
	}
	return nil
}

// Recent returns newest first.
func (l *MemoryLedger) Recent(_ context.Context, userID string, limit int) ([]models.XPEvent, error) {
	limit = clampLimit(limit)
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.XPEvent
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		if l.events[i].UserID == userID {
			out = append(out, l.events[i])
		}
	}
	return out, nil
}
