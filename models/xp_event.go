package models

import (
	"time"

	"gorm.io/gorm"
)

// XPEventReason tags why an XP event was written to the ledger.
type XPEventReason string

const (
	ReasonMissionCompleted   XPEventReason = "mission_completed"
	ReasonMissionUncompleted XPEventReason = "mission_uncompleted"
	ReasonIntentionConfirmed XPEventReason = "intention_confirmed"
)

// XPEvent is an append-only audit row. It is never read back to rebuild state.
type XPEvent struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string        `gorm:"index;not null" json:"user_id"`
	MissionID string        `gorm:"index" json:"mission_id,omitempty"`
	Category  Category      `gorm:"type:varchar(32)" json:"category,omitempty"`
	Day       string        `gorm:"type:varchar(10);index" json:"day"`
	Reason    XPEventReason `gorm:"type:varchar(32);not null" json:"reason"`

	Delta   int64 `json:"delta"`
	TotalXP int64 `json:"total_xp"`
	Level   int   `json:"level"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
