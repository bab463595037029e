package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/segmentio/ksuid"
)

const maxSlugLen = 32

// NewMissionID builds ids like "custom-tilawah-pagi-1f3a9c2b". The slug keeps
// ids readable in logs; the uuid fragment keeps them unique.
func NewMissionID(prefix, title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if s == "" {
		return prefix + "-" + suffix
	}
	return prefix + "-" + s + "-" + suffix
}

// NewSessionID returns a time-sortable session identifier.
func NewSessionID() string {
	return ksuid.New().String()
}

// NewEventID is used for ledger rows.
func NewEventID() string {
	return uuid.NewString()
}
