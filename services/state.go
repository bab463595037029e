package services

import (
	"sync"
	"time"

	"insan-mission-system/models"
)

// DayFormat keys completion entries by calendar day.
const DayFormat = "2006-01-02"

// Session is the per-login runtime state of one user.
type Session struct {
	ID        string
	UserID    string
	Day       string
	StartedAt time.Time
	LastSeen  time.Time

	Intention *IntentionGate
	// Exempt is the akhwat haid toggle. It only changes presentation.
	Exempt bool

	plan       PlanState
	planLoaded bool
}

// AppState is the single in-memory object graph behind the service. Users
// are stored by value and replaced whole on every change; mu serialises
// event handlers the way a single-threaded UI loop would.
type AppState struct {
	mu sync.Mutex

	Catalog *MissionCatalog
	Policy  *RoleUnlockPolicy

	users       map[string]models.User
	sessions    map[string]*Session
	// completions holds the XP awarded for each completed (user, mission, day).
	completions map[models.CompletionKey]int64
}

func NewAppState(catalog *MissionCatalog, policy *RoleUnlockPolicy) *AppState {
	if policy == nil {
		policy = NewRoleUnlockPolicy(nil)
	}
	return &AppState{
		Catalog:     catalog,
		Policy:      policy,
		users:       make(map[string]models.User),
		sessions:    make(map[string]*Session),
		completions: make(map[models.CompletionKey]int64),
	}
}

// lookup returns the user and session for userID. Callers hold mu.
func (s *AppState) lookup(userID string) (models.User, *Session, error) {
	u, ok := s.users[userID]
	if !ok {
		return models.User{}, nil, &NotFoundError{Kind: "user", ID: userID}
	}
	sess, ok := s.sessions[userID]
	if !ok {
		return models.User{}, nil, &NotFoundError{Kind: "session", ID: userID}
	}
	return u, sess, nil
}

func (s *AppState) isCompleted(key models.CompletionKey) bool {
	_, ok := s.completions[key]
	return ok
}

// awarded returns the XP granted when key was completed.
func (s *AppState) awarded(key models.CompletionKey) int64 {
	return s.completions[key]
}

func (s *AppState) setCompleted(key models.CompletionKey, done bool, xp int64) {
	if done {
		s.completions[key] = xp
		return
	}
	delete(s.completions, key)
}

// drop removes a user with their session and completion entries.
func (s *AppState) drop(userID string) {
	delete(s.users, userID)
	delete(s.sessions, userID)
	for k := range s.completions {
		if k.UserID == userID {
			delete(s.completions, k)
		}
	}
}
