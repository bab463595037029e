package services

import (
	"time"

	"insan-mission-system/models"
)

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Sn",
	time.Tuesday:   "Sl",
	time.Wednesday: "Rb",
	time.Thursday:  "Km",
	time.Friday:    "Jm",
	time.Saturday:  "Sb",
	time.Sunday:    "Mg",
}

// DefaultVelocityHistory returns seven zero points, the last one for today.
func DefaultVelocityHistory(today time.Time) []models.VelocityPoint {
	out := make([]models.VelocityPoint, 0, models.VelocityDays)
	for i := models.VelocityDays - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		out = append(out, models.VelocityPoint{Day: weekdayLabels[d.Weekday()], XP: 0})
	}
	return out
}

// ApplyXPDelta returns a new user with delta applied. TotalXP never drops
// below zero and Level is derived from the clamped total. The last velocity
// point (today) takes the same delta with its own floor at zero.
func ApplyXPDelta(user models.User, delta int64) models.User {
	next := user.Clone()
	next.TotalXP += delta
	if next.TotalXP < 0 {
		next.TotalXP = 0
	}
	next.Level = ComputeLevel(next.TotalXP)

	if n := len(next.VelocityHistory); n > 0 {
		today := next.VelocityHistory[n-1].XP + delta
		if today < 0 {
			today = 0
		}
		next.VelocityHistory[n-1].XP = today
	}
	return next
}

// CompletionResult is what a completion toggle hands back to the caller.
type CompletionResult struct {
	NewTotalXP         int64                  `json:"new_total_xp"`
	NewLevel           int                    `json:"new_level"`
	NewVelocityHistory []models.VelocityPoint `json:"new_velocity_history"`
	Instance           models.MissionInstance `json:"mission"`
	Changed            bool                   `json:"changed"`
}

// Transition is one requested state change for a mission instance.
type Transition struct {
	User               models.User
	Mission            models.MissionDefinition
	Policy             *RoleUnlockPolicy
	IntentionConfirmed bool
	// Completed is the current state; Complete is the requested one.
	Completed bool
	Complete  bool
	// AwardedXP is what the earlier completion granted. Undoing subtracts it
	// so that an XP edit in between does not skew the total.
	AwardedXP int64
}

// Delta is the XP change the transition applies when it changes state.
func (t Transition) Delta() int64 {
	if t.Complete {
		return t.Mission.XP
	}
	if t.AwardedXP > 0 {
		return -t.AwardedXP
	}
	return -t.Mission.XP
}

// ApplyTransition checks the lock and the intention gate and returns the
// user after the XP change. Visibility is the caller's job. Asking for the
// state the mission is already in succeeds with changed=false.
func ApplyTransition(t Transition) (models.User, bool, error) {
	if t.Policy != nil {
		if min := t.Policy.MinLevel(t.Mission.Category); t.User.Level < min {
			return t.User, false, &LockedCategoryError{
				Category:      t.Mission.Category,
				RequiredLevel: min,
				UserLevel:     t.User.Level,
			}
		}
	}
	if t.Complete && !t.IntentionConfirmed {
		return t.User, false, &IntentionNotConfirmedError{UserID: t.User.ID}
	}
	if t.Completed == t.Complete {
		return t.User, false, nil
	}

	return ApplyXPDelta(t.User, t.Delta()), true, nil
}

func resultFor(user models.User, inst models.MissionInstance, changed bool) CompletionResult {
	return CompletionResult{
		NewTotalXP:         user.TotalXP,
		NewLevel:           user.Level,
		NewVelocityHistory: append([]models.VelocityPoint(nil), user.VelocityHistory...),
		Instance:           inst,
		Changed:            changed,
	}
}
