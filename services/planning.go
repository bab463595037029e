package services

import "insan-mission-system/models"

// PlanState is the editable plan for tomorrow held by a session.
type PlanState struct {
	Selection    []string `json:"selection"`
	Saved        bool     `json:"saved"`
	UsingDefault bool     `json:"using_default"`
}

// LoadPlan returns the user's saved plan or, when none is saved, every
// candidate id. Saved ids that are no longer candidates (a removed mission,
// for one) are dropped; if none remain the default applies.
func LoadPlan(user models.User, candidates []models.PlanCandidate) []string {
	if saved := keepCandidates(user.PlannedMissionIDs, candidates); len(saved) > 0 {
		return saved
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.MissionID)
	}
	return ids
}

// NewPlanState seeds a session plan from the user.
func NewPlanState(user models.User, candidates []models.PlanCandidate) PlanState {
	return PlanState{
		Selection:    LoadPlan(user, candidates),
		UsingDefault: len(keepCandidates(user.PlannedMissionIDs, candidates)) == 0,
	}
}

// keepCandidates filters ids down to those still offered, preserving order.
func keepCandidates(ids []string, candidates []models.PlanCandidate) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := findCandidate(candidates, id); ok {
			out = append(out, id)
		}
	}
	return out
}

func findCandidate(candidates []models.PlanCandidate, id string) (models.PlanCandidate, bool) {
	for _, c := range candidates {
		if c.MissionID == id {
			return c, true
		}
	}
	return models.PlanCandidate{}, false
}

// TogglePlan flips id in the selection. Removing is always allowed; adding
// needs an unlocked candidate.
func TogglePlan(state PlanState, id string, candidates []models.PlanCandidate, userLevel int) (PlanState, error) {
	next := PlanState{UsingDefault: state.UsingDefault}
	removed := false
	for _, sel := range state.Selection {
		if sel == id {
			removed = true
			continue
		}
		next.Selection = append(next.Selection, sel)
	}

	if !removed {
		c, ok := findCandidate(candidates, id)
		if !ok {
			return state, &NotFoundError{Kind: "mission", ID: id}
		}
		if c.Locked {
			return state, &LockedCategoryError{Category: c.Category, RequiredLevel: c.MinLevelRequired, UserLevel: userLevel}
		}
		next.Selection = append(next.Selection, id)
	}
	if next.Selection == nil {
		next.Selection = []string{}
	}
	return next, nil
}

// SavePlan writes selection into the user's planned ids. Every id must be a
// candidate; duplicates are dropped. An empty selection restores the system
// default for tomorrow.
func SavePlan(user models.User, selection []string, candidates []models.PlanCandidate) (models.User, error) {
	seen := make(map[string]struct{}, len(selection))
	ids := make([]string, 0, len(selection))
	for _, id := range selection {
		if _, dup := seen[id]; dup {
			continue
		}
		if _, ok := findCandidate(candidates, id); !ok {
			return user, &NotFoundError{Kind: "mission", ID: id}
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	next := user.Clone()
	next.PlannedMissionIDs = ids
	return next, nil
}
