package services

import "insan-mission-system/models"

// CompletionLookup reports whether a mission was completed by a user on a day.
type CompletionLookup func(key models.CompletionKey) bool

// IsVisible applies the ownership and gender rules. Personal missions are
// only for their creator; system missions honour an optional gender target.
func IsVisible(def models.MissionDefinition, user models.User) bool {
	if def.IsPersonal() {
		return def.UserID == user.ID
	}
	return def.GenderTarget == nil || *def.GenderTarget == user.Gender
}

// ResolveTodayMissions returns the user's missions for day in catalog order,
// carrying completion flags from completed. A nil lookup means nothing is
// completed yet.
func ResolveTodayMissions(defs []models.MissionDefinition, user models.User, policy *RoleUnlockPolicy, completed CompletionLookup, day string) []models.MissionInstance {
	out := make([]models.MissionInstance, 0, len(defs))
	for _, def := range defs {
		if !IsVisible(def, user) {
			continue
		}
		inst := models.MissionInstance{MissionDefinition: def}
		if completed != nil {
			inst.Completed = completed(models.CompletionKey{UserID: user.ID, MissionID: def.ID, Day: day})
		}
		if policy != nil {
			inst.MinLevelRequired = policy.MinLevel(def.Category)
			inst.Locked = user.Level < inst.MinLevelRequired
		}
		out = append(out, inst)
	}
	return out
}

// GroupByCategory groups instances for display. Groups appear in the order
// their first mission appears; missions keep catalog order inside a group.
func GroupByCategory(instances []models.MissionInstance) []models.CategoryGroup {
	var groups []models.CategoryGroup
	index := make(map[models.Category]int)
	for _, inst := range instances {
		i, ok := index[inst.Category]
		if !ok {
			i = len(groups)
			index[inst.Category] = i
			groups = append(groups, models.CategoryGroup{
				Category:         inst.Category,
				Label:            inst.Category.Label(),
				Locked:           inst.Locked,
				MinLevelRequired: inst.MinLevelRequired,
			})
		}
		groups[i].Missions = append(groups[i].Missions, inst)
	}
	return groups
}

// ResolvePlanCandidates lists what the user may plan for tomorrow. Locked
// categories stay in the list flagged as locked.
func ResolvePlanCandidates(defs []models.MissionDefinition, user models.User, policy *RoleUnlockPolicy) []models.PlanCandidate {
	out := make([]models.PlanCandidate, 0, len(defs))
	for _, def := range defs {
		if !IsVisible(def, user) {
			continue
		}
		c := models.PlanCandidate{
			MissionID: def.ID,
			Title:     def.Title,
			Category:  def.Category,
		}
		if policy != nil {
			c.MinLevelRequired = policy.MinLevel(def.Category)
			c.Locked = user.Level < c.MinLevelRequired
		}
		out = append(out, c)
	}
	return out
}
