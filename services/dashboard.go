package services

import (
	"fmt"
	"sort"

	"insan-mission-system/models"
)

// DashboardInput is a snapshot taken under the state lock. Views read it
// and never touch AppState.
type DashboardInput struct {
	User           models.User
	Today          []models.MissionInstance
	Catalog        []models.MissionDefinition
	RoleUnlocks    map[models.Category]int
	Intention      IntentionStatus
	ActiveSessions int
}

// TodaySummary is the "how am I doing today" block.
type TodaySummary struct {
	Completed int   `json:"completed"`
	Available int   `json:"available"`
	Locked    int   `json:"locked"`
	XPToday   int64 `json:"xp_today"`
}

// NextUnlock names the closest category still above the user's level.
type NextUnlock struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	MinLevel int             `json:"min_level"`
}

// CategoryCount is one row of the catalog overview.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	System   int             `json:"system"`
	Personal int             `json:"personal"`
	MinLevel int             `json:"min_level"`
}

// Dashboard is the home screen payload. Kind tells the client which
// sections are filled.
type Dashboard struct {
	Kind           string                  `json:"kind"`
	User           models.User             `json:"user"`
	Progress       LevelProgress           `json:"progress"`
	Intention      IntentionStatus         `json:"intention"`
	Today          *TodaySummary           `json:"today,omitempty"`
	Velocity       []models.VelocityPoint  `json:"velocity,omitempty"`
	NextUnlock     *NextUnlock             `json:"next_unlock,omitempty"`
	Categories     []CategoryCount         `json:"categories,omitempty"`
	RoleUnlocks    map[models.Category]int `json:"role_unlocks,omitempty"`
	TotalMissions  int                     `json:"total_missions,omitempty"`
	ActiveSessions int                     `json:"active_sessions,omitempty"`
}

// DashboardView renders one role group's dashboard.
type DashboardView interface {
	Kind() string
	Build(in DashboardInput) Dashboard
}

type memberDashboard struct{}

func (memberDashboard) Kind() string { return "member" }

func (v memberDashboard) Build(in DashboardInput) Dashboard {
	d := baseDashboard(v.Kind(), in)
	sum := summarizeToday(in.Today, in.User)
	d.Today = &sum
	d.Velocity = in.User.VelocityHistory
	d.NextUnlock = nextUnlock(in.RoleUnlocks, in.User.Level)
	return d
}

// musyrifDashboard adds the catalog overview used for mentoring on top of
// the member view.
type musyrifDashboard struct{}

func (musyrifDashboard) Kind() string { return "musyrif" }

func (v musyrifDashboard) Build(in DashboardInput) Dashboard {
	d := memberDashboard{}.Build(in)
	d.Kind = v.Kind()
	d.Categories = countCategories(in.Catalog, in.RoleUnlocks)
	return d
}

type adminDashboard struct{}

func (adminDashboard) Kind() string { return "admin" }

func (v adminDashboard) Build(in DashboardInput) Dashboard {
	d := baseDashboard(v.Kind(), in)
	d.Categories = countCategories(in.Catalog, in.RoleUnlocks)
	d.RoleUnlocks = in.RoleUnlocks
	d.TotalMissions = len(in.Catalog)
	d.ActiveSessions = in.ActiveSessions
	return d
}

var dashboardViews = map[models.Role]DashboardView{
	models.RoleNewbie:      memberDashboard{},
	models.RoleCandidate:   memberDashboard{},
	models.RoleMember:      memberDashboard{},
	models.RoleStarMember:  memberDashboard{},
	models.RoleMusyrifMuda: musyrifDashboard{},
	models.RoleMusyrif:     musyrifDashboard{},
	models.RoleAdmin:       adminDashboard{},
}

// BuildDashboard picks the view for the user's role.
func BuildDashboard(in DashboardInput) (Dashboard, error) {
	view, ok := dashboardViews[in.User.Role]
	if !ok {
		return Dashboard{}, fmt.Errorf("dashboard: %w", &ValidationError{Field: "role", Reason: "no dashboard for role " + string(in.User.Role)})
	}
	return view.Build(in), nil
}

func baseDashboard(kind string, in DashboardInput) Dashboard {
	return Dashboard{
		Kind:      kind,
		User:      in.User,
		Progress:  ComputeProgress(in.User.TotalXP, in.User.Level),
		Intention: in.Intention,
	}
}

func summarizeToday(today []models.MissionInstance, user models.User) TodaySummary {
	var sum TodaySummary
	for _, inst := range today {
		switch {
		case inst.Locked:
			sum.Locked++
		case inst.Completed:
			sum.Completed++
			sum.Available++
		default:
			sum.Available++
		}
	}
	if n := len(user.VelocityHistory); n > 0 {
		sum.XPToday = user.VelocityHistory[n-1].XP
	}
	return sum
}

func nextUnlock(unlocks map[models.Category]int, level int) *NextUnlock {
	var best *NextUnlock
	for _, c := range models.Categories {
		min, ok := unlocks[c]
		if !ok || min <= level {
			continue
		}
		if best == nil || min < best.MinLevel {
			best = &NextUnlock{Category: c, Label: c.Label(), MinLevel: min}
		}
	}
	return best
}

func countCategories(catalog []models.MissionDefinition, unlocks map[models.Category]int) []CategoryCount {
	idx := make(map[models.Category]*CategoryCount)
	for _, def := range catalog {
		cc, ok := idx[def.Category]
		if !ok {
			cc = &CategoryCount{Category: def.Category, Label: def.Category.Label(), MinLevel: unlocks[def.Category]}
			idx[def.Category] = cc
		}
		if def.IsPersonal() {
			cc.Personal++
		} else {
			cc.System++
		}
	}
	out := make([]CategoryCount, 0, len(idx))
	for _, cc := range idx {
		out = append(out, *cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MinLevel != out[j].MinLevel {
			return out[i].MinLevel < out[j].MinLevel
		}
		return out[i].Category < out[j].Category
	})
	return out
}
