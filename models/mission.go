package models

// Category is one of the eight peran (life-role) categories.
type Category string

const (
	CategoryMuslim     Category = "muslim"
	CategoryKeluarga   Category = "keluarga"
	CategoryBekerja    Category = "bekerja"
	CategoryInvestor   Category = "investor"
	CategoryDakwah     Category = "dakwah"
	CategoryMasyarakat Category = "masyarakat"
	CategoryBebas      Category = "bebas"
	CategorySunnah     Category = "sunnah"
)

// Categories in display order.
var Categories = []Category{
	CategoryMuslim,
	CategoryKeluarga,
	CategoryBekerja,
	CategoryInvestor,
	CategoryDakwah,
	CategoryMasyarakat,
	CategoryBebas,
	CategorySunnah,
}

var categoryLabels = map[Category]string{
	CategoryMuslim:     "Muslim (Prioritas)",
	CategoryKeluarga:   "Keluarga",
	CategoryBekerja:    "Bekerja",
	CategoryInvestor:   "Investor",
	CategoryDakwah:     "Dakwah",
	CategoryMasyarakat: "Masyarakat",
	CategoryBebas:      "Bebas",
	CategorySunnah:     "Sunnah Bonus",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human readable name shown in group headers.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// MissionDefinition is a catalog entry. A non-empty UserID marks a personal
// mission visible only to its creator.
type MissionDefinition struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     Category `json:"category"`
	XP           int64    `json:"xp"`
	GenderTarget *Gender  `json:"gender_target,omitempty"`
	UserID       string   `json:"user_id,omitempty"`
}

func (d MissionDefinition) IsPersonal() bool { return d.UserID != "" }

// MissionPatch lists the fields an admin may change on an existing mission.
// Nil fields are left untouched.
type MissionPatch struct {
	Title             *string   `json:"title,omitempty"`
	Category          *Category `json:"category,omitempty"`
	XP                *int64    `json:"xp,omitempty"`
	GenderTarget      *Gender   `json:"gender_target,omitempty"`
	ClearGenderTarget bool      `json:"clear_gender_target,omitempty"`
}

// MissionInstance is today's user-scoped view of a definition.
type MissionInstance struct {
	MissionDefinition
	Completed        bool `json:"completed"`
	Locked           bool `json:"locked"`
	MinLevelRequired int  `json:"min_level_required"`
	// Exempt marks MUSLIM missions while the akhwat exempt mode is on. Display only.
	Exempt bool `json:"exempt,omitempty"`
}

// CategoryGroup is a run of instances sharing a category, in catalog order.
type CategoryGroup struct {
	Category         Category          `json:"category"`
	Label            string            `json:"label"`
	Locked           bool              `json:"locked"`
	MinLevelRequired int               `json:"min_level_required"`
	Missions         []MissionInstance `json:"missions"`
}

// PlanCandidate is a mission that may be picked for tomorrow's plan.
type PlanCandidate struct {
	MissionID        string   `json:"mission_id"`
	Title            string   `json:"title"`
	Category         Category `json:"category"`
	Locked           bool     `json:"locked"`
	MinLevelRequired int      `json:"min_level_required"`
}

// CompletionKey scopes a completion flag to one user, one mission and one day.
type CompletionKey struct {
	UserID    string
	MissionID string
	Day       string
}
