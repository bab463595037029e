package models

// Gender is fixed at account creation.
type Gender string

const (
	GenderIkhwan Gender = "ikhwan"
	GenderAkhwat Gender = "akhwat"
)

func (g Gender) Valid() bool {
	return g == GenderIkhwan || g == GenderAkhwat
}

// Role is the member's position in the community progression.
type Role string

const (
	RoleNewbie      Role = "newbie"
	RoleCandidate   Role = "candidate"
	RoleMember      Role = "member"
	RoleStarMember  Role = "star_member"
	RoleMusyrifMuda Role = "musyrif_muda"
	RoleMusyrif     Role = "musyrif"
	RoleAdmin       Role = "admin"
)

// RoleProgression lists roles from lowest to highest.
var RoleProgression = []Role{
	RoleNewbie,
	RoleCandidate,
	RoleMember,
	RoleStarMember,
	RoleMusyrifMuda,
	RoleMusyrif,
	RoleAdmin,
}

// Rank returns the role's position in RoleProgression, or -1 when unknown.
func (r Role) Rank() int {
	for i, role := range RoleProgression {
		if role == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool { return r.Rank() >= 0 }

// VelocityPoint is one day of XP gained, used for the weekly trend chart.
type VelocityPoint struct {
	Day string `json:"day"`
	XP  int64  `json:"xp"`
}

// VelocityDays is the length of the rolling velocity window.
const VelocityDays = 7

// User is the in-memory profile owned by the application state. Level is
// always derived from TotalXP; callers never set it directly.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Gender   Gender `json:"gender"`
	Role     Role   `json:"role"`

	Level           int             `json:"level"`
	TotalXP         int64           `json:"total_xp"`
	VelocityHistory []VelocityPoint `json:"velocity_history"`

	// Empty means "use the system default plan".
	PlannedMissionIDs []string `json:"planned_mission_ids,omitempty"`
	JalsahID          *string  `json:"jalsah_id,omitempty"`
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	out := u
	out.VelocityHistory = append([]VelocityPoint(nil), u.VelocityHistory...)
	if u.PlannedMissionIDs != nil {
		out.PlannedMissionIDs = append([]string{}, u.PlannedMissionIDs...)
	}
	if u.JalsahID != nil {
		id := *u.JalsahID
		out.JalsahID = &id
	}
	return out
}
