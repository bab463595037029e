package services

import "math"

// BaseXPPerLevel scales the square curve: level L starts at L² * BaseXPPerLevel.
const BaseXPPerLevel = 100

// LevelBaseXP returns the total XP at which level starts.
func LevelBaseXP(level int) int64 {
	if level < 0 {
		level = 0
	}
	l := int64(level)
	return l * l * BaseXPPerLevel
}

// ComputeLevel returns floor(sqrt(xp / 100)), i.e. the largest L with
// L² * 100 <= xp. Non-positive xp is level 0.
func ComputeLevel(xp int64) int {
	if xp <= 0 {
		return 0
	}
	level := int(math.Sqrt(float64(xp) / BaseXPPerLevel))
	// float sqrt can land one off for large values
	for level > 0 && LevelBaseXP(level) > xp {
		level--
	}
	for LevelBaseXP(level+1) <= xp {
		level++
	}
	return level
}

// LevelProgress describes how far xp is into the given level.
type LevelProgress struct {
	ProgressPercent    float64 `json:"progress_percent"`
	CurrentLevelBaseXP int64   `json:"current_level_base_xp"`
	NextLevelXP        int64   `json:"next_level_xp"`
	XPNeeded           int64   `json:"xp_needed"`
}

// ComputeProgress reports progress toward level+1. It trusts level as given
// and only clamps the percentage; a stale level is not corrected here.
func ComputeProgress(xp int64, level int) LevelProgress {
	if level < 0 {
		level = 0
	}
	base := LevelBaseXP(level)
	next := LevelBaseXP(level + 1)

	pct := float64(xp-base) / float64(next-base) * 100
	pct = math.Max(0, math.Min(100, pct))

	return LevelProgress{
		ProgressPercent:    pct,
		CurrentLevelBaseXP: base,
		NextLevelXP:        next,
		XPNeeded:           next - xp,
	}
}
