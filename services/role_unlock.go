package services

import (
	"sync"

	"insan-mission-system/models"
)

// DefaultRoleUnlocks: three core categories open at level 0, the rest
// unlock one per level from 1 to 5.
var DefaultRoleUnlocks = map[models.Category]int{
	models.CategoryMuslim:     0,
	models.CategoryKeluarga:   0,
	models.CategoryBekerja:    0,
	models.CategorySunnah:     1,
	models.CategoryMasyarakat: 2,
	models.CategoryBebas:      3,
	models.CategoryInvestor:   4,
	models.CategoryDakwah:     5,
}

// RoleUnlockPolicy maps each category to the minimum level needed to see and
// act on its missions. Changes apply to every later resolution call.
type RoleUnlockPolicy struct {
	mu        sync.RWMutex
	minLevels map[models.Category]int
}

// NewRoleUnlockPolicy copies seed; a nil seed uses DefaultRoleUnlocks.
func NewRoleUnlockPolicy(seed map[models.Category]int) *RoleUnlockPolicy {
	if seed == nil {
		seed = DefaultRoleUnlocks
	}
	levels := make(map[models.Category]int, len(seed))
	for c, l := range seed {
		if l < 0 {
			l = 0
		}
		levels[c] = l
	}
	return &RoleUnlockPolicy{minLevels: levels}
}

// MinLevel returns the unlock level for c. Categories missing from the table
// are open at level 0.
func (p *RoleUnlockPolicy) MinLevel(c models.Category) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.minLevels[c]
}

func (p *RoleUnlockPolicy) IsUnlocked(c models.Category, userLevel int) bool {
	return userLevel >= p.MinLevel(c)
}

// SetMinLevel clamps level to >= 0 and swaps in a new table.
func (p *RoleUnlockPolicy) SetMinLevel(c models.Category, level int) error {
	if !c.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(c)}
	}
	if level < 0 {
		level = 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	next := make(map[models.Category]int, len(p.minLevels)+1)
	for k, v := range p.minLevels {
		next[k] = v
	}
	next[c] = level
	p.minLevels = next
	return nil
}

// Snapshot returns every known category with its unlock level.
func (p *RoleUnlockPolicy) Snapshot() map[models.Category]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = p.minLevels[c]
	}
	return out
}
