package services

import (
	"strings"
	"sync"

	"insan-mission-system/models"
	"insan-mission-system/utils"

	"golang.org/x/text/unicode/norm"
)

// CategoryXPWeights grades personal missions so that members cannot pick
// their own reward.
var CategoryXPWeights = map[models.Category]int64{
	models.CategoryMuslim:     99,
	models.CategoryDakwah:     66,
	models.CategoryMasyarakat: 56,
	models.CategoryBekerja:    33,
	models.CategoryKeluarga:   33,
	models.CategoryInvestor:   33,
	models.CategoryBebas:      22,
	models.CategorySunnah:     22,
}

// ReservedCategory is only available to system missions.
const ReservedCategory = models.CategoryMuslim

// DefaultAdminMissionXP is used when an admin creates a mission without a weight.
const DefaultAdminMissionXP = 10

const (
	systemIDPrefix   = "m"
	personalIDPrefix = "custom"

	maxIDAttempts = 3
)

// MissionCatalog is the ordered list of mission definitions. Every mutation
// swaps in a fresh slice so readers holding an old List() are unaffected.
type MissionCatalog struct {
	mu       sync.RWMutex
	missions []models.MissionDefinition
	newID    func(prefix, title string) string
}

// NewMissionCatalog validates and loads seed in order.
func NewMissionCatalog(seed []models.MissionDefinition) (*MissionCatalog, error) {
	c := &MissionCatalog{newID: utils.NewMissionID}
	for _, def := range seed {
		if _, err := c.Add(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func normalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

func validateDefinition(def models.MissionDefinition) error {
	if def.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !def.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(def.Category)}
	}
	if def.XP <= 0 {
		return &ValidationError{Field: "xp", Reason: "must be positive"}
	}
	if def.GenderTarget != nil && !def.GenderTarget.Valid() {
		return &ValidationError{Field: "gender_target", Reason: "unknown gender " + string(*def.GenderTarget)}
	}
	if def.IsPersonal() && def.Category == ReservedCategory {
		return &ValidationError{Field: "category", Reason: "reserved for system missions"}
	}
	return nil
}

// Add appends def, generating an id when none is given.
func (c *MissionCatalog) Add(def models.MissionDefinition) (models.MissionDefinition, error) {
	def.Title = normalizeTitle(def.Title)
	if err := validateDefinition(def); err != nil {
		return models.MissionDefinition{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if def.ID == "" {
		prefix := systemIDPrefix
		if def.IsPersonal() {
			prefix = personalIDPrefix
		}
		// Generated ids carry a short random suffix; draw again on a clash.
		for i := 0; i < maxIDAttempts; i++ {
			def.ID = c.newID(prefix, def.Title)
			if c.indexOf(def.ID) < 0 {
				break
			}
		}
	}
	if c.indexOf(def.ID) >= 0 {
		return models.MissionDefinition{}, &ValidationError{Field: "id", Reason: "duplicate mission id " + def.ID}
	}

	next := make([]models.MissionDefinition, len(c.missions), len(c.missions)+1)
	copy(next, c.missions)
	c.missions = append(next, def)
	return def, nil
}

// AddPersonal creates a mission owned by creatorID with its XP taken from
// CategoryXPWeights.
func (c *MissionCatalog) AddPersonal(title string, category models.Category, creatorID string) (models.MissionDefinition, error) {
	if normalizeTitle(title) == "" {
		return models.MissionDefinition{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if creatorID == "" {
		return models.MissionDefinition{}, &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if category == ReservedCategory {
		return models.MissionDefinition{}, &ValidationError{Field: "category", Reason: "reserved for system missions"}
	}
	xp, ok := CategoryXPWeights[category]
	if !ok {
		return models.MissionDefinition{}, &ValidationError{Field: "category", Reason: "unknown category " + string(category)}
	}
	return c.Add(models.MissionDefinition{
		Title:    title,
		Category: category,
		XP:       xp,
		UserID:   creatorID,
	})
}

// Remove deletes id. Unknown ids are ignored.
func (c *MissionCatalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return
	}
	next := make([]models.MissionDefinition, 0, len(c.missions)-1)
	next = append(next, c.missions[:i]...)
	c.missions = append(next, c.missions[i+1:]...)
}

// Update applies patch to id after validating the merged result.
func (c *MissionCatalog) Update(id string, patch models.MissionPatch) (models.MissionDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return models.MissionDefinition{}, &NotFoundError{Kind: "mission", ID: id}
	}

	merged := c.missions[i]
	if patch.Title != nil {
		merged.Title = normalizeTitle(*patch.Title)
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.XP != nil {
		merged.XP = *patch.XP
	}
	if patch.ClearGenderTarget {
		merged.GenderTarget = nil
	} else if patch.GenderTarget != nil {
		g := *patch.GenderTarget
		merged.GenderTarget = &g
	}
	if err := validateDefinition(merged); err != nil {
		return models.MissionDefinition{}, err
	}

	next := make([]models.MissionDefinition, len(c.missions))
	copy(next, c.missions)
	next[i] = merged
	c.missions = next
	return merged, nil
}

func (c *MissionCatalog) Get(id string) (models.MissionDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.missions[i], true
	}
	return models.MissionDefinition{}, false
}

// List returns the catalog in insertion order.
func (c *MissionCatalog) List() []models.MissionDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.MissionDefinition(nil), c.missions...)
}

// System returns the missions shared by every user.
func (c *MissionCatalog) System() []models.MissionDefinition {
	var out []models.MissionDefinition
	for _, m := range c.List() {
		if !m.IsPersonal() {
			out = append(out, m)
		}
	}
	return out
}

func (c *MissionCatalog) PersonalFor(userID string) []models.MissionDefinition {
	var out []models.MissionDefinition
	for _, m := range c.List() {
		if m.UserID == userID && userID != "" {
			out = append(out, m)
		}
	}
	return out
}

func (c *MissionCatalog) indexOf(id string) int {
	for i, m := range c.missions {
		if m.ID == id {
			return i
		}
	}
	return -1
}
