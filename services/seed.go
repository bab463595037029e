package services

import (
	_ "embed"
	"fmt"
	"os"

	"insan-mission-system/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed/default.yaml
var defaultSeedYAML []byte

// Seed is the startup catalog and unlock table.
type Seed struct {
	RoleUnlocks map[models.Category]int `yaml:"role_unlocks"`
	Missions    []SeedMission           `yaml:"missions"`
}

type SeedMission struct {
	ID           string          `yaml:"id"`
	Title        string          `yaml:"title"`
	Category     models.Category `yaml:"category"`
	XP           int64           `yaml:"xp"`
	GenderTarget models.Gender   `yaml:"gender_target,omitempty"`
}

// LoadSeed reads path, or the embedded default when path is empty.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeedYAML)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	for c := range s.RoleUnlocks {
		if !c.Valid() {
			return Seed{}, fmt.Errorf("parse seed: unknown category %q in role_unlocks", c)
		}
	}
	return s, nil
}

// Definitions converts the seed missions into system mission definitions.
func (s Seed) Definitions() []models.MissionDefinition {
	defs := make([]models.MissionDefinition, 0, len(s.Missions))
	for _, m := range s.Missions {
		def := models.MissionDefinition{
			ID:       m.ID,
			Title:    m.Title,
			Category: m.Category,
			XP:       m.XP,
		}
		if m.GenderTarget != "" {
			g := m.GenderTarget
			def.GenderTarget = &g
		}
		defs = append(defs, def)
	}
	return defs
}

// Build returns the catalog and policy described by the seed. A seed with
// no role_unlocks falls back to DefaultRoleUnlocks.
func (s Seed) Build() (*MissionCatalog, *RoleUnlockPolicy, error) {
	catalog, err := NewMissionCatalog(s.Definitions())
	if err != nil {
		return nil, nil, fmt.Errorf("seed catalog: %w", err)
	}
	var unlocks map[models.Category]int
	if len(s.RoleUnlocks) > 0 {
		unlocks = s.RoleUnlocks
	}
	return catalog, NewRoleUnlockPolicy(unlocks), nil
}
