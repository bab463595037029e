package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"insan-mission-system/models"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed.Missions) != 18 {
		t.Fatalf("want 18 default missions, got %d", len(seed.Missions))
	}
	catalog, policy, err := seed.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m1, ok := catalog.Get("m1")
	if !ok || m1.GenderTarget == nil || *m1.GenderTarget != models.GenderIkhwan {
		t.Fatalf("m1 should target ikhwan: %+v", m1)
	}
	if policy.MinLevel(models.CategoryDakwah) != 5 {
		t.Fatalf("dakwah should unlock at 5")
	}
}

func TestLoadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	body := strings.TrimSpace(`
role_unlocks:
  sunnah: 0
missions:
  - {id: x1, title: "Murojaah", category: sunnah, xp: 15}
`)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	catalog, policy, err := seed.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(catalog.List()) != 1 || !policy.IsUnlocked(models.CategorySunnah, 0) {
		t.Fatalf("seed file not applied")
	}
}

func TestSeedRejectsBadData(t *testing.T) {
	if _, err := ParseSeed([]byte("role_unlocks:\n  gaming: 1\n")); err == nil {
		t.Fatalf("unknown category in role_unlocks should fail")
	}
	seed, err := ParseSeed([]byte("missions:\n  - {id: a, title: A, category: muslim, xp: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := seed.Build(); err == nil {
		t.Fatalf("zero xp mission should fail to build")
	}
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}
