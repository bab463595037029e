package services

import (
	"errors"
	"testing"
	"time"

	"insan-mission-system/models"
)

func TestDefaultVelocityHistory(t *testing.T) {
	// 2026-01-02 is a Friday
	h := DefaultVelocityHistory(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))
	if len(h) != 7 {
		t.Fatalf("want 7 points, got %d", len(h))
	}
	if h[6].Day != "Jm" || h[0].Day != "Sb" {
		t.Fatalf("want Sb..Jm, got %v", h)
	}
}

func TestApplyXPDeltaClampsAtZero(t *testing.T) {
	u := testUser("u1", models.GenderIkhwan, 50)
	u.VelocityHistory = []models.VelocityPoint{{Day: "Sn", XP: 0}, {Day: "Sl", XP: 10}}

	next := ApplyXPDelta(u, -99)
	if next.TotalXP != 0 || next.Level != 0 {
		t.Fatalf("want 0/0, got %d/%d", next.TotalXP, next.Level)
	}
	if next.VelocityHistory[1].XP != 0 {
		t.Fatalf("today's velocity must floor at 0, got %d", next.VelocityHistory[1].XP)
	}
	if u.TotalXP != 50 || u.VelocityHistory[1].XP != 10 {
		t.Fatalf("input user must not be mutated")
	}
}

func TestApplyTransitionCheckOrder(t *testing.T) {
	policy := NewRoleUnlockPolicy(nil)
	u := testUser("u1", models.GenderIkhwan, 0)
	sunnah := models.MissionDefinition{ID: "s1", Category: models.CategorySunnah, XP: 20}

	// locked wins over the missing intention
	_, _, err := ApplyTransition(Transition{User: u, Mission: sunnah, Policy: policy, Complete: true})
	var locked *LockedCategoryError
	if !errors.As(err, &locked) || locked.RequiredLevel != 1 || locked.UserLevel != 0 {
		t.Fatalf("want locked error, got %v", err)
	}

	tilawah := models.MissionDefinition{ID: "m6", Category: models.CategoryMuslim, XP: 99}
	_, _, err = ApplyTransition(Transition{User: u, Mission: tilawah, Policy: policy, Complete: true})
	if !errors.Is(err, ErrIntentionNotConfirmed) {
		t.Fatalf("want intention error, got %v", err)
	}

	// un-completing never needs the intention
	u.TotalXP, u.Level = 99, 0
	next, changed, err := ApplyTransition(Transition{User: u, Mission: tilawah, Policy: policy, Completed: true, Complete: false})
	if err != nil || !changed || next.TotalXP != 0 {
		t.Fatalf("uncomplete: %+v %v %v", next, changed, err)
	}
}

func TestApplyTransitionCompleteThenUndo(t *testing.T) {
	policy := NewRoleUnlockPolicy(nil)
	u := testUser("u1", models.GenderIkhwan, 1250)
	u.VelocityHistory = DefaultVelocityHistory(time.Now())
	m := models.MissionDefinition{ID: "m6", Category: models.CategoryMuslim, XP: 99}

	done, changed, err := ApplyTransition(Transition{User: u, Mission: m, Policy: policy, IntentionConfirmed: true, Complete: true})
	if err != nil || !changed {
		t.Fatalf("complete: %v %v", changed, err)
	}
	if done.TotalXP != 1349 || done.Level != 3 || done.VelocityHistory[6].XP != 99 {
		t.Fatalf("unexpected %+v", done)
	}

	again, changed, err := ApplyTransition(Transition{User: done, Mission: m, Policy: policy, IntentionConfirmed: true, Completed: true, Complete: true})
	if err != nil || changed || again.TotalXP != 1349 {
		t.Fatalf("second complete must be a no-op: %v %v %d", changed, err, again.TotalXP)
	}

	undone, changed, err := ApplyTransition(Transition{User: done, Mission: m, Policy: policy, Completed: true, Complete: false})
	if err != nil || !changed || undone.TotalXP != 1250 || undone.VelocityHistory[6].XP != 0 {
		t.Fatalf("undo: %+v %v %v", undone, changed, err)
	}
}

func TestApplyTransitionUndoUsesAwardedXP(t *testing.T) {
	policy := NewRoleUnlockPolicy(nil)
	u := testUser("u1", models.GenderIkhwan, 99)
	// the mission was worth 99 when completed and has since been edited to 10
	m := models.MissionDefinition{ID: "m6", Category: models.CategoryMuslim, XP: 10}

	tr := Transition{User: u, Mission: m, Policy: policy, Completed: true, Complete: false, AwardedXP: 99}
	if d := tr.Delta(); d != -99 {
		t.Fatalf("want delta -99, got %d", d)
	}
	next, changed, err := ApplyTransition(tr)
	if err != nil || !changed || next.TotalXP != 0 {
		t.Fatalf("want total 0 after undo, got %d (%v %v)", next.TotalXP, changed, err)
	}

	tr.AwardedXP = 0
	if d := tr.Delta(); d != -10 {
		t.Fatalf("without a recorded award want -10, got %d", d)
	}
}

func TestApplyTransitionLevelUp(t *testing.T) {
	u := testUser("u1", models.GenderIkhwan, 1550)
	m := models.MissionDefinition{ID: "m6", Category: models.CategoryMuslim, XP: 99}
	next, _, err := ApplyTransition(Transition{User: u, Mission: m, Policy: NewRoleUnlockPolicy(nil), IntentionConfirmed: true, Complete: true})
	if err != nil {
		t.Fatal(err)
	}
	if next.TotalXP != 1649 || next.Level != 4 {
		t.Fatalf("want 1649/4, got %d/%d", next.TotalXP, next.Level)
	}
}
