package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"insan-mission-system/models"

	"github.com/jonboulle/clockwork"
)

func newTestService(t *testing.T, clock clockwork.Clock) (*MissionService, *MemoryLedger) {
	t.Helper()
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	catalog, policy, err := seed.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ledger := NewMemoryLedger(0)
	svc := NewMissionService(Deps{
		State:         NewAppState(catalog, policy),
		Scheduler:     newTestScheduler(t),
		Clock:         clock,
		Ledger:        ledger,
		IntentionHold: 20 * time.Millisecond,
	})
	return svc, ledger
}

func startUser(t *testing.T, svc *MissionService, id string, g models.Gender, xp int64) models.User {
	t.Helper()
	u, err := svc.StartSession(NewUserInput{ID: id, Name: id, Gender: g, Role: models.RoleMember, TotalXP: xp})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return u
}

func confirmIntention(t *testing.T, svc *MissionService, userID string) {
	t.Helper()
	if _, err := svc.ArmIntention(userID); err != nil {
		t.Fatalf("ArmIntention: %v", err)
	}
	done, err := svc.IntentionDone(userID)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("intention never confirmed")
	}
}

func TestStartSession(t *testing.T) {
	svc, _ := newTestService(t, nil)
	u := startUser(t, svc, "u1", models.GenderIkhwan, 1250)
	if u.Level != 3 || len(u.VelocityHistory) != 7 {
		t.Fatalf("unexpected user %+v", u)
	}

	_, err := svc.StartSession(NewUserInput{ID: "u2", Gender: models.Gender("x")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, err := svc.User("u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed start must not create a user")
	}
}

func TestCompleteMissionFlow(t *testing.T) {
	svc, ledger := newTestService(t, nil)
	ctx := context.Background()
	startUser(t, svc, "u1", models.GenderIkhwan, 0)

	if _, err := svc.CompleteMission(ctx, "u1", "m6"); !errors.Is(err, ErrIntentionNotConfirmed) {
		t.Fatalf("want intention error, got %v", err)
	}
	if u, _ := svc.User("u1"); u.TotalXP != 0 {
		t.Fatalf("failed completion must not change xp")
	}

	confirmIntention(t, svc, "u1")

	res, err := svc.CompleteMission(ctx, "u1", "m6")
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if !res.Changed || res.NewTotalXP != 99 || res.NewLevel != 0 || !res.Instance.Completed {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.NewVelocityHistory[6].XP != 99 {
		t.Fatalf("today's velocity should be 99, got %d", res.NewVelocityHistory[6].XP)
	}

	res, err = svc.CompleteMission(ctx, "u1", "m6")
	if err != nil || res.Changed || res.NewTotalXP != 99 {
		t.Fatalf("second completion must be a no-op: %+v %v", res, err)
	}

	res, err = svc.ToggleMission(ctx, "u1", "m1")
	if err != nil || res.NewTotalXP != 198 || res.NewLevel != 1 {
		t.Fatalf("toggle on: %+v %v", res, err)
	}

	res, err = svc.UncompleteMission(ctx, "u1", "m6")
	if err != nil || !res.Changed || res.NewTotalXP != 99 || res.Instance.Completed {
		t.Fatalf("uncomplete: %+v %v", res, err)
	}

	events, _ := ledger.Recent(ctx, "u1", 10)
	if len(events) != 4 {
		t.Fatalf("want 4 ledger events, got %d", len(events))
	}
	if events[0].Reason != models.ReasonMissionUncompleted || events[0].Delta != -99 {
		t.Fatalf("newest event should be the undo, got %+v", events[0])
	}
	if events[3].Reason != models.ReasonIntentionConfirmed {
		t.Fatalf("oldest event should be the intention, got %+v", events[3])
	}
}

func TestCompleteMissionNotVisible(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	startUser(t, svc, "u1", models.GenderIkhwan, 0)
	confirmIntention(t, svc, "u1")

	if _, err := svc.CompleteMission(ctx, "u1", "m1_f"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("akhwat-only mission: want not found, got %v", err)
	}
	if _, err := svc.CompleteMission(ctx, "u1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown mission: want not found, got %v", err)
	}

	other, err := svc.AddPersonalMission("Rahasia", models.CategoryBebas, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteMission(ctx, "u1", other.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign personal mission: want not found, got %v", err)
	}
}

func TestLockedBeforeIntention(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "u1", models.GenderIkhwan, 0)

	_, err := svc.CompleteMission(context.Background(), "u1", "s1")
	if !errors.Is(err, ErrLockedCategory) {
		t.Fatalf("want locked error, got %v", err)
	}

	if err := svc.SetCategoryMinLevel(models.CategorySunnah, 0); err != nil {
		t.Fatal(err)
	}
	_, err = svc.CompleteMission(context.Background(), "u1", "s1")
	if !errors.Is(err, ErrIntentionNotConfirmed) {
		t.Fatalf("after unlock want intention error, got %v", err)
	}
}

func TestPolicyChangeAppliesToNextResolution(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "u1", models.GenderIkhwan, 100)

	locked := func() bool {
		instances, err := svc.ResolveTodayMissions("u1")
		if err != nil {
			t.Fatal(err)
		}
		for _, i := range instances {
			if i.ID == "p1" {
				return i.Locked
			}
		}
		t.Fatalf("p1 missing")
		return false
	}
	if locked() {
		t.Fatalf("bekerja is open by default")
	}
	if err := svc.SetCategoryMinLevel(models.CategoryBekerja, 2); err != nil {
		t.Fatal(err)
	}
	if !locked() {
		t.Fatalf("bekerja should now be locked at level 1")
	}
}

func TestTodayGroups(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "u1", models.GenderAkhwat, 0)
	groups, err := svc.TodayGroups("u1")
	if err != nil {
		t.Fatal(err)
	}
	if groups[0].Category != models.CategoryMuslim || len(groups[0].Missions) != 6 {
		t.Fatalf("first group should hold 6 muslim missions, got %+v", groups[0])
	}
	for _, m := range groups[0].Missions {
		if m.GenderTarget != nil && *m.GenderTarget != models.GenderAkhwat {
			t.Fatalf("ikhwan mission leaked: %s", m.ID)
		}
	}
}

func TestExemptMode(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "ikhwan", models.GenderIkhwan, 0)
	startUser(t, svc, "akhwat", models.GenderAkhwat, 0)

	if err := svc.SetExemptMode("ikhwan", true); !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err := svc.SetExemptMode("akhwat", true); err != nil {
		t.Fatal(err)
	}
	instances, _ := svc.ResolveTodayMissions("akhwat")
	for _, i := range instances {
		if want := i.Category == models.CategoryMuslim; i.Exempt != want {
			t.Fatalf("%s: exempt=%v", i.ID, i.Exempt)
		}
	}
}

func TestEndSessionClearsCompletions(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()
	startUser(t, svc, "u1", models.GenderIkhwan, 0)
	confirmIntention(t, svc, "u1")
	if _, err := svc.CompleteMission(ctx, "u1", "m6"); err != nil {
		t.Fatal(err)
	}

	if err := svc.EndSession("u1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.EndSession("u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second EndSession: want not found, got %v", err)
	}

	startUser(t, svc, "u1", models.GenderIkhwan, 0)
	instances, _ := svc.ResolveTodayMissions("u1")
	for _, i := range instances {
		if i.Completed {
			t.Fatalf("%s should not be completed in a new session", i.ID)
		}
	}
	if st, _ := svc.IntentionStatus("u1"); st.Confirmed {
		t.Fatalf("new session needs a new intention")
	}
}

func TestPlanFlow(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "u1", models.GenderIkhwan, 0)

	view, err := svc.Plan("u1")
	if err != nil {
		t.Fatal(err)
	}
	if !view.UsingDefault || len(view.Selection) != len(view.Candidates) || len(view.Candidates) != 13 {
		t.Fatalf("unexpected default plan: %d selected of %d", len(view.Selection), len(view.Candidates))
	}

	// drop everything except m6 through toggles
	for _, id := range view.Selection {
		if id == "m6" {
			continue
		}
		if _, err := svc.TogglePlan("u1", id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if _, err := svc.TogglePlan("u1", "s1"); !errors.Is(err, ErrLockedCategory) {
		t.Fatalf("adding locked s1: want locked error, got %v", err)
	}

	st, err := svc.SavePlan("u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Saved || st.UsingDefault || len(st.Selection) != 1 || st.Selection[0] != "m6" {
		t.Fatalf("unexpected saved plan %+v", st)
	}
	planned, _ := svc.LoadPlan("u1")
	if len(planned) != 1 || planned[0] != "m6" {
		t.Fatalf("LoadPlan: %v", planned)
	}

	if _, err := svc.SavePlan("u1", []string{"m1_f"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("saving a hidden mission: want not found, got %v", err)
	}
	if planned, _ := svc.LoadPlan("u1"); len(planned) != 1 {
		t.Fatalf("failed save must not change the plan")
	}

	// saving the plan does not touch today's missions
	instances, _ := svc.ResolveTodayMissions("u1")
	if len(instances) != 13 {
		t.Fatalf("today's list changed after saving plan: %d", len(instances))
	}
}

func TestPlanSurvivesRemovedMission(t *testing.T) {
	svc, _ := newTestService(t, nil)
	startUser(t, svc, "u1", models.GenderIkhwan, 0)

	if _, err := svc.SavePlan("u1", []string{"p1", "p2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Plan("u1"); err != nil {
		t.Fatal(err)
	}
	svc.RemoveMission("p1")

	planned, err := svc.LoadPlan("u1")
	if err != nil || len(planned) != 1 || planned[0] != "p2" {
		t.Fatalf("want [p2], got %v %v", planned, err)
	}
	st, err := svc.SavePlan("u1", nil)
	if err != nil {
		t.Fatalf("want the working plan to save, got %v", err)
	}
	if len(st.Selection) != 1 || st.Selection[0] != "p2" {
		t.Fatalf("want [p2], got %v", st.Selection)
	}
}

func TestUncompleteAfterXPEditRefundsAward(t *testing.T) {
	svc, ledger := newTestService(t, nil)
	ctx := context.Background()
	startUser(t, svc, "u1", models.GenderIkhwan, 0)
	confirmIntention(t, svc, "u1")

	if res, err := svc.CompleteMission(ctx, "u1", "m6"); err != nil || res.NewTotalXP != 99 {
		t.Fatalf("complete: %+v %v", res, err)
	}
	xp := int64(10)
	if _, err := svc.UpdateMission("m6", models.MissionPatch{XP: &xp}); err != nil {
		t.Fatal(err)
	}
	res, err := svc.UncompleteMission(ctx, "u1", "m6")
	if err != nil || res.NewTotalXP != 0 {
		t.Fatalf("want total 0, got %+v %v", res, err)
	}
	events, _ := ledger.Recent(ctx, "u1", 1)
	if len(events) != 1 || events[0].Delta != -99 {
		t.Fatalf("want ledger delta -99, got %+v", events)
	}
}

func TestAddSystemMissionDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil)
	def, err := svc.AddSystemMission(models.MissionDefinition{Title: "Kajian Pekanan", Category: models.CategoryDakwah, UserID: "sneaky"})
	if err != nil {
		t.Fatal(err)
	}
	if def.XP != DefaultAdminMissionXP || def.IsPersonal() {
		t.Fatalf("unexpected %+v", def)
	}

	svc.RemoveMission(def.ID)
	startUser(t, svc, "u1", models.GenderIkhwan, 0)
	confirmIntention(t, svc, "u1")
	if _, err := svc.CompleteMission(context.Background(), "u1", def.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed mission: want not found, got %v", err)
	}
}

func TestSweepIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, clock)
	startUser(t, svc, "idle", models.GenderIkhwan, 0)
	startUser(t, svc, "busy", models.GenderAkhwat, 0)

	clock.Advance(6 * time.Hour)
	if _, err := svc.User("busy"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(7 * time.Hour)

	if n := svc.SweepIdleSessions(12 * time.Hour); n != 1 {
		t.Fatalf("want 1 swept, got %d", n)
	}
	if _, err := svc.User("idle"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle session should be gone")
	}
	if svc.ActiveSessions() != 1 {
		t.Fatalf("busy session should remain")
	}
}
