package services

import (
	"context"
	"time"

	"insan-mission-system/models"
	"insan-mission-system/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Deps wires a MissionService. Only State and Scheduler are required.
type Deps struct {
	State     *AppState
	Scheduler gocron.Scheduler
	// Clock must be the clock the Scheduler was built with
	// (gocron.WithClock). Intention holds are scheduled at Clock.Now()
	// plus the hold, so a mismatched pair fires at the wrong time.
	Clock         clockwork.Clock
	Ledger        XPLedger
	Logger        *zap.Logger
	IntentionHold time.Duration
}

// MissionService is the entry point used by handlers. It owns no domain
// rules of its own: it locks the app state, calls the engines and swaps in
// their results.
type MissionService struct {
	state     *AppState
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	ledger    XPLedger
	log       *zap.Logger
	hold      time.Duration
}

func NewMissionService(d Deps) *MissionService {
	s := &MissionService{
		state:     d.State,
		scheduler: d.Scheduler,
		clock:     d.Clock,
		ledger:    d.Ledger,
		log:       d.Logger,
		hold:      d.IntentionHold,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.ledger == nil {
		s.ledger = NewMemoryLedger(0)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.hold <= 0 {
		s.hold = IntentionHoldDuration
	}
	return s
}

// --- level & policy ---

func (s *MissionService) ComputeLevel(xp int64) int { return ComputeLevel(xp) }

func (s *MissionService) ComputeProgress(xp int64, level int) LevelProgress {
	return ComputeProgress(xp, level)
}

func (s *MissionService) IsCategoryUnlocked(c models.Category, userLevel int) bool {
	return s.state.Policy.IsUnlocked(c, userLevel)
}

func (s *MissionService) SetCategoryMinLevel(c models.Category, level int) error {
	if err := s.state.Policy.SetMinLevel(c, level); err != nil {
		return err
	}
	s.log.Info("🔓 role unlock updated", zap.String("category", string(c)), zap.Int("min_level", s.state.Policy.MinLevel(c)))
	return nil
}

func (s *MissionService) RoleUnlocks() map[models.Category]int {
	return s.state.Policy.Snapshot()
}

// --- sessions ---

// NewUserInput is what a login or registration hands to StartSession.
type NewUserInput struct {
	ID       string
	Name     string
	Username string
	Gender   models.Gender
	Role     models.Role
	TotalXP  int64
}

// StartSession creates the user and a fresh session for today. Starting a
// session for an id that already has one replaces both.
func (s *MissionService) StartSession(in NewUserInput) (models.User, error) {
	if in.ID == "" {
		return models.User{}, &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !in.Gender.Valid() {
		return models.User{}, &ValidationError{Field: "gender", Reason: "must be ikhwan or akhwat"}
	}
	if in.Role == "" {
		in.Role = models.RoleNewbie
	}
	if !in.Role.Valid() {
		return models.User{}, &ValidationError{Field: "role", Reason: "unknown role " + string(in.Role)}
	}
	if in.TotalXP < 0 {
		return models.User{}, &ValidationError{Field: "total_xp", Reason: "must not be negative"}
	}

	now := s.clock.Now()
	user := models.User{
		ID:              in.ID,
		Name:            in.Name,
		Username:        in.Username,
		Gender:          in.Gender,
		Role:            in.Role,
		TotalXP:         in.TotalXP,
		Level:           ComputeLevel(in.TotalXP),
		VelocityHistory: DefaultVelocityHistory(now),
	}
	userID := user.ID
	sess := &Session{
		ID:        utils.NewSessionID(),
		UserID:    userID,
		Day:       now.Format(DayFormat),
		StartedAt: now,
		LastSeen:  now,
	}
	sess.Intention = NewIntentionGate(s.scheduler, s.clock, s.hold, func(at time.Time) {
		s.intentionConfirmed(userID, sess.Day, at)
	})

	s.state.mu.Lock()
	prev := s.state.sessions[userID]
	s.state.drop(userID)
	s.state.users[userID] = user
	s.state.sessions[userID] = sess
	s.state.mu.Unlock()

	if prev != nil {
		prev.Intention.Release()
	}

	s.log.Info("👤 session started",
		zap.String("user_id", userID),
		zap.String("session_id", sess.ID),
		zap.String("role", string(user.Role)),
		zap.Int("level", user.Level))
	return user.Clone(), nil
}

// EndSession destroys the user, the session and its completion entries.
func (s *MissionService) EndSession(userID string) error {
	s.state.mu.Lock()
	_, sess, err := s.state.lookup(userID)
	if err != nil {
		s.state.mu.Unlock()
		return err
	}
	s.state.drop(userID)
	s.state.mu.Unlock()

	sess.Intention.Release()
	s.log.Info("👋 session ended", zap.String("user_id", userID), zap.String("session_id", sess.ID))
	return nil
}

// User returns a copy of the current user and marks the session as seen.
func (s *MissionService) User(userID string) (models.User, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return models.User{}, err
	}
	sess.LastSeen = s.clock.Now()
	return u.Clone(), nil
}

// ActiveSessions counts live sessions.
func (s *MissionService) ActiveSessions() int {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return len(s.state.sessions)
}

// --- today's missions ---

// ResolveTodayMissions returns the user's instances for the session day.
func (s *MissionService) ResolveTodayMissions(userID string) ([]models.MissionInstance, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return nil, err
	}
	return s.resolveLocked(u, sess), nil
}

func (s *MissionService) resolveLocked(u models.User, sess *Session) []models.MissionInstance {
	instances := ResolveTodayMissions(s.state.Catalog.List(), u, s.state.Policy, s.state.isCompleted, sess.Day)
	if sess.Exempt && u.Gender == models.GenderAkhwat {
		for i := range instances {
			if instances[i].Category == ReservedCategory {
				instances[i].Exempt = true
			}
		}
	}
	return instances
}

// TodayGroups is ResolveTodayMissions grouped by category.
func (s *MissionService) TodayGroups(userID string) ([]models.CategoryGroup, error) {
	instances, err := s.ResolveTodayMissions(userID)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(instances), nil
}

// SetExemptMode toggles the akhwat haid display mode for the session.
func (s *MissionService) SetExemptMode(userID string, on bool) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return err
	}
	if u.Gender != models.GenderAkhwat {
		return &ValidationError{Field: "exempt", Reason: "only available to akhwat"}
	}
	sess.Exempt = on
	return nil
}

// --- intention gate ---

func (s *MissionService) gate(userID string) (*IntentionGate, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	_, sess, err := s.state.lookup(userID)
	if err != nil {
		return nil, err
	}
	sess.LastSeen = s.clock.Now()
	return sess.Intention, nil
}

// ArmIntention starts the niat hold for the session.
func (s *MissionService) ArmIntention(userID string) (IntentionStatus, error) {
	g, err := s.gate(userID)
	if err != nil {
		return IntentionStatus{}, err
	}
	if err := g.Arm(); err != nil {
		return IntentionStatus{}, err
	}
	return g.Status(), nil
}

// ReleaseIntention ends the hold; before the deadline this cancels it.
func (s *MissionService) ReleaseIntention(userID string) (IntentionStatus, error) {
	g, err := s.gate(userID)
	if err != nil {
		return IntentionStatus{}, err
	}
	if g.Release() {
		s.log.Debug("✋ intention hold released early", zap.String("user_id", userID))
	}
	return g.Status(), nil
}

func (s *MissionService) IntentionStatus(userID string) (IntentionStatus, error) {
	g, err := s.gate(userID)
	if err != nil {
		return IntentionStatus{}, err
	}
	return g.Status(), nil
}

// IntentionDone exposes the gate's confirmation channel.
func (s *MissionService) IntentionDone(userID string) (<-chan struct{}, error) {
	g, err := s.gate(userID)
	if err != nil {
		return nil, err
	}
	return g.Done(), nil
}

func (s *MissionService) intentionConfirmed(userID, day string, at time.Time) {
	s.state.mu.Lock()
	u, ok := s.state.users[userID]
	s.state.mu.Unlock()
	if !ok {
		return
	}
	s.log.Info("🤲 intention confirmed", zap.String("user_id", userID), zap.Time("at", at))
	s.record(context.Background(), models.XPEvent{
		UserID:  userID,
		Day:     day,
		Reason:  models.ReasonIntentionConfirmed,
		TotalXP: u.TotalXP,
		Level:   u.Level,
	})
}

// --- completion ---

// CompleteMission marks missionID done for today and awards its XP.
func (s *MissionService) CompleteMission(ctx context.Context, userID, missionID string) (CompletionResult, error) {
	return s.setCompletion(ctx, userID, missionID, true)
}

// UncompleteMission reverses a completion. The intention gate is not checked.
func (s *MissionService) UncompleteMission(ctx context.Context, userID, missionID string) (CompletionResult, error) {
	return s.setCompletion(ctx, userID, missionID, false)
}

// ToggleMission flips the mission's state.
func (s *MissionService) ToggleMission(ctx context.Context, userID, missionID string) (CompletionResult, error) {
	s.state.mu.Lock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		s.state.mu.Unlock()
		return CompletionResult{}, err
	}
	done := s.state.isCompleted(models.CompletionKey{UserID: u.ID, MissionID: missionID, Day: sess.Day})
	s.state.mu.Unlock()
	return s.setCompletion(ctx, userID, missionID, !done)
}

func (s *MissionService) setCompletion(ctx context.Context, userID, missionID string, complete bool) (CompletionResult, error) {
	s.state.mu.Lock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		s.state.mu.Unlock()
		return CompletionResult{}, err
	}
	sess.LastSeen = s.clock.Now()

	def, ok := s.state.Catalog.Get(missionID)
	if !ok || !IsVisible(def, u) {
		s.state.mu.Unlock()
		return CompletionResult{}, &NotFoundError{Kind: "mission", ID: missionID}
	}

	key := models.CompletionKey{UserID: u.ID, MissionID: def.ID, Day: sess.Day}
	tr := Transition{
		User:               u,
		Mission:            def,
		Policy:             s.state.Policy,
		IntentionConfirmed: sess.Intention.Confirmed(),
		Completed:          s.state.isCompleted(key),
		Complete:           complete,
		AwardedXP:          s.state.awarded(key),
	}
	next, changed, err := ApplyTransition(tr)
	if err != nil {
		s.state.mu.Unlock()
		return CompletionResult{}, err
	}
	if changed {
		s.state.users[u.ID] = next
		s.state.setCompleted(key, complete, def.XP)
	}

	inst := models.MissionInstance{
		MissionDefinition: def,
		Completed:         s.state.isCompleted(key),
		MinLevelRequired:  s.state.Policy.MinLevel(def.Category),
		Exempt:            sess.Exempt && def.Category == ReservedCategory && u.Gender == models.GenderAkhwat,
	}
	res := resultFor(next, inst, changed)
	s.state.mu.Unlock()

	if changed {
		reason := models.ReasonMissionCompleted
		if !complete {
			reason = models.ReasonMissionUncompleted
		}
		s.log.Info("✅ mission toggled",
			zap.String("user_id", u.ID),
			zap.String("mission_id", def.ID),
			zap.Bool("completed", complete),
			zap.Int64("total_xp", next.TotalXP),
			zap.Int("level", next.Level))
		if next.Level != u.Level {
			s.log.Info("🎮 level changed", zap.String("user_id", u.ID), zap.Int("from", u.Level), zap.Int("to", next.Level))
		}
		s.record(ctx, models.XPEvent{
			UserID:    u.ID,
			MissionID: def.ID,
			Category:  def.Category,
			Day:       key.Day,
			Reason:    reason,
			Delta:     tr.Delta(),
			TotalXP:   next.TotalXP,
			Level:     next.Level,
		})
	}
	return res, nil
}

// record writes to the ledger; failures are logged only.
func (s *MissionService) record(ctx context.Context, ev models.XPEvent) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.clock.Now()
	}
	if err := s.ledger.Record(ctx, ev); err != nil {
		s.log.Warn("xp ledger write failed", zap.String("user_id", ev.UserID), zap.Error(err))
	}
}

// RecentEvents returns the user's latest ledger entries, newest first.
func (s *MissionService) RecentEvents(ctx context.Context, userID string, limit int) ([]models.XPEvent, error) {
	return s.ledger.Recent(ctx, userID, limit)
}

// --- catalog ---

// AddPersonalMission creates a mission visible only to creatorID.
func (s *MissionService) AddPersonalMission(title string, category models.Category, creatorID string) (models.MissionDefinition, error) {
	def, err := s.state.Catalog.AddPersonal(title, category, creatorID)
	if err != nil {
		return models.MissionDefinition{}, err
	}
	s.log.Info("📝 personal mission added", zap.String("user_id", creatorID), zap.String("mission_id", def.ID))
	return def, nil
}

func (s *MissionService) ListMissions() []models.MissionDefinition {
	return s.state.Catalog.List()
}

// AddSystemMission adds a mission shared by all users.
func (s *MissionService) AddSystemMission(def models.MissionDefinition) (models.MissionDefinition, error) {
	def.UserID = ""
	if def.XP == 0 {
		def.XP = DefaultAdminMissionXP
	}
	return s.state.Catalog.Add(def)
}

func (s *MissionService) UpdateMission(id string, patch models.MissionPatch) (models.MissionDefinition, error) {
	return s.state.Catalog.Update(id, patch)
}

// RemoveMission deletes a mission. XP already earned from it stays.
func (s *MissionService) RemoveMission(id string) {
	s.state.Catalog.Remove(id)
}

// --- planning ---

// PlanView is the planning tab: candidates plus the session's selection.
type PlanView struct {
	Candidates []models.PlanCandidate `json:"candidates"`
	PlanState
}

// ResolvePlanCandidates lists the missions the user may plan.
func (s *MissionService) ResolvePlanCandidates(userID string) ([]models.PlanCandidate, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, _, err := s.state.lookup(userID)
	if err != nil {
		return nil, err
	}
	return ResolvePlanCandidates(s.state.Catalog.List(), u, s.state.Policy), nil
}

// LoadPlan returns the ids that would be planned for the user right now.
func (s *MissionService) LoadPlan(userID string) ([]string, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, _, err := s.state.lookup(userID)
	if err != nil {
		return nil, err
	}
	return LoadPlan(u, ResolvePlanCandidates(s.state.Catalog.List(), u, s.state.Policy)), nil
}

// Plan returns the session plan, seeding it on first use.
func (s *MissionService) Plan(userID string) (PlanView, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return PlanView{}, err
	}
	candidates := ResolvePlanCandidates(s.state.Catalog.List(), u, s.state.Policy)
	s.ensurePlanLocked(u, sess, candidates)
	return PlanView{Candidates: candidates, PlanState: copyPlan(sess.plan)}, nil
}

func (s *MissionService) ensurePlanLocked(u models.User, sess *Session, candidates []models.PlanCandidate) {
	if !sess.planLoaded {
		sess.plan = NewPlanState(u, candidates)
		sess.planLoaded = true
	}
}

func copyPlan(p PlanState) PlanState {
	p.Selection = append([]string{}, p.Selection...)
	return p
}

// TogglePlan flips one mission in the session plan and marks it unsaved.
func (s *MissionService) TogglePlan(userID, missionID string) (PlanState, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return PlanState{}, err
	}
	candidates := ResolvePlanCandidates(s.state.Catalog.List(), u, s.state.Policy)
	s.ensurePlanLocked(u, sess, candidates)

	next, err := TogglePlan(sess.plan, missionID, candidates, u.Level)
	if err != nil {
		return PlanState{}, err
	}
	sess.plan = next
	return copyPlan(next), nil
}

// SavePlan commits selection as tomorrow's plan. A nil selection commits
// the session's working selection, minus any mission removed since it was
// loaded.
func (s *MissionService) SavePlan(userID string, selection []string) (PlanState, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		return PlanState{}, err
	}
	candidates := ResolvePlanCandidates(s.state.Catalog.List(), u, s.state.Policy)
	s.ensurePlanLocked(u, sess, candidates)
	if selection == nil {
		selection = keepCandidates(sess.plan.Selection, candidates)
	}

	next, err := SavePlan(u, selection, candidates)
	if err != nil {
		return PlanState{}, err
	}
	s.state.users[u.ID] = next
	sess.plan = PlanState{
		Selection:    LoadPlan(next, candidates),
		Saved:        true,
		UsingDefault: len(next.PlannedMissionIDs) == 0,
	}
	s.log.Info("🗓️ plan saved", zap.String("user_id", u.ID), zap.Int("missions", len(next.PlannedMissionIDs)))
	return copyPlan(sess.plan), nil
}

// --- dashboard ---

// Dashboard builds the role-specific home view for the user.
func (s *MissionService) Dashboard(userID string) (Dashboard, error) {
	s.state.mu.Lock()
	u, sess, err := s.state.lookup(userID)
	if err != nil {
		s.state.mu.Unlock()
		return Dashboard{}, err
	}
	in := DashboardInput{
		User:           u.Clone(),
		Today:          s.resolveLocked(u, sess),
		Catalog:        s.state.Catalog.List(),
		RoleUnlocks:    s.state.Policy.Snapshot(),
		Intention:      sess.Intention.Status(),
		ActiveSessions: len(s.state.sessions),
	}
	s.state.mu.Unlock()
	return BuildDashboard(in)
}
