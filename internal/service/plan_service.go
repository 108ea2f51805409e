package service

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/plan"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/securestore"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Secure storage keys, namespaced per user with securestore.UserKey.
const (
	planStorageKey      = "weekly_plan_v1"
	completedKeyPattern = "weekly_completed_%s"
)

var ErrPlanDayNotFound = errors.New("plan day not found")

// WeekStatus is the set of plan tags finished in one week.
type WeekStatus struct {
	WeekKey   string         `json:"weekKey"`
	Completed plan.Completed `json:"completed"`
}

// PlanView is the plan as shown on the plan screen.
type PlanView struct {
	Days    []domain.PlanDay `json:"days"`
	Week    WeekStatus       `json:"week"`
	CanUndo bool             `json:"canUndo"`
}

// PlanService owns the weekly plan and its completion marks.
type PlanService interface {
	GetPlan(ctx context.Context, userID string) (*PlanView, error)
	UpsertDay(ctx context.Context, userID string, form plan.Form) (*domain.PlanDay, error)
	DeleteDay(ctx context.Context, userID, dayID string) error
	UndoDelete(ctx context.Context, userID string) (bool, error)
	// MarkCompleted adds tag to the completed set of the week containing at.
	MarkCompleted(ctx context.Context, userID, tag string, at time.Time) error
	Completed(ctx context.Context, userID string, at time.Time) (*WeekStatus, error)
}

type planService struct {
	store   securestore.Store
	mirror  repository.PlanRepository
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.Manager

	mu   sync.Mutex
	undo map[string]*plan.Removed
}

// NewPlanService creates the service. mirror may be nil when no backend is
// configured.
func NewPlanService(store securestore.Store, mirror repository.PlanRepository, loc *time.Location, m *metrics.Manager) PlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &planService{
		store:   store,
		mirror:  mirror,
		loc:     loc,
		now:     time.Now,
		metrics: m,
		undo:    make(map[string]*plan.Removed),
	}
}

// load reads the stored plan. When nothing is stored yet the plan is seeded
// from the backend, then from the default schedule. Callers hold s.mu.
func (s *planService) load(ctx context.Context, userID string) (*plan.Plan, error) {
	var days []domain.PlanDay
	found, err := securestore.GetJSON(ctx, s.store, securestore.UserKey(userID, planStorageKey), &days)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	if !found && s.mirror != nil {
		remote, err := s.mirror.List(ctx, userID)
		if err != nil {
			log.Warnf("load remote plan for user %s: %v", userID, err)
		} else if len(remote) > 0 {
			days = remote
		}
	}
	p := plan.New(days)
	p.Undo = s.undo[userID]
	return p, nil
}

// save writes the full plan blob and mirrors it to the backend. Mirror
// failures are logged only.
func (s *planService) save(ctx context.Context, userID string, p *plan.Plan) error {
	if err := securestore.SetJSON(ctx, s.store, securestore.UserKey(userID, planStorageKey), p.Days); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	s.undo[userID] = p.Undo

	if s.mirror != nil {
		if err := s.mirror.ReplaceAll(ctx, userID, p.Days); err != nil {
			log.Warnf("mirror plan for user %s: %v", userID, err)
			s.metrics.MirrorFailed("plan")
		}
	}
	return nil
}

func (s *planService) GetPlan(ctx context.Context, userID string) (*PlanView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	week, err := s.completed(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return &PlanView{Days: p.Days, Week: *week, CanUndo: p.Undo != nil}, nil
}

func (s *planService) UpsertDay(ctx context.Context, userID string, form plan.Form) (*domain.PlanDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if form.ID != "" {
		if _, ok := p.Find(form.ID); !ok {
			return nil, ErrPlanDayNotFound
		}
	}

	day := p.Upsert(form)
	if err := s.save(ctx, userID, p); err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *planService) DeleteDay(ctx context.Context, userID, dayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := p.Delete(dayID); err != nil {
		if errors.Is(err, plan.ErrDayNotFound) {
			return ErrPlanDayNotFound
		}
		return err
	}
	return s.save(ctx, userID, p)
}

func (s *planService) UndoDelete(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if !p.UndoDelete() {
		s.undo[userID] = nil
		return false, nil
	}
	return true, s.save(ctx, userID, p)
}

func (s *planService) MarkCompleted(ctx context.Context, userID, tag string, at time.Time) error {
	if tag == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	week, err := s.completed(ctx, userID, at)
	if err != nil {
		return err
	}
	if week.Completed.Contains(tag) {
		return nil
	}
	key := securestore.UserKey(userID, fmt.Sprintf(completedKeyPattern, week.WeekKey))
	return securestore.SetJSON(ctx, s.store, key, week.Completed.Add(tag))
}

func (s *planService) Completed(ctx context.Context, userID string, at time.Time) (*WeekStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed(ctx, userID, at)
}

func (s *planService) completed(ctx context.Context, userID string, at time.Time) (*WeekStatus, error) {
	weekKey := plan.WeekKey(at, s.loc)
	status := &WeekStatus{WeekKey: weekKey, Completed: plan.Completed{}}
	key := securestore.UserKey(userID, fmt.Sprintf(completedKeyPattern, weekKey))
	if _, err := securestore.GetJSON(ctx, s.store, key, &status.Completed); err != nil {
		return nil, fmt.Errorf("load completed days: %w", err)
	}
	if status.Completed == nil {
		status.Completed = plan.Completed{}
	}
	return status, nil
}
