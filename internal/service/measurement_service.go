package service

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/securestore"
	"alcyxob/liftlog/internal/stats"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	measurementsStorageKey = "measurements_v1"
	goalStorageKey         = "goal_v1"

	// MeasurementHistoryCap bounds the stored history, newest first.
	MeasurementHistoryCap = 20
)

var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrGoalNotSet          = errors.New("no goal saved yet")
)

// MetricsForm holds raw form input keyed by domain.MetricField.Key.
type MetricsForm map[string]string

// Parse converts the form into metrics. Blank values stay unset; anything
// non-numeric or negative fails naming the field.
func (f MetricsForm) Parse() (domain.BodyMetrics, error) {
	var values domain.BodyMetrics
	for _, field := range domain.MetricFields {
		raw := strings.TrimSpace(f[field.Key])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return values, validationError(fmt.Sprintf("%s must be a number", field.Label))
		}
		if v < 0 {
			return values, validationError(fmt.Sprintf("%s cannot be negative", field.Label))
		}
		values.Set(field.Key, &v)
	}
	return values, nil
}

func isEmpty(m domain.BodyMetrics) bool {
	for _, field := range domain.MetricFields {
		if m.Value(field.Key) != nil {
			return false
		}
	}
	return true
}

// measurementsBlob is what is kept in secure storage under measurements_v1.
type measurementsBlob struct {
	History []domain.Measurement `json:"history"`
	Form    MetricsForm          `json:"form"`
}

// MeasurementView is the profile screen state.
type MeasurementView struct {
	History []domain.Measurement      `json:"history"`
	Form    MetricsForm               `json:"form"`
	Summary *stats.MeasurementSummary `json:"summary"`
}

// MeasurementService keeps body measurements and the goal.
type MeasurementService interface {
	List(ctx context.Context, userID string) (*MeasurementView, error)
	Add(ctx context.Context, userID string, form MetricsForm) (*domain.Measurement, error)
	Update(ctx context.Context, userID, measurementID string, form MetricsForm) (*domain.Measurement, error)
	Delete(ctx context.Context, userID, measurementID string, confirm bool) error
	GetGoal(ctx context.Context, userID string) (*domain.Goal, error)
	SaveGoal(ctx context.Context, userID string, form MetricsForm) (*domain.Goal, error)
}

type measurementService struct {
	store        securestore.Store
	measurements repository.MeasurementRepository
	goals        repository.GoalRepository
	now          func() time.Time
	metrics      *metrics.Manager

	mu sync.Mutex
}

// NewMeasurementService creates the service. Both repositories are optional
// mirrors of the local store.
func NewMeasurementService(store securestore.Store, measurements repository.MeasurementRepository, goals repository.GoalRepository, m *metrics.Manager) MeasurementService {
	return &measurementService{
		store:        store,
		measurements: measurements,
		goals:        goals,
		now:          time.Now,
		metrics:      m,
	}
}

// load reads the local history. When nothing is stored yet and a backend is
// configured, the history is seeded from it. Callers hold s.mu.
func (s *measurementService) load(ctx context.Context, userID string) (*measurementsBlob, error) {
	blob := &measurementsBlob{}
	found, err := securestore.GetJSON(ctx, s.store, securestore.UserKey(userID, measurementsStorageKey), blob)
	if err != nil {
		return nil, fmt.Errorf("load measurements: %w", err)
	}
	if !found && s.measurements != nil {
		remote, err := s.measurements.ListRecent(ctx, userID, MeasurementHistoryCap)
		if err != nil {
			log.Warnf("load remote measurements for user %s: %v", userID, err)
		} else {
			blob.History = remote
		}
	}
	if blob.History == nil {
		blob.History = []domain.Measurement{}
	}
	if blob.Form == nil {
		blob.Form = MetricsForm{}
	}
	return blob, nil
}

func (s *measurementService) save(ctx context.Context, userID string, blob *measurementsBlob) error {
	if err := securestore.SetJSON(ctx, s.store, securestore.UserKey(userID, measurementsStorageKey), blob); err != nil {
		return fmt.Errorf("save measurements: %w", err)
	}
	return nil
}

func (s *measurementService) mirrorFailed(kind, userID string, err error) {
	log.Warnf("mirror %s for user %s: %v", kind, userID, err)
	s.metrics.MirrorFailed(kind)
}

func (s *measurementService) List(ctx context.Context, userID string) (*MeasurementView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeasurementView{
		History: blob.History,
		Form:    blob.Form,
		Summary: stats.SummarizeMeasurements(blob.History),
	}, nil
}

// Add inserts a new snapshot at the head of the history.
func (s *measurementService) Add(ctx context.Context, userID string, form MetricsForm) (*domain.Measurement, error) {
	values, err := form.Parse()
	if err != nil {
		return nil, err
	}
	if isEmpty(values) {
		return nil, validationError("enter at least one measurement")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := domain.Measurement{
		ID:          uuid.NewString(),
		UserID:      userID,
		TakenAt:     s.now().UTC(),
		BodyMetrics: values,
	}
	blob.History = append([]domain.Measurement{m}, blob.History...)
	if len(blob.History) > MeasurementHistoryCap {
		blob.History = blob.History[:MeasurementHistoryCap]
	}
	blob.Form = form
	if err := s.save(ctx, userID, blob); err != nil {
		return nil, err
	}

	if s.measurements != nil {
		if _, err := s.measurements.Create(ctx, &m); err != nil {
			s.mirrorFailed("measurement", userID, err)
		}
	}
	return &m, nil
}

// Update replaces the values of one entry in place, keeping its timestamp.
func (s *measurementService) Update(ctx context.Context, userID, measurementID string, form MetricsForm) (*domain.Measurement, error) {
	values, err := form.Parse()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexOfMeasurement(blob.History, measurementID)
	if i < 0 {
		return nil, ErrMeasurementNotFound
	}
	blob.History[i].BodyMetrics = values
	if err := s.save(ctx, userID, blob); err != nil {
		return nil, err
	}

	m := blob.History[i]
	if s.measurements != nil {
		if err := s.measurements.Update(ctx, &m); err != nil {
			s.mirrorFailed("measurement", userID, err)
		}
	}
	return &m, nil
}

func (s *measurementService) Delete(ctx context.Context, userID, measurementID string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	i := indexOfMeasurement(blob.History, measurementID)
	if i < 0 {
		return ErrMeasurementNotFound
	}
	blob.History = append(blob.History[:i], blob.History[i+1:]...)
	if err := s.save(ctx, userID, blob); err != nil {
		return err
	}

	if s.measurements != nil {
		if err := s.measurements.Delete(ctx, userID, measurementID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.mirrorFailed("measurement", userID, err)
		}
	}
	return nil
}

func indexOfMeasurement(history []domain.Measurement, id string) int {
	for i, m := range history {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// GetGoal reads the local goal, falling back to the backend copy.
func (s *measurementService) GetGoal(ctx context.Context, userID string) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var goal domain.Goal
	found, err := securestore.GetJSON(ctx, s.store, securestore.UserKey(userID, goalStorageKey), &goal)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if found {
		return &goal, nil
	}
	if s.goals == nil {
		return nil, ErrGoalNotSet
	}

	remote, err := s.goals.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotSet
		}
		return nil, err
	}
	return remote, nil
}

// SaveGoal upserts the single goal row.
func (s *measurementService) SaveGoal(ctx context.Context, userID string, form MetricsForm) (*domain.Goal, error) {
	values, err := form.Parse()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal := &domain.Goal{UserID: userID, UpdatedAt: s.now().UTC(), BodyMetrics: values}
	if err := securestore.SetJSON(ctx, s.store, securestore.UserKey(userID, goalStorageKey), goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	if s.goals != nil {
		mirrored := *goal
		if err := s.goals.Upsert(ctx, &mirrored); err != nil {
			s.mirrorFailed("goal", userID, err)
		}
	}
	return goal, nil
}
