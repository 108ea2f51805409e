package api

import (
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/securestore"
	"alcyxob/liftlog/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret"

type memUserRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	r.users = append(r.users, *u)
	return u.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memWorkoutRepo struct {
	mu       sync.Mutex
	workouts []domain.Workout
}

func (r *memWorkoutRepo) Create(_ context.Context, w *domain.Workout) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = fmt.Sprintf("w-%d", len(r.workouts)+1)
	r.workouts = append(r.workouts, *w)
	return w.ID, nil
}

func (r *memWorkoutRepo) GetByID(_ context.Context, userID, id string) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memWorkoutRepo) ListRecent(_ context.Context, userID string, limit int) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Workout{}
	for _, w := range r.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memWorkoutRepo) ListAll(context.Context) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Workout(nil), r.workouts...), nil
}

func (r *memWorkoutRepo) Upsert(_ context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workouts = append(r.workouts, *w)
	return nil
}

func (r *memWorkoutRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			r.workouts = append(r.workouts[:i], r.workouts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type stubSearcher struct {
	items []catalog.Item
	err   error
}

func (s *stubSearcher) Search(context.Context, string) ([]catalog.Item, error) {
	return s.items, s.err
}

type testServer struct {
	router   *gin.Engine
	metrics  *metrics.Manager
	searcher *stubSearcher
}

// newTestServer wires real services over in-memory stores. Exercises have no
// backend so their endpoints answer 503.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.NewTestManager()
	store := securestore.NewMemoryStore()
	searcher := &stubSearcher{}
	plans := service.NewPlanService(store, nil, time.UTC, m)

	router := gin.New()
	SetupRoutes(router, testSecret, Services{
		Auth:         service.NewAuthService(&memUserRepo{}, testSecret, time.Hour),
		Exercises:    service.NewExerciseService(nil, nil),
		Catalog:      service.NewCatalogService(searcher, nil, 1, time.Minute, m),
		Workouts:     service.NewWorkoutService(&memWorkoutRepo{}, plans, time.UTC, m),
		Plans:        plans,
		Measurements: service.NewMeasurementService(store, nil, nil, m),
	}, m, time.UTC)

	return &testServer{router: router, metrics: m, searcher: searcher}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	var req *http.Request
	if reader != nil {
		req = httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login registers a fresh user and returns a bearer token.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Test", Email: email, Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decode(t, w, &resp)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func signToken(t *testing.T, secret, userID string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(expires.Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
