package service

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"alcyxob/liftlog/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrNothingToRestore = errors.New("no deleted exercise to restore")
	ErrStorageDisabled  = errors.New("image upload is not configured")
	ErrInvalidImageType = errors.New("content type must be an image")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
)

// ExerciseListLimit caps the per-day list shown in the session picker.
const ExerciseListLimit = 100

// ExerciseInput is the editable part of a catalog exercise.
type ExerciseInput struct {
	Name              string
	Description       string
	ImageURL          string
	VideoURL          string
	MajorMuscleGroups []string
	TrainingDays      []string
	IsActive          *bool
}

// UploadURLResponse is returned for an image upload request.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	// PublicURL is what to store as the exercise imageUrl once the PUT succeeds.
	PublicURL string `json:"publicUrl"`
}

// ExerciseService manages the local exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	ListForDay(ctx context.Context, day string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID string, in ExerciseInput) (*domain.Exercise, error)
	// DeleteExercise removes the exercise and keeps it in the user's restore slot.
	DeleteExercise(ctx context.Context, userID, exerciseID string, confirm bool) error
	RestoreExercise(ctx context.Context, userID string) (*domain.Exercise, error)
	RequestImageUpload(ctx context.Context, contentType string) (*UploadURLResponse, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
	now          func() time.Time

	mu          sync.Mutex
	lastDeleted map[string]domain.Exercise
}

// NewExerciseService creates the service. Either dependency may be nil, in
// which case the operations needing it fail with a configuration error.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		now:          time.Now,
		lastDeleted:  make(map[string]domain.Exercise),
	}
}

// normalize validates in and fills defaults. Unknown muscle or day values are
// rejected, duplicates dropped.
func (in ExerciseInput) normalize() (*domain.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("name is required")
	}

	muscles := []domain.MuscleGroup{}
	seenMuscle := map[domain.MuscleGroup]bool{}
	for _, raw := range in.MajorMuscleGroups {
		m := domain.MuscleGroup(strings.TrimSpace(raw))
		if !m.Valid() {
			return nil, validationError(fmt.Sprintf("unknown muscle group %q", raw))
		}
		if !seenMuscle[m] {
			seenMuscle[m] = true
			muscles = append(muscles, m)
		}
	}
	if len(muscles) == 0 {
		return nil, validationError("select at least one major muscle group")
	}

	days := []domain.TrainingDay{}
	seenDay := map[domain.TrainingDay]bool{}
	for _, raw := range in.TrainingDays {
		d := domain.TrainingDay(strings.TrimSpace(raw))
		if !d.Valid() {
			return nil, validationError(fmt.Sprintf("unknown training day %q", raw))
		}
		if !seenDay[d] {
			seenDay[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return nil, validationError("select at least one training day")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = domain.DefaultExerciseDescription
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	return &domain.Exercise{
		Name:              name,
		Description:       description,
		ImageURL:          strings.TrimSpace(in.ImageURL),
		VideoURL:          strings.TrimSpace(in.VideoURL),
		MajorMuscleGroups: muscles,
		TrainingDays:      days,
		IsActive:          &active,
	}, nil
}

// CreateExercise validates and stores a new catalog exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	exercise, err := in.normalize()
	if err != nil {
		return nil, err
	}

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListForDay lists active exercises tagged with day.
func (s *exerciseService) ListForDay(ctx context.Context, day string) ([]domain.Exercise, error) {
	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	return s.exerciseRepo.ListByTrainingDay(ctx, strings.TrimSpace(day), ExerciseListLimit)
}

// UpdateExercise replaces the editable fields of an existing exercise.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID string, in ExerciseInput) (*domain.Exercise, error) {
	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}
	updated, err := in.normalize()
	if err != nil {
		return nil, err
	}

	existing, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.exerciseRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if existing.ImageURL != "" && existing.ImageURL != updated.ImageURL {
		s.dropUploadedImage(ctx, existing.ImageURL)
	}
	return updated, nil
}

// dropUploadedImage deletes a replaced image when it lives in our bucket.
// Failures are logged only; the exercise update has already succeeded.
func (s *exerciseService) dropUploadedImage(ctx context.Context, imageURL string) {
	if s.fileStorage == nil {
		return
	}
	prefix := s.fileStorage.PublicURL("")
	if prefix == "" || !strings.HasPrefix(imageURL, prefix) {
		return
	}
	objectKey := strings.TrimPrefix(imageURL, prefix)
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		log.Warnf("drop replaced exercise image %s: %v", objectKey, err)
	}
}

// DeleteExercise removes an exercise after explicit confirmation.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID string, confirm bool) error {
	if s.exerciseRepo == nil {
		return ErrBackendNotConfigured
	}
	if !confirm {
		return ErrConfirmationRequired
	}

	existing, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	s.mu.Lock()
	s.lastDeleted[userID] = *existing
	s.mu.Unlock()
	return nil
}

// RestoreExercise re-inserts the user's last deleted exercise with its old ID.
func (s *exerciseService) RestoreExercise(ctx context.Context, userID string) (*domain.Exercise, error) {
	if s.exerciseRepo == nil {
		return nil, ErrBackendNotConfigured
	}

	s.mu.Lock()
	exercise, ok := s.lastDeleted[userID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNothingToRestore
	}

	if err := s.exerciseRepo.Upsert(ctx, &exercise); err != nil {
		// keep the slot so the user can retry
		return nil, err
	}

	s.mu.Lock()
	if cur, ok := s.lastDeleted[userID]; ok && cur.ID == exercise.ID {
		delete(s.lastDeleted, userID)
	}
	s.mu.Unlock()
	return &exercise, nil
}

// RequestImageUpload presigns a PUT for a new exercise image.
func (s *exerciseService) RequestImageUpload(ctx context.Context, contentType string) (*UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrInvalidImageType
	}

	objectKey := fmt.Sprintf("exercises/exercise-%d.%s", s.now().UnixMilli(), imageExtension(contentType))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Errorf("exercise image upload url: %v", err)
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		PublicURL: s.fileStorage.PublicURL(objectKey),
	}, nil
}

// imageExtension derives the file extension from an image content type,
// defaulting to jpg.
func imageExtension(contentType string) string {
	sub := strings.TrimPrefix(contentType, "image/")
	if i := strings.IndexAny(sub, ";+"); i >= 0 {
		sub = sub[:i]
	}
	switch sub {
	case "", "*":
		return "jpg"
	case "jpeg", "pjpeg":
		return "jpg"
	}
	return sub
}
