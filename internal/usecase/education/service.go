package education

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
)

// EducationService handles lesson catalog and progress operations.
// Simple CRUD over static content; no invariants beyond lesson existence.
type EducationService struct {
	LessonRepo domain.LessonRepository
	Clock      domain.Clock
}

// NewEducationService creates a new EducationService instance
func NewEducationService(lessonRepo domain.LessonRepository, clock domain.Clock) *EducationService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &EducationService{
		LessonRepo: lessonRepo,
		Clock:      clock,
	}
}

// ListLessons returns the lesson catalog in display order
func (s *EducationService) ListLessons(ctx context.Context) ([]*domain.Lesson, error) {
	lessons, err := s.LessonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// Progress returns the user's completion records
func (s *EducationService) Progress(ctx context.Context, userID uuid.UUID) ([]*domain.LessonProgress, error) {
	progress, err := s.LessonRepo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return progress, nil
}

// MarkCompleted records that the user finished a lesson
func (s *EducationService) MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	if _, err := s.LessonRepo.GetByID(ctx, lessonID); err != nil {
		return nil, err
	}

	progress := &domain.LessonProgress{
		UserID:       userID,
		LessonID:     lessonID,
		Completed:    true,
		LastAccessed: s.Clock.Now(),
	}

	if err := s.LessonRepo.UpsertProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	return progress, nil
}

// Touch refreshes the last-accessed timestamp without completing the lesson
func (s *EducationService) Touch(ctx context.Context, userID, lessonID uuid.UUID) error {
	if _, err := s.LessonRepo.GetByID(ctx, lessonID); err != nil {
		return err
	}

	existing, err := s.LessonRepo.ListProgress(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list progress: %w", err)
	}

	completed := false
	for _, p := range existing {
		if p.LessonID == lessonID {
			completed = p.Completed
			break
		}
	}

	return s.LessonRepo.UpsertProgress(ctx, &domain.LessonProgress{
		UserID:       userID,
		LessonID:     lessonID,
		Completed:    completed,
		LastAccessed: s.Clock.Now(),
	})
}
