package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
)

// lessonRepository implements domain.LessonRepository
type lessonRepository struct {
	db *DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *DB) domain.LessonRepository {
	return &lessonRepository{db: db}
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, title, summary, category, display_order
		FROM lessons
		WHERE id = $1
	`

	var lesson domain.Lesson
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.Title,
		&lesson.Summary,
		&lesson.Category,
		&lesson.Order,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson by ID: %w", err)
	}

	return &lesson, nil
}

// List retrieves all lessons in display order
func (r *lessonRepository) List(ctx context.Context) ([]*domain.Lesson, error) {
	query := `
		SELECT id, title, summary, category, display_order
		FROM lessons
		ORDER BY display_order
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.Summary, &lesson.Category, &lesson.Order); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lessons: %w", err)
	}

	return lessons, nil
}

// Create creates a new lesson
func (r *lessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	query := `
		INSERT INTO lessons (id, title, summary, category, display_order)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		lesson.ID,
		lesson.Title,
		lesson.Summary,
		lesson.Category,
		lesson.Order,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	return nil
}

// ListProgress retrieves the user's progress records
func (r *lessonRepository) ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.LessonProgress, error) {
	query := `
		SELECT user_id, lesson_id, completed, last_accessed
		FROM lesson_progress
		WHERE user_id = $1
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson progress: %w", err)
	}
	defer rows.Close()

	var records []*domain.LessonProgress
	for rows.Next() {
		var progress domain.LessonProgress
		if err := rows.Scan(&progress.UserID, &progress.LessonID, &progress.Completed, &progress.LastAccessed); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		records = append(records, &progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lesson progress: %w", err)
	}

	return records, nil
}

// UpsertProgress records completion state for one lesson
func (r *lessonRepository) UpsertProgress(ctx context.Context, progress *domain.LessonProgress) error {
	query := `
		INSERT INTO lesson_progress (user_id, lesson_id, completed, last_accessed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, lesson_id)
		DO UPDATE SET completed = EXCLUDED.completed, last_accessed = EXCLUDED.last_accessed
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		progress.UserID,
		progress.LessonID,
		progress.Completed,
		progress.LastAccessed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lesson progress: %w", err)
	}

	return nil
}
