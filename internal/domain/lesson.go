package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lesson is one financial-literacy lesson from the static catalog
type Lesson struct {
	ID       uuid.UUID
	Title    string
	Summary  string
	Category string
	Order    int
}

// Validate ensures the lesson adheres to domain rules
func (l *Lesson) Validate() error {
	if l.Title == "" {
		return errors.New("lesson title cannot be empty")
	}

	if l.Order < 0 {
		return errors.New("lesson order cannot be negative")
	}

	return nil
}

// LessonProgress tracks one user's completion of one lesson
type LessonProgress struct {
	UserID       uuid.UUID
	LessonID     uuid.UUID
	Completed    bool
	LastAccessed time.Time
}
