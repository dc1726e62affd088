package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/education"
)

// EducationHandler exposes the lesson catalog and progress tracking
type EducationHandler struct {
	Education *education.EducationService
}

// NewEducationHandler creates a new EducationHandler instance
func NewEducationHandler(educationService *education.EducationService) *EducationHandler {
	return &EducationHandler{Education: educationService}
}

// ListLessons returns the lesson catalog
func (h *EducationHandler) ListLessons(c *gin.Context) {
	lessons, err := h.Education.ListLessons(c.Request.Context())
	if err != nil {
		FailFromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, gin.H{
			"id":       lesson.ID,
			"title":    lesson.Title,
			"summary":  lesson.Summary,
			"category": lesson.Category,
			"order":    lesson.Order,
		})
	}

	Success(c, gin.H{"lessons": out})
}

// Progress returns the user's completion records
func (h *EducationHandler) Progress(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	records, err := h.Education.Progress(c.Request.Context(), user.ID)
	if err != nil {
		FailFromError(c, err)
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, record := range records {
		out = append(out, gin.H{
			"lesson_id":     record.LessonID,
			"completed":     record.Completed,
			"last_accessed": record.LastAccessed,
		})
	}

	Success(c, gin.H{"progress": out})
}

// View refreshes the user's last-accessed timestamp for a lesson
// without marking it complete
func (h *EducationHandler) View(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid lesson id")
		return
	}

	if err := h.Education.Touch(c.Request.Context(), user.ID, lessonID); err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{"lesson_id": lessonID})
}

// Complete marks a lesson as finished for the user
func (h *EducationHandler) Complete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, CodeAuth, "not authenticated")
		return
	}

	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, http.StatusBadRequest, CodeInvalidParam, "invalid lesson id")
		return
	}

	progress, err := h.Education.MarkCompleted(c.Request.Context(), user.ID, lessonID)
	if err != nil {
		FailFromError(c, err)
		return
	}

	Success(c, gin.H{
		"lesson_id":     progress.LessonID,
		"completed":     progress.Completed,
		"last_accessed": progress.LastAccessed,
	})
}
