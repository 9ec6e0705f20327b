package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGradeLevel(t *testing.T) {
	tests := []struct {
		average float64
		want    string
	}{
		{5.0, "excellent"},
		{4.5, "excellent"},
		{4.49, "good"},
		{3.5, "good"},
		{3.49, "satisfactory"},
		{2.5, "satisfactory"},
		{2.49, "poor"},
		{0, "poor"},
	}

	for _, tt := range tests {
		if got := GradeLevel(tt.average); got != tt.want {
			t.Errorf("GradeLevel(%.2f) = %q, want %q", tt.average, got, tt.want)
		}
	}
}

func setupGradeTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Subject{}, &models.Grade{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	database.DB = db

	handler := NewGradeHandler()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.Set("role", "teacher")
	})
	router.PUT("/api/grades/:id", handler.UpdateGrade)

	return router
}

// Исправление оценки принимает только изменяемые поля: тело без
// student_id/subject_id проходит валидацию, связи не меняются.
func TestUpdateGradeMutableFieldsOnly(t *testing.T) {
	router := setupGradeTest(t)

	grade := models.Grade{
		StudentID: 1, SubjectID: 2, TeacherID: 7,
		Grade: 3, GradeType: "test",
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := database.DB.Create(&grade).Error; err != nil {
		t.Fatal(err)
	}

	payload := map[string]interface{}{
		"grade":      5,
		"grade_type": "exam",
		"date":       "2026-09-02",
		"comment":    "пересдача",
	}
	w := doJSON(t, router, http.MethodPut, "/api/grades/1", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Grade models.Grade `json:"grade"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Grade.Grade != 5 || resp.Grade.GradeType != "exam" || resp.Grade.Comment != "пересдача" {
		t.Errorf("оценка после исправления: %+v", resp.Grade)
	}
	if resp.Grade.StudentID != 1 || resp.Grade.SubjectID != 2 {
		t.Errorf("исправление изменило связи: %+v", resp.Grade)
	}
}

// Чужую оценку преподаватель исправить не может.
func TestUpdateGradeForeignTeacher(t *testing.T) {
	router := setupGradeTest(t)

	grade := models.Grade{
		StudentID: 1, SubjectID: 2, TeacherID: 8,
		Grade: 4, Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := database.DB.Create(&grade).Error; err != nil {
		t.Fatal(err)
	}

	payload := map[string]interface{}{"grade": 2, "date": "2026-09-02"}
	w := doJSON(t, router, http.MethodPut, "/api/grades/1", payload)
	if w.Code != http.StatusForbidden {
		t.Errorf("status %d, want 403", w.Code)
	}
}
