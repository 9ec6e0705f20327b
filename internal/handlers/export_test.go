package handlers

import (
	"net/http"
	"testing"

	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupExportTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Subject{},
		&models.Lesson{}, &models.Attendance{}, &models.Grade{},
	); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	database.DB = db

	handler := NewExportHandler(nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", "admin")
	})
	router.GET("/api/export/group/:id/grades", handler.ExportGroupGrades)
	router.GET("/api/export/group/:id/attendance", handler.ExportGroupAttendance)

	return router
}

func TestExportGroupGrades(t *testing.T) {
	router := setupExportTest(t)
	seedGroup(t, 1)

	w := doJSON(t, router, http.MethodGet, "/api/export/group/1/grades", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type %q", got)
	}
	if w.Body.Len() == 0 {
		t.Error("пустое тело выгрузки")
	}
}

// Ошибка выборки журнала отдаётся клиенту, а не превращается
// в пустую выгрузку.
func TestExportGroupGradesQueryError(t *testing.T) {
	router := setupExportTest(t)
	seedGroup(t, 1)

	if err := database.DB.Migrator().DropTable(&models.Grade{}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/export/group/1/grades", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", w.Code)
	}
}

func TestExportGroupAttendanceQueryError(t *testing.T) {
	router := setupExportTest(t)
	seedGroup(t, 1)

	if err := database.DB.Migrator().DropTable(&models.Attendance{}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/export/group/1/attendance", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", w.Code)
	}
}
