package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"unijournal/internal/cache"
	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGroupTest(t *testing.T) (*gin.Engine, *cache.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Subject{}, &models.Lesson{},
	); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	database.DB = db

	cacheService := cache.New(time.Minute, time.Minute)
	groupHandler := NewGroupHandler(cacheService)
	scheduleHandler := NewScheduleHandler(cacheService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", "admin")
	})
	router.PUT("/api/groups/:id", groupHandler.UpdateGroup)
	router.DELETE("/api/groups/:id", groupHandler.DeleteGroup)
	router.GET("/api/schedule/group/:id", scheduleHandler.GetGroupSchedule)
	router.POST("/api/schedule", scheduleHandler.SaveSchedule)

	return router, cacheService
}

// Перевод группы в другую смену сбрасывает кэш расписания: следующий
// GET пересчитывает время пар по новой таблице звонков.
func TestUpdateGroupShiftInvalidatesScheduleCache(t *testing.T) {
	router, cacheService := setupGroupTest(t)
	group := seedGroup(t, 1)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{"day": "Monday", "lessons": []map[string]interface{}{{"subjectId": 3, "classroom": "A-101"}}},
		},
	}
	if w := doJSON(t, router, http.MethodPost, "/api/schedule", payload); w.Code != http.StatusOK {
		t.Fatalf("save: status %d", w.Code)
	}

	doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)
	if _, found := cacheService.Get(cache.ScheduleKey(group.ID)); !found {
		t.Fatal("GET не заполнил кэш")
	}

	if w := doJSON(t, router, http.MethodPut, "/api/groups/1", map[string]interface{}{"shift": 2}); w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}
	if _, found := cacheService.Get(cache.ScheduleKey(group.ID)); found {
		t.Fatal("смена группы не сбросила кэш расписания")
	}

	w := doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)
	var resp struct {
		Schedule GroupWeek `json:"schedule"`
		Cached   bool      `json:"cached"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("после смены группы GET вернул закэшированный ответ")
	}
	if resp.Schedule.Shift != 2 {
		t.Errorf("shift = %d, want 2", resp.Schedule.Shift)
	}
	if got := resp.Schedule.Week[0].Lessons[0].Time; got != "14:00 - 14:50" {
		t.Errorf("время первой пары %q, want %q", got, "14:00 - 14:50")
	}
}

// Удаление группы забирает с собой строки расписания и кэш.
func TestDeleteGroupRemovesSchedule(t *testing.T) {
	router, cacheService := setupGroupTest(t)
	group := seedGroup(t, 1)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{"day": "Monday", "lessons": []map[string]interface{}{{"subjectId": 1}}},
		},
	}
	doJSON(t, router, http.MethodPost, "/api/schedule", payload)
	doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)

	if w := doJSON(t, router, http.MethodDelete, "/api/groups/1", nil); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	database.DB.Model(&models.Lesson{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 0 {
		t.Errorf("строк расписания после удаления группы %d, want 0", count)
	}
	if _, found := cacheService.Get(cache.ScheduleKey(group.ID)); found {
		t.Error("кэш расписания пережил удаление группы")
	}
}
