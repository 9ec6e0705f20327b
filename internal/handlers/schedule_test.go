package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unijournal/internal/cache"
	"unijournal/internal/database"
	"unijournal/internal/models"
	"unijournal/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupScheduleTest(t *testing.T) (*gin.Engine, *cache.Service) {
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
	handler := NewScheduleHandler(cacheService)

	router := gin.New()
	// Аутентификация в тестах подменяется готовым контекстом админа
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", "admin")
	})
	router.GET("/api/schedule/group/:id", handler.GetGroupSchedule)
	router.GET("/api/schedule/group/:id/grid", handler.GetGroupGrid)
	router.POST("/api/schedule", handler.SaveSchedule)
	router.DELETE("/api/schedule/group/:id", handler.DeleteGroupSchedule)

	return router, cacheService
}

func seedGroup(t *testing.T, shift int) models.Group {
	t.Helper()
	group := models.Group{Name: "CS-301", Course: 3, Faculty: "ФКН", Shift: shift}
	if err := database.DB.Create(&group).Error; err != nil {
		t.Fatalf("failed to seed group: %v", err)
	}
	return group
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Сохранение недели и последующее чтение возвращают одну и ту же
// каноническую сетку 6 дней по 6 пар.
func TestSaveAndGetSchedule(t *testing.T) {
	router, _ := setupScheduleTest(t)
	group := seedGroup(t, 1)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{
				"day": "Monday",
				"lessons": []map[string]interface{}{
					{"subjectId": 3, "teacherId": "5", "classroom": "A-101", "lessonType": "lecture"},
				},
			},
		},
	}

	w := doJSON(t, router, http.MethodPost, "/api/schedule", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("save: status %d, body %s", w.Code, w.Body.String())
	}

	// Неделя целиком переписана: 36 строк, включая пустые ячейки
	var count int64
	database.DB.Model(&models.Lesson{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 36 {
		t.Errorf("строк расписания %d, want 36", count)
	}

	// Пустая ячейка хранится с NULL вместо нулевого id
	var empty models.Lesson
	database.DB.Where("group_id = ? AND day_of_week = ? AND slot_number = ?", group.ID, "Monday", 2).First(&empty)
	if empty.SubjectID != nil || empty.TeacherID != nil {
		t.Errorf("пустая ячейка хранит ссылки: %+v", empty)
	}

	w = doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Schedule GroupWeek `json:"schedule"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Schedule.Week) != schedule.DaysPerWeek {
		t.Fatalf("дней в ответе %d, want %d", len(resp.Schedule.Week), schedule.DaysPerWeek)
	}

	l := resp.Schedule.Week[0].Lessons[0]
	if l.SubjectID != 3 || l.TeacherID != 5 || l.Classroom != "A-101" {
		t.Errorf("понедельник, первая пара: %+v", l)
	}
	if l.Time != "08:00 - 08:50" {
		t.Errorf("время пары %q, want %q", l.Time, "08:00 - 08:50")
	}
}

// Повторное сохранение перезаписывает неделю атомарно, строки
// не накапливаются.
func TestSaveScheduleReplacesWeek(t *testing.T) {
	router, _ := setupScheduleTest(t)
	group := seedGroup(t, 1)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{"day": "Monday", "lessons": []map[string]interface{}{{"subjectId": 1}}},
		},
	}
	for i := 0; i < 3; i++ {
		if w := doJSON(t, router, http.MethodPost, "/api/schedule", payload); w.Code != http.StatusOK {
			t.Fatalf("save %d: status %d", i, w.Code)
		}
	}

	var count int64
	database.DB.Model(&models.Lesson{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 36 {
		t.Errorf("строк расписания после трёх сохранений %d, want 36", count)
	}
}

// Сохранение сбрасывает кэш: следующий GET читает свежую неделю.
func TestSaveScheduleInvalidatesCache(t *testing.T) {
	router, cacheService := setupScheduleTest(t)
	group := seedGroup(t, 1)

	doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)
	if _, found := cacheService.Get(cache.ScheduleKey(group.ID)); !found {
		t.Fatal("GET не заполнил кэш")
	}

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{"day": "Friday", "lessons": []map[string]interface{}{{"subjectId": 2}}},
		},
	}
	doJSON(t, router, http.MethodPost, "/api/schedule", payload)
	if _, found := cacheService.Get(cache.ScheduleKey(group.ID)); found {
		t.Fatal("сохранение не сбросило кэш")
	}

	w := doJSON(t, router, http.MethodGet, "/api/schedule/group/1", nil)
	var resp struct {
		Schedule GroupWeek `json:"schedule"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Schedule.Week[4].Lessons[0].SubjectID != 2 {
		t.Error("после сохранения GET вернул устаревшую неделю")
	}
}

func TestGetScheduleUnknownGroup(t *testing.T) {
	router, _ := setupScheduleTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/schedule/group/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/schedule/group/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}

// Для группы без сохранённого расписания сетка не строится,
// в ответе пустой grid и пояснение.
func TestGridWithoutSchedule(t *testing.T) {
	router, _ := setupScheduleTest(t)
	seedGroup(t, 1)

	w := doJSON(t, router, http.MethodGet, "/api/schedule/group/1/grid", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Grid    *schedule.WeekView `json:"grid"`
		Message string             `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Grid != nil {
		t.Error("grid должен быть null для пустого расписания")
	}
	if resp.Message != "Расписание ещё не составлено" {
		t.Errorf("message = %q", resp.Message)
	}
}

// Сетка просмотра разрешает имена и подсвечивает переданную
// клиентом текущую пару.
func TestGridView(t *testing.T) {
	router, _ := setupScheduleTest(t)
	group := seedGroup(t, 2)

	subject := models.Subject{Name: "Базы данных"}
	database.DB.Create(&subject)
	teacher := models.User{
		Username: "t1", Email: "t1@university.ru", PasswordHash: "x",
		Role: "teacher", FirstName: "Иван", LastName: "Петров",
	}
	database.DB.Create(&teacher)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week": []map[string]interface{}{
			{
				"day": "Tuesday",
				"lessons": []map[string]interface{}{
					{},
					{"subjectId": subject.ID, "teacherId": teacher.ID, "classroom": "B-203", "lessonType": "lab"},
				},
			},
		},
	}
	if w := doJSON(t, router, http.MethodPost, "/api/schedule", payload); w.Code != http.StatusOK {
		t.Fatalf("save: status %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/schedule/group/1/grid?current_day=1&current_lesson=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("grid: status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Grid schedule.WeekView `json:"grid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	cell := resp.Grid.Cells[1][1]
	if !cell.Filled {
		t.Fatal("ячейка вторника не заполнена")
	}
	if cell.Subject != "Базы данных" || cell.Teacher != "Петров Иван" {
		t.Errorf("имена не разрешены: %+v", cell)
	}
	if cell.TypeLabel != "Лабораторная" {
		t.Errorf("подпись типа %q", cell.TypeLabel)
	}
	if cell.Time != "15:00 - 15:50" {
		t.Errorf("время второй пары второй смены %q", cell.Time)
	}
	if !cell.Current {
		t.Error("переданная текущая пара не подсвечена")
	}

	current := 0
	for si := 0; si < schedule.SlotsPerDay; si++ {
		for di := 0; di < schedule.DaysPerWeek; di++ {
			if resp.Grid.Cells[si][di].Current {
				current++
			}
		}
	}
	if current != 1 {
		t.Errorf("подсвечено ячеек %d, want 1", current)
	}
}

func TestDeleteSchedule(t *testing.T) {
	router, _ := setupScheduleTest(t)
	group := seedGroup(t, 1)

	payload := map[string]interface{}{
		"groupId": group.ID,
		"week":    []map[string]interface{}{},
	}
	doJSON(t, router, http.MethodPost, "/api/schedule", payload)

	w := doJSON(t, router, http.MethodDelete, "/api/schedule/group/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}

	var count int64
	database.DB.Model(&models.Lesson{}).Where("group_id = ?", group.ID).Count(&count)
	if count != 0 {
		t.Errorf("строк после удаления %d, want 0", count)
	}
}
