package handlers

import (
	"net/http"
	"strconv"
	"time"

	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct{}

func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

// GetUniversityStats возвращает сводные счётчики для дашборда
func (h *AnalyticsHandler) GetUniversityStats(c *gin.Context) {
	var stats struct {
		TotalGroups   int64 `json:"total_groups"`
		TotalStudents int64 `json:"total_students"`
		TotalTeachers int64 `json:"total_teachers"`
		TotalSubjects int64 `json:"total_subjects"`
		TotalLessons  int64 `json:"total_lessons"`
		TotalGrades   int64 `json:"total_grades"`
	}

	database.DB.Model(&models.Group{}).Count(&stats.TotalGroups)
	database.DB.Model(&models.User{}).Where("role = ?", "student").Count(&stats.TotalStudents)
	database.DB.Model(&models.User{}).Where("role = ?", "teacher").Count(&stats.TotalTeachers)
	database.DB.Model(&models.Subject{}).Count(&stats.TotalSubjects)
	// Считаем только заполненные ячейки расписания
	database.DB.Model(&models.Lesson{}).Where("subject_id IS NOT NULL").Count(&stats.TotalLessons)
	database.DB.Model(&models.Grade{}).Count(&stats.TotalGrades)

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetGroupStats возвращает статистику группы: средний балл,
// посещаемость и нагрузку в неделю
func (h *AnalyticsHandler) GetGroupStats(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.Preload("Students").First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	studentIDs := make([]uint, len(group.Students))
	for i, s := range group.Students {
		studentIDs[i] = s.ID
	}

	// Средний балл группы
	var avgGrade struct {
		Average float64
	}
	if len(studentIDs) > 0 {
		database.DB.Model(&models.Grade{}).
			Where("student_id IN ?", studentIDs).
			Select("AVG(grade) as average").
			Scan(&avgGrade)
	}

	// Посещаемость группы: опоздание считается присутствием
	var attendance struct {
		Total   int64
		Present int64
	}
	database.DB.Model(&models.Attendance{}).Where("group_id = ?", groupID).Count(&attendance.Total)
	database.DB.Model(&models.Attendance{}).
		Where("group_id = ? AND status IN ?", groupID, []string{"present", "late"}).
		Count(&attendance.Present)

	var attendancePercentage float64
	if attendance.Total > 0 {
		attendancePercentage = float64(attendance.Present) / float64(attendance.Total) * 100
	}

	// Количество пар в неделю
	var lessonsPerWeek int64
	database.DB.Model(&models.Lesson{}).
		Where("group_id = ? AND subject_id IS NOT NULL", groupID).
		Count(&lessonsPerWeek)

	c.JSON(http.StatusOK, gin.H{
		"group":                 group,
		"average_grade":         avgGrade.Average,
		"grade_level":           GradeLevel(avgGrade.Average),
		"attendance_percentage": attendancePercentage,
		"lessons_per_week":      lessonsPerWeek,
		"student_count":         len(group.Students),
	})
}

// GetAttendanceReport возвращает сводку посещаемости за период
func (h *AnalyticsHandler) GetAttendanceReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	parsedStart, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format (use YYYY-MM-DD)"})
		return
	}
	parsedEnd, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format (use YYYY-MM-DD)"})
		return
	}

	query := database.DB.Model(&models.Attendance{}).
		Where("date BETWEEN ? AND ?", parsedStart, parsedEnd)

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	var stats []struct {
		Status string
		Count  int
	}

	if err := query.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	result := map[string]int{
		"present": 0,
		"absent":  0,
		"late":    0,
		"excused": 0,
	}

	for _, stat := range stats {
		result[stat.Status] = stat.Count
	}

	c.JSON(http.StatusOK, gin.H{"stats": result})
}

// GetGradesReport возвращает распределение оценок за период
func (h *AnalyticsHandler) GetGradesReport(c *gin.Context) {
	query := database.DB.Model(&models.Grade{})

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		query = query.Where("date >= ?", dateFrom)
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		query = query.Where("date <= ?", dateTo)
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}

	var distribution []struct {
		Grade int   `json:"grade"`
		Count int64 `json:"count"`
	}

	if err := query.
		Select("grade, COUNT(*) as count").
		Group("grade").
		Order("grade").
		Scan(&distribution).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"distribution": distribution})
}
