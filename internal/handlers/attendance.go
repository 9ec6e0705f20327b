package handlers

import (
	"net/http"
	"strconv"
	"time"

	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler {
	return &AttendanceHandler{}
}

// BulkAttendanceRequest структура для массовой отметки посещаемости
type BulkAttendanceRequest struct {
	Records []AttendanceRecord `json:"records" binding:"required"`
}

type AttendanceRecord struct {
	StudentID  uint   `json:"student_id" binding:"required"`
	GroupID    uint   `json:"group_id" binding:"required"`
	SubjectID  *uint  `json:"subject_id,omitempty"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	SlotNumber *int   `json:"slot_number,omitempty"`
	Status     string `json:"status" binding:"required,oneof=present absent late excused"`
	Comment    string `json:"comment,omitempty"`
}

// attendanceLookup находит существующую отметку студента на дату.
// Отсутствующие пара и предмет матчатся только с NULL, чтобы отметка
// уровня дня не перетирала отметки по конкретным парам.
func attendanceLookup(record AttendanceRecord, date time.Time) *gorm.DB {
	query := database.DB.Where("student_id = ? AND group_id = ? AND date = ?", record.StudentID, record.GroupID, date)
	if record.SlotNumber != nil {
		query = query.Where("slot_number = ?", *record.SlotNumber)
	} else {
		query = query.Where("slot_number IS NULL")
	}
	if record.SubjectID != nil {
		query = query.Where("subject_id = ?", *record.SubjectID)
	} else {
		query = query.Where("subject_id IS NULL")
	}
	return query
}

// BulkMarkAttendance массовая отметка посещаемости. Повторная отметка
// того же студента на ту же дату и пару обновляет существующую запись.
func (h *AttendanceHandler) BulkMarkAttendance(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var attendances []models.Attendance

	for _, record := range req.Records {
		// Проверяем группу
		var group models.Group
		if err := database.DB.First(&group, record.GroupID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Group not found"})
			return
		}

		// Проверяем студента
		var student models.User
		if err := database.DB.Where("id = ? AND role = ?", record.StudentID, "student").First(&student).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Student not found"})
			return
		}

		// Парсим дату
		date, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (use YYYY-MM-DD)"})
			return
		}

		// Проверяем существующую запись: отметка без пары — отдельная
		// запись уровня дня, отметки по парам она не трогает
		var existing models.Attendance
		query := attendanceLookup(record, date)

		markedByID := userID.(uint)
		if err := query.First(&existing).Error; err == nil {
			// Обновляем существующую
			existing.Status = record.Status
			existing.Comment = record.Comment
			existing.MarkedBy = &markedByID
			database.DB.Save(&existing)
			attendances = append(attendances, existing)
		} else {
			// Создаём новую
			attendance := models.Attendance{
				StudentID:  record.StudentID,
				GroupID:    record.GroupID,
				SubjectID:  record.SubjectID,
				Date:       date,
				SlotNumber: record.SlotNumber,
				Status:     record.Status,
				Comment:    record.Comment,
				MarkedBy:   &markedByID,
			}

			if err := database.DB.Create(&attendance).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attendance record"})
				return
			}
			attendances = append(attendances, attendance)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attendance marked successfully",
		"attendance": attendances,
	})
}

// MarkAttendance отмечает посещаемость одного студента
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var record AttendanceRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")
	markedByID := userID.(uint)

	date, err := time.Parse("2006-01-02", record.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format (use YYYY-MM-DD)"})
		return
	}

	var student models.User
	if err := database.DB.Where("id = ? AND role = ?", record.StudentID, "student").First(&student).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student not found"})
		return
	}

	// Одна пара — одна отметка, отметка без пары — запись уровня дня
	var existing models.Attendance
	query := attendanceLookup(record, date)

	if err := query.First(&existing).Error; err == nil {
		existing.Status = record.Status
		existing.Comment = record.Comment
		existing.MarkedBy = &markedByID
		database.DB.Save(&existing)
		c.JSON(http.StatusOK, gin.H{"attendance": existing})
		return
	}

	attendance := models.Attendance{
		StudentID:  record.StudentID,
		GroupID:    record.GroupID,
		SubjectID:  record.SubjectID,
		Date:       date,
		SlotNumber: record.SlotNumber,
		Status:     record.Status,
		Comment:    record.Comment,
		MarkedBy:   &markedByID,
	}

	if err := database.DB.Create(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attendance record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attendance": attendance})
}

// GetAttendance получает журнал посещаемости с фильтрами
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	query := database.DB.WithContext(c.Request.Context())

	// Фильтр по группе
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	// Фильтр по предмету
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}

	// Фильтр по дате
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	// Фильтр по статусу
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var attendance []models.Attendance
	if err := query.
		Preload("Student").
		Preload("Group").
		Preload("Subject").
		Order("date DESC").
		Limit(100).
		Find(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": attendance})
}

// GetStudentStats получает статистику посещаемости студента
func (h *AttendanceHandler) GetStudentStats(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var student models.User
	if err := database.DB.First(&student, studentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student not found"})
		return
	}

	var stats []struct {
		Status string
		Count  int
	}

	if err := database.DB.Model(&models.Attendance{}).
		Select("status, COUNT(*) as count").
		Where("student_id = ?", studentID).
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

	total := 0
	for _, stat := range stats {
		result[stat.Status] = stat.Count
		total += stat.Count
	}

	// Процент посещаемости: опоздание считается присутствием
	var percentage float64
	if total > 0 {
		percentage = float64(result["present"]+result["late"]) / float64(total) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"student":    student,
		"stats":      result,
		"total":      total,
		"percentage": percentage,
	})
}

// DeleteAttendance удаляет запись посещаемости
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	attendanceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance ID"})
		return
	}

	var attendance models.Attendance
	if err := database.DB.First(&attendance, attendanceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance not found"})
		return
	}

	if err := database.DB.Delete(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance deleted successfully"})
}
