package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"unijournal/internal/database"
	"unijournal/internal/models"
	"unijournal/internal/schedule"
	"unijournal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	storage *storage.Service
}

func NewExportHandler(storage *storage.Service) *ExportHandler {
	return &ExportHandler{storage: storage}
}

// ExportGroupGrades выгружает журнал оценок группы в XLSX
func (h *ExportHandler) ExportGroupGrades(c *gin.Context) {
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

	var grades []models.Grade
	if err := database.DB.Where("student_id IN ?", studentIDs).
		Preload("Student").
		Preload("Subject").
		Preload("Teacher").
		Order("date DESC").
		Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grades"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Дата", "Студент", "Дисциплина", "Оценка", "Тип", "Преподаватель", "Комментарий"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, g := range grades {
		values := []interface{}{
			g.Date.Format("2006-01-02"),
			g.Student.LastName + " " + g.Student.FirstName,
			g.Subject.Name,
			g.Grade,
			g.GradeType,
			g.Teacher.LastName + " " + g.Teacher.FirstName,
			g.Comment,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=grades_%s.xlsx", group.Name))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export file"})
		return
	}
}

// ExportGroupAttendance выгружает журнал посещаемости группы в XLSX
func (h *ExportHandler) ExportGroupAttendance(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	query := database.DB.Where("group_id = ?", groupID).
		Preload("Student").
		Preload("Subject").
		Order("date DESC")

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		query = query.Where("date >= ?", dateFrom)
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		query = query.Where("date <= ?", dateTo)
	}

	var records []models.Attendance
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Дата", "Пара", "Студент", "Дисциплина", "Статус", "Комментарий"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, r := range records {
		slot := ""
		if r.SlotNumber != nil {
			slot = strconv.Itoa(*r.SlotNumber)
		}
		subjectName := ""
		if r.Subject != nil {
			subjectName = r.Subject.Name
		}
		values := []interface{}{
			r.Date.Format("2006-01-02"),
			slot,
			r.Student.LastName + " " + r.Student.FirstName,
			subjectName,
			r.Status,
			r.Comment,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.xlsx", group.Name))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export file"})
		return
	}
}

// ExportGroupSchedule собирает расписание группы в XLSX-сетку,
// складывает копию в MinIO и отдаёт временную ссылку на скачивание
func (h *ExportHandler) ExportGroupSchedule(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var lessons []models.Lesson
	if err := database.DB.Where("group_id = ?", groupID).
		Preload("Subject").
		Preload("Teacher").
		Order("day_of_week, slot_number").
		Find(&lessons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	// Шапка: время в первой колонке, дни недели дальше
	f.SetCellValue(sheet, "A1", "Время")
	for di, day := range schedule.Weekdays {
		cell, _ := excelize.CoordinatesToCellName(di+2, 1)
		f.SetCellValue(sheet, cell, day)
	}
	for si := 1; si <= schedule.SlotsPerDay; si++ {
		cell, _ := excelize.CoordinatesToCellName(1, si+1)
		f.SetCellValue(sheet, cell, schedule.SlotLabel(group.Shift, si))
	}

	// Заполненные ячейки сетки
	for _, l := range lessons {
		di := schedule.DayIndex(l.DayOfWeek)
		if di < 0 || l.SlotNumber < 1 || l.SlotNumber > schedule.SlotsPerDay || l.Subject == nil {
			continue
		}
		text := l.Subject.Name
		text += " (" + schedule.TypeLabel(schedule.NormalizeLessonType(l.LessonType)) + ")"
		if l.Teacher != nil {
			text += "\n" + l.Teacher.LastName + " " + l.Teacher.FirstName
		}
		if l.Classroom != "" {
			text += "\nауд. " + l.Classroom
		}
		cell, _ := excelize.CoordinatesToCellName(di+2, l.SlotNumber+1)
		f.SetCellValue(sheet, cell, text)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export file"})
		return
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", group.Name, time.Now().Format("2006-01-02"))
	key := fmt.Sprintf("exports/schedules/%d/%s.xlsx", group.ID, uuid.New().String())

	if err := h.storage.Upload(c.Request.Context(), key, &buf, int64(buf.Len()), xlsxContentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store export file"})
		return
	}

	url, err := h.storage.PresignedURL(c.Request.Context(), key, filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"filename": filename,
	})
}
