package handlers

import (
	"net/http"
	"strconv"
	"time"

	"unijournal/internal/cache"
	"unijournal/internal/database"
	"unijournal/internal/models"
	"unijournal/internal/schedule"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	cache *cache.Service
}

func NewScheduleHandler(cache *cache.Service) *ScheduleHandler {
	return &ScheduleHandler{cache: cache}
}

// GroupWeek расписание одной группы в ответах
type GroupWeek struct {
	GroupID uint          `json:"groupId"`
	Group   string        `json:"group"`
	Shift   int           `json:"shift"`
	Week    schedule.Week `json:"week"`
}

// GetGroupSchedule возвращает недельное расписание группы.
// Ответ всегда содержит каноническую сетку 6 дней по 6 пар.
// Специальное значение id "all" возвращает расписания всех групп.
func (h *ScheduleHandler) GetGroupSchedule(c *gin.Context) {
	if c.Param("id") == "all" {
		h.getAllSchedules(c)
		return
	}

	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.WithContext(c.Request.Context()).First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Проверяем кэш
	if cached, found := h.cache.Get(cache.ScheduleKey(group.ID)); found {
		c.JSON(http.StatusOK, gin.H{"schedule": cached, "cached": true})
		return
	}

	week, err := h.loadWeek(c, &group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	result := GroupWeek{GroupID: group.ID, Group: group.Name, Shift: group.Shift, Week: week}
	h.cache.Set(cache.ScheduleKey(group.ID), result)

	c.JSON(http.StatusOK, gin.H{"schedule": result, "cached": false})
}

// getAllSchedules возвращает расписания всех групп
func (h *ScheduleHandler) getAllSchedules(c *gin.Context) {
	var groups []models.Group
	if err := database.DB.WithContext(c.Request.Context()).Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	result := make([]GroupWeek, 0, len(groups))
	for i := range groups {
		week, err := h.loadWeek(c, &groups[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
			return
		}
		result = append(result, GroupWeek{
			GroupID: groups[i].ID,
			Group:   groups[i].Name,
			Shift:   groups[i].Shift,
			Week:    week,
		})
	}

	c.JSON(http.StatusOK, gin.H{"schedules": result})
}

// SaveSchedule целиком заменяет недельное расписание группы.
// Частичного обновления ячеек нет: клиент присылает все 6 дней,
// запись идёт одной транзакцией, в ответ уходит сохранённая неделя.
func (h *ScheduleHandler) SaveSchedule(c *gin.Context) {
	var payload schedule.SavePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, payload.GroupID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group not found"})
		return
	}

	week := schedule.Normalize(payload.Week, group.Shift)
	rows := weekToRows(group.ID, group.Shift, week)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_id = ?", group.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save schedule"})
		return
	}

	// Сохранённая неделя — авторитетная копия, кэш устарел
	h.cache.Delete(cache.ScheduleKey(group.ID))

	result := GroupWeek{GroupID: group.ID, Group: group.Name, Shift: group.Shift, Week: week}
	c.JSON(http.StatusOK, gin.H{"schedule": result})
}

// GetGroupGrid возвращает сетку расписания для режима просмотра:
// имена разрешены, у каждой ячейки подпись времени, бейдж типа,
// индекс цвета и флаг текущей пары.
func (h *ScheduleHandler) GetGroupGrid(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.WithContext(c.Request.Context()).First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var count int64
	database.DB.Model(&models.Lesson{}).Where("group_id = ?", group.ID).Count(&count)
	if count == 0 {
		c.JSON(http.StatusOK, gin.H{
			"grid":    nil,
			"message": "Расписание ещё не составлено",
		})
		return
	}

	week, err := h.loadWeek(c, &group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	// Подсветка текущей пары: по умолчанию от настенных часов,
	// клиент может передать свои current_day/current_lesson
	currentDay, currentSlot := schedule.CurrentSlot(group.Shift, time.Now())
	if v := c.Query("current_day"); v != "" {
		currentDay, _ = strconv.Atoi(v)
	}
	if v := c.Query("current_lesson"); v != "" {
		currentSlot, _ = strconv.Atoi(v)
	}

	res, err := h.buildResolver(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	view := schedule.BuildView(week, group.Shift, res, currentDay, currentSlot)

	c.JSON(http.StatusOK, gin.H{
		"group": group,
		"grid":  view,
	})
}

// DeleteGroupSchedule очищает расписание группы
func (h *ScheduleHandler) DeleteGroupSchedule(c *gin.Context) {
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

	if err := database.DB.Unscoped().Where("group_id = ?", group.ID).Delete(&models.Lesson{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}

	h.cache.Delete(cache.ScheduleKey(group.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}

// loadWeek собирает каноническую неделю из строк базы
func (h *ScheduleHandler) loadWeek(c *gin.Context, group *models.Group) (schedule.Week, error) {
	var lessons []models.Lesson
	err := database.DB.WithContext(c.Request.Context()).
		Where("group_id = ?", group.ID).
		Order("day_of_week, slot_number").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return assembleWeek(lessons, group.Shift), nil
}

// assembleWeek раскладывает строки Lesson по канонической сетке.
// Строки с неизвестным днём или номером пары вне 1..6 пропускаются.
func assembleWeek(lessons []models.Lesson, shift int) schedule.Week {
	week := schedule.EmptyWeek(shift)
	for _, l := range lessons {
		di := schedule.DayIndex(l.DayOfWeek)
		if di < 0 || l.SlotNumber < 1 || l.SlotNumber > schedule.SlotsPerDay {
			continue
		}
		cell := &week[di].Lessons[l.SlotNumber-1]
		if l.SubjectID != nil {
			cell.SubjectID = schedule.Ref(*l.SubjectID)
		}
		if l.TeacherID != nil {
			cell.TeacherID = schedule.Ref(*l.TeacherID)
		}
		cell.Classroom = l.Classroom
		cell.LessonType = schedule.NormalizeLessonType(l.LessonType)
	}
	return week
}

// weekToRows превращает каноническую неделю в 36 строк для записи
func weekToRows(groupID uint, shift int, week schedule.Week) []models.Lesson {
	rows := make([]models.Lesson, 0, schedule.DaysPerWeek*schedule.SlotsPerDay)
	for _, day := range week {
		for si, l := range day.Lessons {
			start, end := schedule.SlotTimes(shift, si+1)
			rows = append(rows, models.Lesson{
				GroupID:    groupID,
				DayOfWeek:  day.Day,
				SlotNumber: si + 1,
				SubjectID:  l.SubjectID.ID(),
				TeacherID:  l.TeacherID.ID(),
				Classroom:  l.Classroom,
				LessonType: l.LessonType,
				StartTime:  start,
				EndTime:    end,
			})
		}
	}
	return rows
}

// nameResolver разрешает id предметов и преподавателей в имена
type nameResolver struct {
	subjects map[uint]string
	teachers map[uint]string
}

func (r *nameResolver) SubjectName(id uint) string { return r.subjects[id] }

func (r *nameResolver) TeacherName(id uint) string { return r.teachers[id] }

func (h *ScheduleHandler) buildResolver(c *gin.Context) (*nameResolver, error) {
	res := &nameResolver{
		subjects: make(map[uint]string),
		teachers: make(map[uint]string),
	}

	var subjects []models.Subject
	if err := database.DB.WithContext(c.Request.Context()).Find(&subjects).Error; err != nil {
		return nil, err
	}
	for _, s := range subjects {
		res.subjects[s.ID] = s.Name
	}

	var teachers []models.User
	if err := database.DB.WithContext(c.Request.Context()).Where("role = ?", "teacher").Find(&teachers).Error; err != nil {
		return nil, err
	}
	for _, t := range teachers {
		res.teachers[t.ID] = t.LastName + " " + t.FirstName
	}

	return res, nil
}
