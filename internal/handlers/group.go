package handlers

import (
	"net/http"
	"strconv"

	"unijournal/internal/cache"
	"unijournal/internal/database"
	"unijournal/internal/models"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	cache *cache.Service
}

func NewGroupHandler(cache *cache.Service) *GroupHandler {
	return &GroupHandler{cache: cache}
}

// CreateGroupRequest структура для создания группы
type CreateGroupRequest struct {
	Name      string `json:"name" binding:"required"`                // "CS-301"
	Course    int    `json:"course" binding:"required,min=1,max=6"`  // Курс
	Faculty   string `json:"faculty"`
	Shift     int    `json:"shift" binding:"required,oneof=1 2"`     // Смена
	CuratorID *uint  `json:"curator_id,omitempty"`
}

// UpdateGroupRequest структура для обновления группы
type UpdateGroupRequest struct {
	Name      string `json:"name"`
	Course    int    `json:"course" binding:"omitempty,min=1,max=6"`
	Faculty   string `json:"faculty"`
	Shift     int    `json:"shift" binding:"omitempty,oneof=1 2"`
	CuratorID *uint  `json:"curator_id"`
}

// AddStudentsRequest структура для добавления студентов
type AddStudentsRequest struct {
	StudentIDs []uint `json:"student_ids" binding:"required"`
}

// GroupResponse группа со счётчиками для списков
type GroupResponse struct {
	models.Group
	StudentCount int64 `json:"student_count"`
	SubjectCount int64 `json:"subject_count"`
}

// CreateGroup создает новую группу
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Проверяем куратора если указан
	if req.CuratorID != nil {
		var curator models.User
		if err := database.DB.Where("id = ? AND role = ?", req.CuratorID, "teacher").First(&curator).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Curator not found or not a teacher"})
			return
		}
	}

	group := models.Group{
		Name:      req.Name,
		Course:    req.Course,
		Faculty:   req.Faculty,
		Shift:     req.Shift,
		CuratorID: req.CuratorID,
	}

	if err := database.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	// Загружаем связи
	database.DB.Preload("Curator").First(&group, group.ID)

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// ListGroups возвращает список групп со счётчиками студентов и предметов
func (h *GroupHandler) ListGroups(c *gin.Context) {
	query := database.DB.Preload("Curator")

	if course := c.Query("course"); course != "" {
		query = query.Where("course = ?", course)
	}
	if faculty := c.Query("faculty"); faculty != "" {
		query = query.Where("faculty = ?", faculty)
	}

	var groups []models.Group
	if err := query.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	result := make([]GroupResponse, len(groups))
	for i, g := range groups {
		result[i].Group = g
		database.DB.Table("group_students").
			Where("group_id = ?", g.ID).
			Count(&result[i].StudentCount)
		// Количество предметов считаем по заполненным ячейкам расписания
		database.DB.Model(&models.Lesson{}).
			Where("group_id = ? AND subject_id IS NOT NULL", g.ID).
			Distinct("subject_id").
			Count(&result[i].SubjectCount)
	}

	c.JSON(http.StatusOK, gin.H{"groups": result})
}

// GetGroup получает информацию о группе
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.Preload("Curator").Preload("Students").First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// UpdateGroup обновляет информацию о группе
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем поля
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Course != 0 {
		group.Course = req.Course
	}
	if req.Faculty != "" {
		group.Faculty = req.Faculty
	}
	if req.Shift != 0 {
		group.Shift = req.Shift
	}
	if req.CuratorID != nil {
		var curator models.User
		if err := database.DB.Where("id = ? AND role = ?", req.CuratorID, "teacher").First(&curator).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid curator"})
			return
		}
		group.CuratorID = req.CuratorID
	}

	if err := database.DB.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	// Смена группы меняет таблицу звонков, закэшированная неделя устарела
	h.cache.Delete(cache.ScheduleKey(group.ID))

	database.DB.Preload("Curator").Preload("Students").First(&group, group.ID)

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// DeleteGroup удаляет группу
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Расписание живёт только вместе с группой
	if err := database.DB.Unscoped().Where("group_id = ?", group.ID).Delete(&models.Lesson{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group schedule"})
		return
	}

	if err := database.DB.Delete(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	h.cache.Delete(cache.ScheduleKey(group.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// AddStudents добавляет студентов в группу
func (h *GroupHandler) AddStudents(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var req AddStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := database.DB.Preload("Students").First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Получаем студентов
	var students []models.User
	if err := database.DB.Where("id IN ? AND role = ?", req.StudentIDs, "student").Find(&students).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Students not found"})
		return
	}

	if len(students) != len(req.StudentIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Some students not found or not valid"})
		return
	}

	// Добавляем студентов
	if err := database.DB.Model(&group).Association("Students").Append(&students); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add students"})
		return
	}

	database.DB.Preload("Students").First(&group, group.ID)

	c.JSON(http.StatusOK, gin.H{"group": group, "message": "Students added successfully"})
}

// RemoveStudent удаляет студента из группы
func (h *GroupHandler) RemoveStudent(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var group models.Group
	if err := database.DB.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var student models.User
	if err := database.DB.First(&student, studentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if err := database.DB.Model(&group).Association("Students").Delete(&student); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student removed successfully"})
}
