package models

import (
	"time"

	"gorm.io/gorm"
)

// User представляет пользователя системы
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null;size:50" json:"username"`
	Email        string         `gorm:"unique;not null;size:100" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	Role         string         `gorm:"not null;size:20;index" json:"role"` // admin, teacher, student
	FirstName    string         `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string         `gorm:"size:100" json:"last_name,omitempty"`
	MiddleName   string         `gorm:"size:100" json:"middle_name,omitempty"`
	Department   string         `gorm:"size:100" json:"department,omitempty"` // Кафедра преподавателя
	AvatarKey    string         `gorm:"size:500" json:"-"`                    // Ключ объекта в MinIO
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Group представляет учебную группу
type Group struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:50" json:"name"` // "CS-301", "MA-102"
	Course    int            `gorm:"not null" json:"course"`       // Курс 1-6
	Faculty   string         `gorm:"size:100" json:"faculty"`
	Shift     int            `gorm:"not null;default:1" json:"shift"` // 1 или 2, определяет таблицу звонков
	CuratorID *uint          `json:"curator_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Связи
	Curator  *User  `gorm:"foreignKey:CuratorID" json:"curator,omitempty"`
	Students []User `gorm:"many2many:group_students;" json:"students,omitempty"`
}

// Subject представляет учебную дисциплину
type Subject struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:100" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Связи
	Teachers []User `gorm:"many2many:teacher_subjects;" json:"teachers,omitempty"`
}

// Lesson представляет одну ячейку недельного расписания группы.
// Неделя хранится целиком: 6 дней по 6 пар, у пустых ячеек
// subject_id/teacher_id равны NULL.
type Lesson struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GroupID    uint      `gorm:"not null;index" json:"group_id"`
	DayOfWeek  string    `gorm:"not null;size:20" json:"day_of_week"` // Monday..Saturday
	SlotNumber int       `gorm:"not null" json:"slot_number"`         // 1-6
	SubjectID  *uint     `gorm:"index" json:"subject_id,omitempty"`   // NULL = пара не назначена
	TeacherID  *uint     `gorm:"index" json:"teacher_id,omitempty"`
	Classroom  string    `gorm:"size:50" json:"classroom,omitempty"`
	LessonType string    `gorm:"size:20;default:lecture" json:"lesson_type"` // lecture, practice, lab
	StartTime  string    `gorm:"size:10" json:"start_time,omitempty"`        // HH:MM, выводится из смены и номера пары
	EndTime    string    `gorm:"size:10" json:"end_time,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Связи
	Group   Group    `gorm:"foreignKey:GroupID" json:"-"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// Attendance представляет отметку посещаемости студента
type Attendance struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	StudentID  uint           `gorm:"not null;index" json:"student_id"`
	GroupID    uint           `gorm:"not null;index" json:"group_id"`
	SubjectID  *uint          `gorm:"index" json:"subject_id,omitempty"`
	Date       time.Time      `gorm:"not null;type:date;index" json:"date"`
	SlotNumber *int           `json:"slot_number,omitempty"`
	Status     string         `gorm:"not null;size:20" json:"status"` // present, absent, late, excused
	Comment    string         `gorm:"type:text" json:"comment,omitempty"`
	MarkedBy   *uint          `json:"marked_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Связи
	Student User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Group   Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Marker  *User    `gorm:"foreignKey:MarkedBy" json:"marked_by_user,omitempty"`
}

// Grade представляет оценку студента
type Grade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	SubjectID uint      `gorm:"not null;index" json:"subject_id"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	Grade     int       `gorm:"not null" json:"grade"`               // 1-5
	GradeType string    `gorm:"size:20" json:"grade_type,omitempty"` // homework, test, exam, oral, final
	Date      time.Time `gorm:"not null;type:date" json:"date"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Student User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Teacher User    `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}
