package schedule

import (
	"strconv"
	"strings"
)

// Field редактируемое поле ячейки расписания
type Field string

const (
	FieldSubject   Field = "subjectId"
	FieldTeacher   Field = "teacherId"
	FieldClassroom Field = "classroom"
	FieldType      Field = "lessonType"
)

// Editor накапливает правки недельного расписания одной группы.
// Неделя при создании приводится к канонической сетке 6x6, поэтому
// каждая правка адресует существующую ячейку.
type Editor struct {
	shift int
	week  Week
}

// NewEditor создаёт редактор поверх расписания с сервера.
// Для группы без сохранённого расписания передаётся nil.
func NewEditor(week Week, shift int) *Editor {
	return &Editor{shift: shift, week: Normalize(week, shift)}
}

// UpdateLesson меняет одно поле одной ячейки, не трогая остальные.
// Индексы вне сетки игнорируются. Для subjectId/teacherId значение —
// id строкой, пустая строка снимает назначение. Повторное применение
// той же правки ничего не меняет.
func (e *Editor) UpdateLesson(day, slot int, field Field, value string) {
	if day < 0 || day >= DaysPerWeek || slot < 0 || slot >= SlotsPerDay {
		return
	}

	l := &e.week[day].Lessons[slot]
	switch field {
	case FieldSubject:
		l.SubjectID = parseRef(value)
	case FieldTeacher:
		l.TeacherID = parseRef(value)
	case FieldClassroom:
		l.Classroom = value
	case FieldType:
		l.LessonType = NormalizeLessonType(value)
	}
}

// Week возвращает текущее состояние недели
func (e *Editor) Week() Week {
	return e.week
}

// Payload собирает тело запроса на сохранение: неделя целиком,
// время пересчитано по смене, пустые ссылки уйдут в JSON как null.
func (e *Editor) Payload(groupID uint) SavePayload {
	return SavePayload{GroupID: groupID, Week: Normalize(e.week, e.shift)}
}

func parseRef(value string) Ref {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0
	}
	return Ref(n)
}
