package schedule

// Типы занятий
const (
	TypeLecture  = "lecture"
	TypePractice = "practice"
	TypeLab      = "lab"
)

// Lesson одна ячейка недельной сетки в модели редактирования
type Lesson struct {
	Time       string `json:"time"`
	SubjectID  Ref    `json:"subjectId"`
	TeacherID  Ref    `json:"teacherId"`
	Classroom  string `json:"classroom"`
	LessonType string `json:"lessonType"`
}

// Empty сообщает, что в ячейке ничего не назначено
func (l Lesson) Empty() bool {
	return l.SubjectID == 0 && l.TeacherID == 0 && l.Classroom == ""
}

// Day день недели с упорядоченным списком пар (индекс = номер пары - 1)
type Day struct {
	Day     string   `json:"day"`
	Lessons []Lesson `json:"lessons"`
}

// Week недельное расписание одной группы
type Week []Day

// SavePayload тело запроса на полную замену расписания группы
type SavePayload struct {
	GroupID uint `json:"groupId" binding:"required"`
	Week    Week `json:"week"`
}

// NormalizeLessonType приводит тип занятия к одному из трёх
// допустимых значений; всё незнакомое считается лекцией.
func NormalizeLessonType(t string) string {
	switch t {
	case TypeLecture, TypePractice, TypeLab:
		return t
	}
	return TypeLecture
}

// Normalize приводит расписание произвольной формы к канонической
// сетке: ровно 6 дней Monday..Saturday по 6 пар в каждом. Отсутствующие
// дни и пары дополняются пустыми ячейками с типом lecture, лишние
// отбрасываются, время пересчитывается из смены и номера пары.
// Кривые записи деградируют до значений по умолчанию без ошибок:
// редактор в любом случае отправляет неделю целиком.
func Normalize(week Week, shift int) Week {
	byDay := make(map[string][]Lesson, len(week))
	for _, d := range week {
		if DayIndex(d.Day) < 0 {
			continue
		}
		byDay[d.Day] = d.Lessons
	}

	out := make(Week, DaysPerWeek)
	for di, name := range Weekdays {
		lessons := make([]Lesson, SlotsPerDay)
		src := byDay[name]
		for si := 0; si < SlotsPerDay; si++ {
			var l Lesson
			if si < len(src) {
				l = src[si]
			}
			l.Time = SlotLabel(shift, si+1)
			l.LessonType = NormalizeLessonType(l.LessonType)
			lessons[si] = l
		}
		out[di] = Day{Day: name, Lessons: lessons}
	}
	return out
}

// EmptyWeek возвращает пустую каноническую неделю для группы,
// у которой расписание ещё не составлялось.
func EmptyWeek(shift int) Week {
	return Normalize(nil, shift)
}
