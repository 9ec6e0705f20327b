package schedule

import (
	"hash/fnv"
	"time"
)

// PaletteSize количество цветов в палитре карточек предметов
const PaletteSize = 8

// Подписи типов занятий для бейджей
var typeLabels = map[string]string{
	TypeLecture:  "Лекция",
	TypePractice: "Практика",
	TypeLab:      "Лабораторная",
}

// TypeLabel возвращает подпись бейджа; для неизвестного типа "—"
func TypeLabel(t string) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "—"
}

// ColorIndex детерминированно отображает название предмета в индекс
// палитры: одно и то же название всегда даёт один и тот же цвет.
// Чисто оформительская функция, нигде не сохраняется.
func ColorIndex(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % PaletteSize)
}

// NameResolver отдаёт отображаемые имена по id
type NameResolver interface {
	SubjectName(id uint) string
	TeacherName(id uint) string
}

// CellView ячейка сетки, подготовленная к отображению
type CellView struct {
	Filled    bool   `json:"filled"`
	Time      string `json:"time"`
	Subject   string `json:"subject,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	Type      string `json:"type,omitempty"`
	TypeLabel string `json:"type_label,omitempty"`
	Color     int    `json:"color"`
	Current   bool   `json:"current"`
}

// WeekView недельная сетка для режима просмотра
type WeekView struct {
	Days  [DaysPerWeek]string                `json:"days"`
	Times [SlotsPerDay]string                `json:"times"`
	Cells [SlotsPerDay][DaysPerWeek]CellView `json:"cells"`
}

// BuildView собирает сетку для просмотра: имена предметов и
// преподавателей разрешены, у каждой ячейки подпись времени и цвет.
// currentDay (0..5) и currentSlot (1..6) задают единственную
// подсвечиваемую ячейку; значения вне диапазона не подсвечивают ничего.
func BuildView(week Week, shift int, res NameResolver, currentDay, currentSlot int) *WeekView {
	view := &WeekView{Days: Weekdays}
	for si := 0; si < SlotsPerDay; si++ {
		view.Times[si] = SlotLabel(shift, si+1)
	}

	grid := Project(Normalize(week, shift))
	for si := 0; si < SlotsPerDay; si++ {
		for di := 0; di < DaysPerWeek; di++ {
			cell := CellView{
				Time:    view.Times[si],
				Current: di == currentDay && si+1 == currentSlot,
			}
			if l := grid[si][di]; l != nil && !l.Empty() {
				cell.Filled = true
				cell.Classroom = l.Classroom
				cell.Type = l.LessonType
				cell.TypeLabel = TypeLabel(l.LessonType)
				if res != nil {
					cell.Subject = res.SubjectName(uint(l.SubjectID))
					cell.Teacher = res.TeacherName(uint(l.TeacherID))
				}
				cell.Color = ColorIndex(cell.Subject)
			}
			view.Cells[si][di] = cell
		}
	}
	return view
}

// CurrentSlot вычисляет текущий день (0..5) и номер идущей пары
// (1..6) по настенным часам. В воскресенье день равен -1, вне пар
// номер равен 0. Используется только для подсветки.
func CurrentSlot(shift int, now time.Time) (day, slot int) {
	day = int(now.Weekday()) - 1 // у time.Weekday воскресенье = 0
	if day < 0 {
		return -1, 0
	}

	clock := now.Format("15:04")
	for i := 1; i <= SlotsPerDay; i++ {
		start, end := SlotTimes(shift, i)
		if clock >= start && clock <= end {
			return day, i
		}
	}
	return day, 0
}
