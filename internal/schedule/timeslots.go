// Package schedule реализует доменную модель недельного расписания:
// нормализацию входных данных, проекцию в сетку 6x6, редактирование
// и подготовку к отображению. Пакет не зависит от базы данных.
package schedule

const (
	// DaysPerWeek количество учебных дней (понедельник-суббота)
	DaysPerWeek = 6
	// SlotsPerDay количество пар в одном дне
	SlotsPerDay = 6
)

// Weekdays фиксированный словарь учебных дней. Индекс дня в сетке
// равен его позиции в этом списке.
var Weekdays = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

type slotRange struct {
	Start string
	End   string
}

// Таблицы звонков по сменам: пара 50 минут, перерыв 10 минут.
// Первая смена с 08:00, вторая с 14:00.
var shiftTimes = [2][SlotsPerDay]slotRange{
	{
		{"08:00", "08:50"},
		{"09:00", "09:50"},
		{"10:00", "10:50"},
		{"11:00", "11:50"},
		{"12:00", "12:50"},
		{"13:00", "13:50"},
	},
	{
		{"14:00", "14:50"},
		{"15:00", "15:50"},
		{"16:00", "16:50"},
		{"17:00", "17:50"},
		{"18:00", "18:50"},
		{"19:00", "19:50"},
	},
}

// SlotTimes возвращает время начала и конца пары (HH:MM) для смены
// и номера пары 1..6. Неизвестная смена трактуется как первая,
// неизвестный номер пары даёт пустые строки.
func SlotTimes(shift, slot int) (string, string) {
	if shift != 2 {
		shift = 1
	}
	if slot < 1 || slot > SlotsPerDay {
		return "", ""
	}
	r := shiftTimes[shift-1][slot-1]
	return r.Start, r.End
}

// SlotLabel возвращает отображаемый диапазон, например "08:00 - 08:50".
func SlotLabel(shift, slot int) string {
	start, end := SlotTimes(shift, slot)
	if start == "" {
		return ""
	}
	return start + " - " + end
}

// DayIndex возвращает позицию дня в словаре Weekdays или -1,
// если имя дня не распознано.
func DayIndex(name string) int {
	for i, d := range Weekdays {
		if d == name {
			return i
		}
	}
	return -1
}
