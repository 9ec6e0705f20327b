package schedule

// Grid сетка расписания: первый индекс — номер пары (0..5),
// второй — день недели (0 = Monday). nil — явно пустая ячейка.
type Grid [SlotsPerDay][DaysPerWeek]*Lesson

// Project раскладывает дневное представление недели в сетку
// пара x день. Дни с неизвестным именем и пары с индексом >= 6
// молча отбрасываются; проекция чистая и не трогает вход.
func Project(week Week) Grid {
	var grid Grid
	for _, d := range week {
		di := DayIndex(d.Day)
		if di < 0 {
			continue
		}
		for si := range d.Lessons {
			if si >= SlotsPerDay {
				break
			}
			l := d.Lessons[si]
			grid[si][di] = &l
		}
	}
	return grid
}
