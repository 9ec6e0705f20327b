package schedule

import "testing"

func TestProjectPlacement(t *testing.T) {
	week := Week{
		{Day: "Monday", Lessons: []Lesson{{SubjectID: 1}}},
		{Day: "Thursday", Lessons: []Lesson{
			{}, {}, {SubjectID: 2, Classroom: "C-305"},
		}},
	}

	grid := Project(week)

	if grid[0][0] == nil || grid[0][0].SubjectID != 1 {
		t.Error("понедельник, первая пара не на месте")
	}
	if grid[2][3] == nil || grid[2][3].SubjectID != 2 || grid[2][3].Classroom != "C-305" {
		t.Error("четверг, третья пара не на месте")
	}
	// Пустые входные ячейки присутствуют в сетке, отсутствующие дни — нет
	if grid[0][3] == nil {
		t.Error("четверг, первая пара должна быть явной пустой ячейкой")
	}
	if grid[0][1] != nil {
		t.Error("вторник не передавался, ячейка должна быть nil")
	}
}

func TestProjectDropsUnknown(t *testing.T) {
	long := make([]Lesson, 8)
	for i := range long {
		long[i] = Lesson{SubjectID: Ref(i + 1)}
	}
	week := Week{
		{Day: "Funday", Lessons: []Lesson{{SubjectID: 9}}},
		{Day: "Tuesday", Lessons: long},
	}

	grid := Project(week)

	for si := 0; si < SlotsPerDay; si++ {
		for di := 0; di < DaysPerWeek; di++ {
			l := grid[si][di]
			if l == nil {
				continue
			}
			if di != 1 {
				t.Errorf("ячейка [%d][%d] заполнена из нераспознанного дня", si, di)
			}
			if l.SubjectID == 9 {
				t.Errorf("ячейка [%d][%d] пришла из дня Funday", si, di)
			}
		}
	}
	if grid[SlotsPerDay-1][1] == nil || grid[SlotsPerDay-1][1].SubjectID != 6 {
		t.Error("шестая пара вторника потеряна")
	}
}

// Проекция копирует данные: правка сетки не меняет исходную неделю.
func TestProjectIsPure(t *testing.T) {
	week := Week{{Day: "Monday", Lessons: []Lesson{{SubjectID: 1}}}}

	grid := Project(week)
	grid[0][0].SubjectID = 99

	if week[0].Lessons[0].SubjectID != 1 {
		t.Error("правка проекции изменила исходные данные")
	}
}
