package schedule

import (
	"encoding/json"
	"reflect"
	"testing"
)

// Сценарий составления расписания с нуля: одна пара в понедельник,
// остальные 35 ячеек недели остаются пустыми.
func TestEditorSingleLesson(t *testing.T) {
	e := NewEditor(nil, 1)
	e.UpdateLesson(0, 0, FieldSubject, "3")
	e.UpdateLesson(0, 0, FieldTeacher, "5")
	e.UpdateLesson(0, 0, FieldClassroom, "A-101")
	e.UpdateLesson(0, 0, FieldType, "lecture")

	p := e.Payload(17)
	if p.GroupID != 17 {
		t.Errorf("groupId = %d, want 17", p.GroupID)
	}

	got := p.Week[0].Lessons[0]
	want := Lesson{Time: "08:00 - 08:50", SubjectID: 3, TeacherID: 5, Classroom: "A-101", LessonType: TypeLecture}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("понедельник, первая пара = %+v, want %+v", got, want)
	}

	empty := 0
	for _, d := range p.Week {
		for _, l := range d.Lessons {
			if l.Empty() {
				empty++
			}
		}
	}
	if empty != 35 {
		t.Errorf("пустых ячеек %d, want 35", empty)
	}
}

func TestEditorUpdateIsIdempotent(t *testing.T) {
	e := NewEditor(nil, 1)
	e.UpdateLesson(1, 2, FieldSubject, "4")
	before := e.Week()

	e.UpdateLesson(1, 2, FieldSubject, "4")
	after := e.Week()

	if !reflect.DeepEqual(before, after) {
		t.Error("повторная правка изменила неделю")
	}
}

func TestEditorOutOfRangeIsNoop(t *testing.T) {
	e := NewEditor(nil, 1)
	before := e.Week()

	e.UpdateLesson(-1, 0, FieldSubject, "1")
	e.UpdateLesson(6, 0, FieldSubject, "1")
	e.UpdateLesson(0, -1, FieldSubject, "1")
	e.UpdateLesson(0, 6, FieldSubject, "1")

	if !reflect.DeepEqual(before, e.Week()) {
		t.Error("правка вне сетки изменила неделю")
	}
}

func TestEditorClearAssignment(t *testing.T) {
	e := NewEditor(nil, 2)
	e.UpdateLesson(0, 0, FieldSubject, "3")
	e.UpdateLesson(0, 0, FieldSubject, "")

	l := e.Week()[0].Lessons[0]
	if l.SubjectID != 0 {
		t.Errorf("subjectId = %d после очистки, want 0", l.SubjectID)
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["subjectId"] != nil {
		t.Errorf("очищенная ссылка сериализована как %v, want null", decoded["subjectId"])
	}
}

func TestEditorFieldUpdatesAreIndependent(t *testing.T) {
	e := NewEditor(nil, 1)
	e.UpdateLesson(2, 3, FieldSubject, "7")
	e.UpdateLesson(2, 3, FieldClassroom, "B-203")
	e.UpdateLesson(2, 3, FieldType, "practice")

	l := e.Week()[2].Lessons[3]
	if l.SubjectID != 7 || l.Classroom != "B-203" || l.LessonType != TypePractice {
		t.Errorf("ячейка после трёх правок: %+v", l)
	}
	if l.TeacherID != 0 {
		t.Errorf("teacherId = %d, поле не правилось и должно быть пустым", l.TeacherID)
	}
}

// Редактор поверх расписания с сервера: рваная неделя приводится
// к канонической сетке, правки ложатся в правильные ячейки.
func TestEditorOverExistingWeek(t *testing.T) {
	server := Week{
		{Day: "Tuesday", Lessons: []Lesson{{SubjectID: 1, Classroom: "A-102"}}},
	}

	e := NewEditor(server, 1)
	e.UpdateLesson(1, 1, FieldSubject, "2")

	week := e.Week()
	if week[1].Lessons[0].SubjectID != 1 || week[1].Lessons[0].Classroom != "A-102" {
		t.Error("существующая пара потеряна при нормализации")
	}
	if week[1].Lessons[1].SubjectID != 2 {
		t.Error("правка второй пары вторника не применилась")
	}
	if len(week) != DaysPerWeek || len(week[5].Lessons) != SlotsPerDay {
		t.Error("неделя не приведена к канонической сетке")
	}
}

func TestEditorInvalidRefValue(t *testing.T) {
	e := NewEditor(nil, 1)
	e.UpdateLesson(0, 0, FieldSubject, "abc")
	e.UpdateLesson(0, 1, FieldTeacher, "-3")

	week := e.Week()
	if week[0].Lessons[0].SubjectID != 0 {
		t.Error("нечисловой id должен сниматься в 0")
	}
	if week[0].Lessons[1].TeacherID != 0 {
		t.Error("отрицательный id должен сниматься в 0")
	}
}
