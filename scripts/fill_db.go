package main

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"

	"unijournal/internal/config"
	"unijournal/internal/database"
	"unijournal/internal/models"
	"unijournal/internal/schedule"

	"golang.org/x/crypto/bcrypt"
)

var (
	firstNames = []string{"Александр", "Дмитрий", "Максим", "Иван", "Артём", "Михаил", "Даниил", "Егор", "Никита", "Кирилл",
		"Анна", "Мария", "Елена", "Ольга", "Наталья", "Екатерина", "Татьяна", "Ирина", "Светлана", "Людмила"}
	lastNames = []string{"Иванов", "Петров", "Сидоров", "Смирнов", "Кузнецов", "Попов", "Васильев", "Соколов", "Михайлов", "Новиков",
		"Иванова", "Петрова", "Сидорова", "Смирнова", "Кузнецова", "Попова", "Васильева", "Соколова", "Михайлова", "Новикова"}
	subjectNames = []string{"Математический анализ", "Линейная алгебра", "Программирование", "Базы данных", "Операционные системы",
		"Компьютерные сети", "Теория вероятностей", "Дискретная математика", "Английский язык", "Физика", "Философия", "Физкультура"}
	groupNames = []string{"CS-101", "CS-201", "CS-301", "MA-102", "MA-202"}
	classrooms = []string{"A-101", "A-102", "B-201", "B-203", "C-305", "C-310", "D-412"}
	types      = []string{schedule.TypeLecture, schedule.TypePractice, schedule.TypeLab}
)

func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal(err)
	}

	db := database.DB
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Администратор
	fmt.Println("👤 Создаём администратора...")
	admin := models.User{
		Username:     "admin",
		Email:        "admin@university.ru",
		PasswordHash: string(password),
		Role:         "admin",
		FirstName:    "Сергей",
		LastName:     "Волков",
	}
	var existing models.User
	db.Where("username = ?", admin.Username).First(&existing)
	if existing.ID == 0 {
		db.Create(&admin)
		fmt.Println("  ✅ admin / password123")
	} else {
		admin = existing
	}

	// Дисциплины
	fmt.Println("\n📚 Создаём дисциплины...")
	var subjects []models.Subject
	for _, name := range subjectNames {
		subject := models.Subject{
			Name:        name,
			Description: fmt.Sprintf("Дисциплина «%s»", name),
		}
		db.Where("name = ?", name).FirstOrCreate(&subject)
		subjects = append(subjects, subject)
		fmt.Printf("  ✅ %s\n", name)
	}

	// Преподаватели, по одному на дисциплину
	fmt.Println("\n👨‍🏫 Создаём преподавателей...")
	var teachers []models.User
	for i, subject := range subjects {
		teacher := models.User{
			Username:     fmt.Sprintf("teacher%d", i+1),
			Email:        fmt.Sprintf("teacher%d@university.ru", i+1),
			PasswordHash: string(password),
			Role:         "teacher",
			FirstName:    firstNames[rand.Intn(len(firstNames))],
			LastName:     lastNames[rand.Intn(len(lastNames))],
			MiddleName:   "Викторович",
			Department:   "Кафедра информатики",
		}
		db.Create(&teacher)
		db.Model(&subject).Association("Teachers").Append(&teacher)
		teachers = append(teachers, teacher)
		fmt.Printf("  ✅ %s %s — %s\n", teacher.LastName, teacher.FirstName, subject.Name)
	}

	// Группы: нечётные в первую смену, чётные во вторую
	fmt.Println("\n🎓 Создаём группы...")
	var groups []models.Group
	for i, name := range groupNames {
		course, _ := strconv.Atoi(name[3:4])
		group := models.Group{
			Name:      name,
			Course:    course,
			Faculty:   "Факультет компьютерных наук",
			Shift:     i%2 + 1,
			CuratorID: &teachers[i%len(teachers)].ID,
		}
		db.Create(&group)
		groups = append(groups, group)
		fmt.Printf("  ✅ %s (смена %d)\n", name, group.Shift)
	}

	// Студенты, 20 на группу
	fmt.Println("\n👨‍🎓 Создаём студентов...")
	studentCounter := 1
	var students []models.User
	for _, group := range groups {
		for j := 0; j < 20; j++ {
			student := models.User{
				Username:     fmt.Sprintf("student%d", studentCounter),
				Email:        fmt.Sprintf("student%d@university.ru", studentCounter),
				PasswordHash: string(password),
				Role:         "student",
				FirstName:    firstNames[rand.Intn(len(firstNames))],
				LastName:     lastNames[rand.Intn(len(lastNames))],
				MiddleName:   "Александрович",
			}
			db.Create(&student)
			db.Model(&group).Association("Students").Append(&student)
			students = append(students, student)
			studentCounter++
		}
	}
	fmt.Printf("  ✅ Создано %d студентов\n", len(students))

	// Расписание: собираем неделю через редактор и пишем готовые строки
	fmt.Println("\n📅 Составляем расписание...")
	for _, group := range groups {
		editor := schedule.NewEditor(nil, group.Shift)
		for day := 0; day < schedule.DaysPerWeek; day++ {
			// 4-5 пар в день, последние слоты остаются пустыми
			lessons := 4 + rand.Intn(2)
			for slot := 0; slot < lessons; slot++ {
				si := rand.Intn(len(subjects))
				editor.UpdateLesson(day, slot, schedule.FieldSubject, strconv.Itoa(int(subjects[si].ID)))
				editor.UpdateLesson(day, slot, schedule.FieldTeacher, strconv.Itoa(int(teachers[si].ID)))
				editor.UpdateLesson(day, slot, schedule.FieldClassroom, classrooms[rand.Intn(len(classrooms))])
				editor.UpdateLesson(day, slot, schedule.FieldType, types[rand.Intn(len(types))])
			}
		}

		payload := editor.Payload(group.ID)
		for _, d := range payload.Week {
			for si, l := range d.Lessons {
				start, end := schedule.SlotTimes(group.Shift, si+1)
				db.Create(&models.Lesson{
					GroupID:    group.ID,
					DayOfWeek:  d.Day,
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
		fmt.Printf("  ✅ %s\n", group.Name)
	}

	fmt.Println("\n🎉 База заполнена!")
}
