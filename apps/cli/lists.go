package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trezcool/scuola/core/school"
)

func itoa(n int) string { return strconv.Itoa(n) }

func courseTable(courses []school.Course, teachers []school.Teacher, rooms []school.Room) table {
	st := school.NewCourseStats(courses, rooms)
	t := table{
		title:  pageTexts[coursesPage].title,
		header: []string{"ID", "Nome", "Data", "Docente", "Aula"},
		stats: [][2]string{
			{"Totale corsi", itoa(st.Total)},
			{"Capacità totale", itoa(st.TotalCapacity)},
			{"Capacità media", itoa(st.AverageCapacity)},
			{"Docenti attivi", itoa(st.ActiveTeachers)},
			{"Aule in uso", itoa(st.RoomsInUse)},
		},
	}
	for _, c := range courses {
		t.rows = append(t.rows, []string{c.ID, c.Name, c.Date, school.TeacherName(teachers, c.TeacherID), school.RoomName(rooms, c.RoomID)})
	}
	return t
}

func roomTable(rooms []school.Room, courses []school.Course) table {
	st := school.NewRoomStats(rooms, courses)
	t := table{
		title:  pageTexts[roomsPage].title,
		header: []string{"ID", "Nome", "Posti"},
		stats: [][2]string{
			{"Totale aule", itoa(st.Total)},
			{"Posti totali", itoa(st.TotalSeats)},
			{"Media posti", itoa(st.AverageSeats)},
			{"Aula più grande", st.Largest},
			{"Aule in uso", itoa(st.InUse)},
			{"Aule libere", itoa(st.Free)},
		},
	}
	for _, r := range rooms {
		t.rows = append(t.rows, []string{r.ID, r.Name, itoa(r.Seats)})
	}
	return t
}

func teacherTable(teachers []school.Teacher, courses []school.Course) table {
	st := school.NewTeacherStats(teachers, courses)
	t := table{
		title:  pageTexts[teachersPage].title,
		header: []string{"ID", "Nome", "Cognome"},
		stats: [][2]string{
			{"Totale docenti", itoa(st.Total)},
			{"Con corsi", itoa(st.WithCourses)},
			{"Senza corsi", itoa(st.WithoutCourses)},
			{"Media corsi per docente", st.AvgCourses},
			{"Docente più attivo", st.MostActive},
		},
	}
	for _, tc := range teachers {
		t.rows = append(t.rows, []string{tc.ID, tc.FirstName, tc.LastName})
	}
	return t
}

func studentTable(students []school.Student) table {
	st := school.NewStudentStats(students)
	t := table{
		title:  pageTexts[studentsPage].title,
		header: []string{"ID", "Nome", "Cognome", "Matricola"},
		stats: [][2]string{
			{"Totale studenti", itoa(st.Total)},
			{"Prima matricola", st.FirstMatricola},
			{"Ultima matricola", st.LastMatricola},
			{"Nomi unici", itoa(st.UniqueFirstNames)},
			{"Iniziale più comune", st.MostCommonInitial},
		},
	}
	for _, s := range students {
		t.rows = append(t.rows, []string{s.ID, s.FirstName, s.LastName, s.Matricola})
	}
	return t
}

func enrollmentTable(enrollments []school.Enrollment, courses []school.Course, students []school.Student) table {
	st := school.NewEnrollmentStats(enrollments, courses, students)
	t := table{
		title:  pageTexts[enrollmentsPage].title,
		header: []string{"ID", "Corso", "Studente"},
		stats: [][2]string{
			{"Totale iscrizioni", itoa(st.Total)},
			{"Studenti iscritti", itoa(st.EnrolledStudents)},
			{"Corsi attivi", itoa(st.ActiveCourses)},
			{"Media iscritti per corso", st.AvgPerCourse},
			{"Corso più popolare", st.MostPopular},
			{"Studente più attivo", st.MostActive},
		},
	}
	for _, e := range enrollments {
		t.rows = append(t.rows, []string{e.ID, school.CourseName(courses, e.CourseID), school.StudentName(students, e.StudentID)})
	}
	return t
}

// loading prints the loading indicator when it is set.
func (cli *commandLine) loading(isLoading bool) {
	if isLoading {
		fmt.Fprintln(cli.out, loadingText)
	}
}

// loadFailed tells the user a list could not be refreshed. The view still renders what is cached.
func (cli *commandLine) loadFailed(err error) {
	if err == nil {
		return
	}
	cli.toasts.Error(errLoadListText)
	cli.log.Error(err.Error(), err)
}

// list loads what the list view of page reads and renders it.
// An error means the view could not be entered at all.
func (cli *commandLine) list(ctx context.Context, page string) (table, error) {
	c := cli.caches

	switch page {
	case coursesPage:
		fetches := []<-chan error{c.Courses.FetchAll(ctx), c.Teachers.FetchAll(ctx), c.Rooms.FetchAll(ctx)}
		cli.loading(c.CourseListLoading())
		cli.loadFailed(wait(ctx, fetches...))
		return courseTable(c.Courses.List(), c.Teachers.List(), c.Rooms.List()), nil

	case roomsPage:
		data, err := c.ResolveRoomList(ctx)
		if err != nil {
			return table{}, err
		}
		return roomTable(data.Rooms, data.Courses), nil

	case teachersPage:
		cli.loading(true)
		cli.loadFailed(c.LoadTeacherList(ctx))
		return teacherTable(c.Teachers.List(), c.Courses.List()), nil

	case studentsPage:
		done := c.Students.FetchAll(ctx)
		cli.loading(c.Students.IsLoading())
		cli.loadFailed(wait(ctx, done))
		return studentTable(c.Students.List()), nil

	case enrollmentsPage:
		fetches := []<-chan error{c.Enrollments.FetchAll(ctx), c.Courses.FetchAll(ctx), c.Students.FetchAll(ctx)}
		cli.loading(c.Enrollments.IsLoading())
		cli.loadFailed(wait(ctx, fetches...))
		return enrollmentTable(c.Enrollments.List(), c.Courses.List(), c.Students.List()), nil
	}
	return table{}, fmt.Errorf("%q: no such page", page)
}

// showList navigates to the list view of page.
func (cli *commandLine) showList(ctx context.Context, page string) error {
	t, err := cli.list(ctx, page)
	if err != nil {
		return err
	}
	return t.write(cli.out)
}
