package school

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
)

var (
	// errors
	ErrMatricolaExists = errors.New("a student with this matricola already exists")
)

func cleanString(s string) string { return core.CleanString(s) }

func cleanPtr(s *string) {
	if s != nil {
		*s = core.CleanString(*s)
	}
}

func (t Teacher) FullName() string { return t.FirstName + " " + t.LastName }

func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// find returns the first element matching id, foreign keys are resolved by linear search.
func find[T any](list []T, id string, key func(T) string) (T, bool) {
	for _, it := range list {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func FindRoom(rooms []Room, id string) (Room, bool) {
	return find(rooms, id, func(r Room) string { return r.ID })
}

func FindCourse(courses []Course, id string) (Course, bool) {
	return find(courses, id, func(c Course) string { return c.ID })
}

func FindTeacher(teachers []Teacher, id string) (Teacher, bool) {
	return find(teachers, id, func(t Teacher) string { return t.ID })
}

func FindStudent(students []Student, id string) (Student, bool) {
	return find(students, id, func(s Student) string { return s.ID })
}

func TeacherName(teachers []Teacher, id string) string {
	if t, ok := FindTeacher(teachers, id); ok {
		return t.FullName()
	}
	return core.NotAvailable
}

func RoomName(rooms []Room, id string) string {
	if r, ok := FindRoom(rooms, id); ok {
		return r.Name
	}
	return core.NotAvailable
}

func CourseName(courses []Course, id string) string {
	if c, ok := FindCourse(courses, id); ok {
		return c.Name
	}
	return core.NotAvailable
}

// StudentName renders "First Last (matricola)".
func StudentName(students []Student, id string) string {
	if s, ok := FindStudent(students, id); ok {
		return fmt.Sprintf("%s (%s)", s.FullName(), s.Matricola)
	}
	return core.NotAvailable
}
