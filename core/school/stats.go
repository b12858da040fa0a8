package school

import (
	"fmt"
	"math"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trezcool/scuola/core"
)

type (
	CourseStats struct {
		Total           int
		TotalCapacity   int
		AverageCapacity int
		ActiveTeachers  int
		RoomsInUse      int
	}

	RoomStats struct {
		Total        int
		TotalSeats   int
		AverageSeats int
		Largest      string // "<name> (<seats>)"
		InUse        int
		Free         int
	}

	TeacherStats struct {
		Total          int
		WithCourses    int
		WithoutCourses int
		AvgCourses     string // one decimal, "0" when there are no teachers
		MostActive     string // "First Last (n)"
	}

	StudentStats struct {
		Total             int
		FirstMatricola    string
		LastMatricola     string
		UniqueFirstNames  int
		MostCommonInitial string // "X (n)"
	}

	EnrollmentStats struct {
		Total            int
		EnrolledStudents int
		ActiveCourses    int
		AvgPerCourse     string
		MostPopular      string // "Course (n)"
		MostActive       string // "First Last (n)"
	}
)

// roundHalfUp rounds like the dashboards always did: .5 goes up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + .5))
}

func average(sum, count int) int {
	if count == 0 {
		return 0
	}
	return roundHalfUp(float64(sum) / float64(count))
}

func oneDecimal(num, den int) string {
	if den == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(num)/float64(den))
}

func distinct[T any](list []T, key func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, it := range list {
		set[key(it)] = struct{}{}
	}
	return set
}

// topCount groups list by key and returns the key with the highest count.
// Ties are won by the key seen first.
func topCount[T any](list []T, key func(T) string) (string, int, bool) {
	counts := make(map[string]int, len(list))
	order := make([]string, 0, len(list))
	for _, it := range list {
		k := key(it)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	var (
		top   string
		max   int
		found bool
	)
	for _, k := range order {
		if counts[k] > max {
			top, max, found = k, counts[k], true
		}
	}
	return top, max, found
}

func NewCourseStats(courses []Course, rooms []Room) CourseStats {
	var capacity int
	for _, c := range courses {
		if r, ok := FindRoom(rooms, c.RoomID); ok {
			capacity += r.Seats
		}
	}
	return CourseStats{
		Total:           len(courses),
		TotalCapacity:   capacity,
		AverageCapacity: average(capacity, len(courses)),
		ActiveTeachers:  len(distinct(courses, func(c Course) string { return c.TeacherID })),
		RoomsInUse:      len(distinct(courses, func(c Course) string { return c.RoomID })),
	}
}

func NewRoomStats(rooms []Room, courses []Course) RoomStats {
	stats := RoomStats{Total: len(rooms), Largest: core.NotAvailable}
	used := distinct(courses, func(c Course) string { return c.RoomID })

	largest := -1
	for i, r := range rooms {
		stats.TotalSeats += r.Seats
		if _, ok := used[r.ID]; ok {
			stats.InUse++
		}
		// on equal seats the later room wins
		if largest < 0 || r.Seats >= rooms[largest].Seats {
			largest = i
		}
	}
	if largest >= 0 {
		stats.Largest = fmt.Sprintf("%s (%d)", rooms[largest].Name, rooms[largest].Seats)
	}
	stats.AverageSeats = average(stats.TotalSeats, stats.Total)
	stats.Free = stats.Total - stats.InUse
	return stats
}

func NewTeacherStats(teachers []Teacher, courses []Course) TeacherStats {
	stats := TeacherStats{Total: len(teachers), AvgCourses: oneDecimal(len(courses), len(teachers)), MostActive: core.NotAvailable}

	assigned := distinct(courses, func(c Course) string { return c.TeacherID })
	for _, t := range teachers {
		if _, ok := assigned[t.ID]; ok {
			stats.WithCourses++
		}
	}
	stats.WithoutCourses = stats.Total - stats.WithCourses

	if len(courses) == 0 || len(teachers) == 0 {
		return stats
	}
	if id, n, ok := topCount(courses, func(c Course) string { return c.TeacherID }); ok {
		if t, found := FindTeacher(teachers, id); found {
			stats.MostActive = fmt.Sprintf("%s (%d)", t.FullName(), n)
		}
	}
	return stats
}

// SortByMatricola sorts students by enrollment number using locale-aware collation.
func SortByMatricola(students []Student) []Student {
	sorted := make([]Student, len(students))
	copy(sorted, students)
	coll := collate.New(language.Italian)
	sort.SliceStable(sorted, func(i, j int) bool {
		return coll.CompareString(sorted[i].Matricola, sorted[j].Matricola) < 0
	})
	return sorted
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func NewStudentStats(students []Student) StudentStats {
	stats := StudentStats{
		Total:             len(students),
		FirstMatricola:    core.NotAvailable,
		LastMatricola:     core.NotAvailable,
		MostCommonInitial: core.NotAvailable,
		UniqueFirstNames:  len(distinct(students, func(s Student) string { return core.CleanString(s.FirstName, true) })),
	}
	if len(students) == 0 {
		return stats
	}

	sorted := SortByMatricola(students)
	stats.FirstMatricola = sorted[0].Matricola
	stats.LastMatricola = sorted[len(sorted)-1].Matricola

	if letter, n, ok := topCount(students, func(s Student) string { return initial(s.LastName) }); ok {
		stats.MostCommonInitial = fmt.Sprintf("%s (%d)", letter, n)
	}
	return stats
}

func NewEnrollmentStats(enrollments []Enrollment, courses []Course, students []Student) EnrollmentStats {
	activeCourses := len(distinct(enrollments, func(e Enrollment) string { return e.CourseID }))
	stats := EnrollmentStats{
		Total:            len(enrollments),
		EnrolledStudents: len(distinct(enrollments, func(e Enrollment) string { return e.StudentID })),
		ActiveCourses:    activeCourses,
		AvgPerCourse:     oneDecimal(len(enrollments), activeCourses),
		MostPopular:      core.NotAvailable,
		MostActive:       core.NotAvailable,
	}
	if len(enrollments) == 0 {
		return stats
	}

	if id, n, ok := topCount(enrollments, func(e Enrollment) string { return e.CourseID }); ok {
		if c, found := FindCourse(courses, id); found {
			stats.MostPopular = fmt.Sprintf("%s (%d)", c.Name, n)
		}
	}
	if id, n, ok := topCount(enrollments, func(e Enrollment) string { return e.StudentID }); ok {
		if s, found := FindStudent(students, id); found {
			stats.MostActive = fmt.Sprintf("%s (%d)", s.FullName(), n)
		}
	}
	return stats
}
