package main

import (
	"context"
	"strconv"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/school"
)

type choice struct {
	id, label string
}

type field struct {
	name    string // JSON name of the attribute, also used as flag name
	label   string
	choices func() []choice // nil for free text
}

// formDef describes the form of one kind of record.
type formDef struct {
	fields []field

	// prepare loads whatever the choice lists read from.
	prepare func(ctx context.Context)

	load   func(ctx context.Context, id string) (map[string]string, error)
	create func(ctx context.Context, values map[string]string) error
	update func(ctx context.Context, id string, values map[string]string) error // nil: records cannot be edited
}

func ptr(s string) *string { return &s }

// seats parses the number of seats of a room.
func seats(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: "numero_posti", Error: "numero_posti must be a number"})
	}
	return n, nil
}

func teacherChoices(teachers []school.Teacher) []choice {
	list := make([]choice, 0, len(teachers))
	for _, t := range teachers {
		list = append(list, choice{t.ID, t.FullName()})
	}
	return list
}

func roomChoices(rooms []school.Room) []choice {
	list := make([]choice, 0, len(rooms))
	for _, r := range rooms {
		list = append(list, choice{r.ID, r.Name})
	}
	return list
}

func courseChoices(courses []school.Course) []choice {
	list := make([]choice, 0, len(courses))
	for _, c := range courses {
		list = append(list, choice{c.ID, c.Name})
	}
	return list
}

func studentChoices(students []school.Student) []choice {
	list := make([]choice, 0, len(students))
	for _, s := range students {
		list = append(list, choice{s.ID, school.StudentName(students, s.ID)})
	}
	return list
}

// wait blocks until every fetch terminated or ctx is done, and returns the first failure.
func wait(ctx context.Context, fetches ...<-chan error) error {
	var first error
	for _, done := range fetches {
		select {
		case err := <-done:
			if first == nil {
				first = err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return first
}

func (cli *commandLine) check(p school.Payload) error {
	return school.Validate(cli.validate, p)
}

func (cli *commandLine) formDefs() map[string]formDef {
	c := cli.caches
	noop := func(context.Context) {}

	return map[string]formDef{
		coursesPage: {
			fields: []field{
				{name: "name", label: "Nome"},
				{name: "date", label: "Data (AAAA-MM-GG)"},
				{name: "docente_id", label: "Docente", choices: func() []choice { return teacherChoices(c.Teachers.List()) }},
				{name: "aula_id", label: "Aula", choices: func() []choice { return roomChoices(c.Rooms.List()) }},
			},
			prepare: func(ctx context.Context) {
				cli.loadFailed(wait(ctx, c.Teachers.FetchAll(ctx), c.Rooms.FetchAll(ctx)))
			},
			load: func(ctx context.Context, id string) (map[string]string, error) {
				rec, err := c.Courses.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return map[string]string{"name": rec.Name, "date": rec.Date, "docente_id": rec.TeacherID, "aula_id": rec.RoomID}, nil
			},
			create: func(ctx context.Context, v map[string]string) error {
				nc := school.NewCourse{Name: v["name"], Date: v["date"], TeacherID: v["docente_id"], RoomID: v["aula_id"]}
				if err := cli.check(&nc); err != nil {
					return err
				}
				_, err := c.Courses.Create(ctx, nc)
				return err
			},
			update: func(ctx context.Context, id string, v map[string]string) error {
				uc := school.UpdateCourse{Name: ptr(v["name"]), Date: ptr(v["date"]), TeacherID: ptr(v["docente_id"]), RoomID: ptr(v["aula_id"])}
				if err := cli.check(&uc); err != nil {
					return err
				}
				_, err := c.Courses.Update(ctx, id, uc)
				return err
			},
		},

		studentsPage: {
			fields: []field{
				{name: "firstname", label: "Nome"},
				{name: "lastname", label: "Cognome"},
				{name: "matricola", label: "Matricola"},
			},
			prepare: noop,
			load: func(ctx context.Context, id string) (map[string]string, error) {
				rec, err := c.Students.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return map[string]string{"firstname": rec.FirstName, "lastname": rec.LastName, "matricola": rec.Matricola}, nil
			},
			create: func(ctx context.Context, v map[string]string) error {
				ns := school.NewStudent{FirstName: v["firstname"], LastName: v["lastname"], Matricola: v["matricola"]}
				if err := cli.check(&ns); err != nil {
					return err
				}
				_, err := c.Students.Create(ctx, ns)
				return err
			},
			update: func(ctx context.Context, id string, v map[string]string) error {
				us := school.UpdateStudent{FirstName: ptr(v["firstname"]), LastName: ptr(v["lastname"]), Matricola: ptr(v["matricola"])}
				if err := cli.check(&us); err != nil {
					return err
				}
				_, err := c.Students.Update(ctx, id, us)
				return err
			},
		},

		teachersPage: {
			fields: []field{
				{name: "firstname", label: "Nome"},
				{name: "lastname", label: "Cognome"},
			},
			prepare: noop,
			load: func(ctx context.Context, id string) (map[string]string, error) {
				rec, err := c.Teachers.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return map[string]string{"firstname": rec.FirstName, "lastname": rec.LastName}, nil
			},
			create: func(ctx context.Context, v map[string]string) error {
				nt := school.NewTeacher{FirstName: v["firstname"], LastName: v["lastname"]}
				if err := cli.check(&nt); err != nil {
					return err
				}
				_, err := c.Teachers.Create(ctx, nt)
				return err
			},
			update: func(ctx context.Context, id string, v map[string]string) error {
				ut := school.UpdateTeacher{FirstName: ptr(v["firstname"]), LastName: ptr(v["lastname"])}
				if err := cli.check(&ut); err != nil {
					return err
				}
				_, err := c.Teachers.Update(ctx, id, ut)
				return err
			},
		},

		roomsPage: {
			fields: []field{
				{name: "name", label: "Nome"},
				{name: "numero_posti", label: "Numero posti"},
			},
			prepare: noop,
			load: func(ctx context.Context, id string) (map[string]string, error) {
				rec, err := c.Rooms.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return map[string]string{"name": rec.Name, "numero_posti": strconv.Itoa(rec.Seats)}, nil
			},
			create: func(ctx context.Context, v map[string]string) error {
				n, err := seats(v["numero_posti"])
				if err != nil {
					return err
				}
				nr := school.NewRoom{Name: v["name"], Seats: n}
				if err = cli.check(&nr); err != nil {
					return err
				}
				_, err = c.Rooms.Create(ctx, nr)
				return err
			},
			update: func(ctx context.Context, id string, v map[string]string) error {
				n, err := seats(v["numero_posti"])
				if err != nil {
					return err
				}
				ur := school.UpdateRoom{Name: ptr(v["name"]), Seats: &n}
				if err = cli.check(&ur); err != nil {
					return err
				}
				_, err = c.Rooms.Update(ctx, id, ur)
				return err
			},
		},

		enrollmentsPage: {
			fields: []field{
				{name: "corso_id", label: "Corso", choices: func() []choice { return courseChoices(c.Courses.List()) }},
				{name: "studente_id", label: "Studente", choices: func() []choice { return studentChoices(c.Students.List()) }},
			},
			prepare: func(ctx context.Context) {
				cli.loadFailed(wait(ctx, c.Courses.FetchAll(ctx), c.Students.FetchAll(ctx)))
			},
			create: func(ctx context.Context, v map[string]string) error {
				ne := school.NewEnrollment{CourseID: v["corso_id"], StudentID: v["studente_id"]}
				if err := cli.check(&ne); err != nil {
					return err
				}
				_, err := c.Enrollments.Create(ctx, ne)
				return err
			},
		},
	}
}
