package school

import (
	"github.com/go-playground/validator/v10"
)

// REST resources, one per entity kind.
const (
	RoomsPath       = "aule"
	CoursesPath     = "corsi"
	TeachersPath    = "docenti"
	StudentsPath    = "studenti"
	EnrollmentsPath = "corso_studente"
)

// Paths lists every resource in navigation order.
var Paths = []string{CoursesPath, StudentsPath, TeachersPath, RoomsPath, EnrollmentsPath}

type Room struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seats int    `json:"numero_posti"`
}

type Course struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	TeacherID string `json:"docente_id"`
	RoomID    string `json:"aula_id"`
}

type Teacher struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type Student struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Matricola string `json:"matricola"`
}

// Enrollment joins a Course and a Student.
type Enrollment struct {
	ID        string `json:"id"`
	CourseID  string `json:"corso_id"`
	StudentID string `json:"studente_id"`
}

// NewRoom contains information needed to create a new Room.
type NewRoom struct {
	Name  string `json:"name" validate:"required"`
	Seats int    `json:"numero_posti" validate:"required,min=1"`
}

// UpdateRoom defines what information may be provided to modify an existing Room.
type UpdateRoom struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Seats *int    `json:"numero_posti,omitempty" validate:"omitnil,min=1"`
}

type NewCourse struct {
	Name      string `json:"name" validate:"required"`
	Date      string `json:"date" validate:"required,isodate"`
	TeacherID string `json:"docente_id" validate:"required"`
	RoomID    string `json:"aula_id" validate:"required"`
}

type UpdateCourse struct {
	Name      *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Date      *string `json:"date,omitempty" validate:"omitnil,isodate"`
	TeacherID *string `json:"docente_id,omitempty" validate:"omitnil,min=1"`
	RoomID    *string `json:"aula_id,omitempty" validate:"omitnil,min=1"`
}

type NewTeacher struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
}

type UpdateTeacher struct {
	FirstName *string `json:"firstname,omitempty" validate:"omitnil,min=1"`
	LastName  *string `json:"lastname,omitempty" validate:"omitnil,min=1"`
}

type NewStudent struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
	Matricola string `json:"matricola" validate:"required,alnumdash"`
}

type UpdateStudent struct {
	FirstName *string `json:"firstname,omitempty" validate:"omitnil,min=1"`
	LastName  *string `json:"lastname,omitempty" validate:"omitnil,min=1"`
	Matricola *string `json:"matricola,omitempty" validate:"omitnil,alnumdash"`
}

type NewEnrollment struct {
	CourseID  string `json:"corso_id" validate:"required"`
	StudentID string `json:"studente_id" validate:"required"`
}

// UpdateEnrollment exists for symmetry only: enrollments are never edited.
type UpdateEnrollment struct {
	CourseID  *string `json:"corso_id,omitempty" validate:"omitnil,min=1"`
	StudentID *string `json:"studente_id,omitempty" validate:"omitnil,min=1"`
}

// Clean trims user input before validation.

func (nr *NewRoom) Clean() { nr.Name = cleanString(nr.Name) }

func (nc *NewCourse) Clean() {
	nc.Name = cleanString(nc.Name)
	nc.Date = cleanString(nc.Date)
	nc.TeacherID = cleanString(nc.TeacherID)
	nc.RoomID = cleanString(nc.RoomID)
}

func (nt *NewTeacher) Clean() {
	nt.FirstName = cleanString(nt.FirstName)
	nt.LastName = cleanString(nt.LastName)
}

func (ns *NewStudent) Clean() {
	ns.FirstName = cleanString(ns.FirstName)
	ns.LastName = cleanString(ns.LastName)
	ns.Matricola = cleanString(ns.Matricola)
}

func (ne *NewEnrollment) Clean() {
	ne.CourseID = cleanString(ne.CourseID)
	ne.StudentID = cleanString(ne.StudentID)
}

func (ur *UpdateRoom) Clean() { cleanPtr(ur.Name) }

func (uc *UpdateCourse) Clean() {
	cleanPtr(uc.Name)
	cleanPtr(uc.Date)
	cleanPtr(uc.TeacherID)
	cleanPtr(uc.RoomID)
}

func (ut *UpdateTeacher) Clean() {
	cleanPtr(ut.FirstName)
	cleanPtr(ut.LastName)
}

func (us *UpdateStudent) Clean() {
	cleanPtr(us.FirstName)
	cleanPtr(us.LastName)
	cleanPtr(us.Matricola)
}

func (ue *UpdateEnrollment) Clean() {
	cleanPtr(ue.CourseID)
	cleanPtr(ue.StudentID)
}

// Payload is implemented by every create/update payload.
type Payload interface {
	Clean()
}

// Validate cleans and validates any payload.
func Validate(validate *validator.Validate, p Payload) error {
	p.Clean()
	return validate.Struct(p)
}
