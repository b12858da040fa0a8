package school

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/resource"
	"github.com/trezcool/scuola/core/task"
)

type (
	RoomCache       = resource.Cache[Room, NewRoom, UpdateRoom]
	CourseCache     = resource.Cache[Course, NewCourse, UpdateCourse]
	TeacherCache    = resource.Cache[Teacher, NewTeacher, UpdateTeacher]
	StudentCache    = resource.Cache[Student, NewStudent, UpdateStudent]
	EnrollmentCache = resource.Cache[Enrollment, NewEnrollment, UpdateEnrollment]
)

// Caches is the application context: one cache per resource, built once and shared by every view.
type Caches struct {
	Rooms       *RoomCache
	Courses     *CourseCache
	Teachers    *TeacherCache
	Students    *StudentCache
	Enrollments *EnrollmentCache
}

func NewCaches(tr resource.Transport, logger core.Logger) *Caches {
	return &Caches{
		Rooms:       resource.New[Room, NewRoom, UpdateRoom](RoomsPath, tr, logger),
		Courses:     resource.New[Course, NewCourse, UpdateCourse](CoursesPath, tr, logger),
		Teachers:    resource.New[Teacher, NewTeacher, UpdateTeacher](TeachersPath, tr, logger),
		Students:    resource.New[Student, NewStudent, UpdateStudent](StudentsPath, tr, logger),
		Enrollments: resource.New[Enrollment, NewEnrollment, UpdateEnrollment](EnrollmentsPath, tr, logger),
	}
}

// RoomListData is what the room list needs before it can render.
type RoomListData struct {
	Rooms   []Room
	Courses []Course
}

// ResolveRoomList loads rooms and courses together. Any failure aborts the whole resolution.
// The data is read back from the caches, so a response dropped as stale never reaches the view.
func (c *Caches) ResolveRoomList(ctx context.Context) (RoomListData, error) {
	_, err := task.All(ctx, map[string]task.Task[any]{
		RoomsPath:   task.Erase(c.Rooms.FetchAllTask()),
		CoursesPath: task.Erase(c.Courses.FetchAllTask()),
	})
	if err != nil {
		return RoomListData{}, errors.Wrap(err, "resolving room list")
	}
	return RoomListData{Rooms: c.Rooms.List(), Courses: c.Courses.List()}, nil
}

// LoadTeacherList refreshes teachers and courses together and reports whether both succeeded.
// Whatever was already cached stays available on failure.
func (c *Caches) LoadTeacherList(ctx context.Context) error {
	_, err := task.All(ctx, map[string]task.Task[any]{
		TeachersPath: task.Erase(c.Teachers.FetchAllTask()),
		CoursesPath:  task.Erase(c.Courses.FetchAllTask()),
	})
	return errors.Wrap(err, "loading teacher list")
}

// CourseListLoading is set while any cache the course list reads from is loading.
func (c *Caches) CourseListLoading() bool {
	return c.Courses.IsLoading() || c.Teachers.IsLoading() || c.Rooms.IsLoading()
}
