package school

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// listTransport serves canned list responses per path.
type listTransport struct {
	mu    sync.Mutex
	lists map[string]interface{}
	fail  map[string]error
	gates map[string]chan struct{} // list requests of a path wait on its gate, if any
	hits  map[string]int
}

func (lt *listTransport) hitCount(path string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.hits[path]
}

func (lt *listTransport) Do(ctx context.Context, method, path string, in, out interface{}) error {
	lt.mu.Lock()
	if lt.hits == nil {
		lt.hits = make(map[string]int)
	}
	lt.hits[path]++
	gate := lt.gates[path]
	lt.mu.Unlock()
	if gate != nil {
		<-gate
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	if err := lt.fail[path]; err != nil {
		return err
	}
	data, err := json.Marshal(lt.lists[path])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func newTestCaches(fail map[string]error) *Caches {
	tr := &listTransport{
		lists: map[string]interface{}{
			RoomsPath:    testRooms,
			CoursesPath:  testCourses,
			TeachersPath: testTeachers,
		},
		fail: fail,
	}
	return NewCaches(tr, nopLogger{})
}

func TestCaches_ResolveRoomList(t *testing.T) {
	caches := newTestCaches(nil)

	data, err := caches.ResolveRoomList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RoomListData{Rooms: testRooms, Courses: testCourses}, data)
	assert.Equal(t, testRooms, caches.Rooms.List())
	assert.Equal(t, testCourses, caches.Courses.List())
	assert.False(t, caches.Rooms.IsLoading())
}

func TestCaches_ResolveRoomListReadsTheCaches(t *testing.T) {
	gate := make(chan struct{})
	tr := &listTransport{
		lists: map[string]interface{}{RoomsPath: testRooms, CoursesPath: testCourses},
		gates: map[string]chan struct{}{RoomsPath: gate},
	}
	caches := NewCaches(tr, nopLogger{})

	type result struct {
		data RoomListData
		err  error
	}
	resolved := make(chan result, 1)
	go func() {
		data, err := caches.ResolveRoomList(context.Background())
		resolved <- result{data, err}
	}()

	// a FetchAll issued after the resolver wins: the resolver's room response is stale.
	fresh := []Room{{ID: "fresh", Name: "Aula nuova", Seats: 5}}
	require.Eventually(t, func() bool { return tr.hitCount(RoomsPath) == 1 }, 2*time.Second, time.Millisecond)
	tr.mu.Lock()
	tr.lists[RoomsPath] = fresh
	delete(tr.gates, RoomsPath)
	tr.mu.Unlock()
	<-caches.Rooms.FetchAll(context.Background())

	tr.mu.Lock()
	tr.lists[RoomsPath] = testRooms
	tr.mu.Unlock()
	close(gate)

	res := <-resolved
	require.NoError(t, res.err)
	assert.Equal(t, fresh, caches.Rooms.List())
	assert.Equal(t, caches.Rooms.List(), res.data.Rooms)
	assert.Equal(t, caches.Courses.List(), res.data.Courses)
}

func TestCaches_ResolveRoomListFails(t *testing.T) {
	errDown := errors.New("server down")
	caches := newTestCaches(map[string]error{CoursesPath: errDown})

	data, err := caches.ResolveRoomList(context.Background())
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, RoomListData{}, data)
}

func TestCaches_LoadTeacherList(t *testing.T) {
	caches := newTestCaches(nil)
	require.NoError(t, caches.LoadTeacherList(context.Background()))
	assert.Equal(t, testTeachers, caches.Teachers.List())
	assert.Equal(t, testCourses, caches.Courses.List())

	errDown := errors.New("server down")
	caches = newTestCaches(map[string]error{TeachersPath: errDown})
	err := caches.LoadTeacherList(context.Background())
	assert.ErrorIs(t, err, errDown)
	assert.Empty(t, caches.Teachers.List())
}

func TestCaches_CourseListLoading(t *testing.T) {
	caches := newTestCaches(nil)
	assert.False(t, caches.CourseListLoading())

	<-caches.Rooms.FetchAll(context.Background())
	assert.False(t, caches.CourseListLoading())
}
