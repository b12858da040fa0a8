package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/scuola/core/school"
)

func Test_recordApi_crud(t *testing.T) {
	app := setup(t)

	var labA, labB school.Room
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/aule", school.NewRoom{Name: "Lab A", Seats: 30}, &labA))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/aule", school.NewRoom{Name: "Lab B", Seats: 20}, &labB))
	assert.NotEmpty(t, labA.ID)
	assert.NotEqual(t, labA.ID, labB.ID)

	renamed := labB
	renamed.Name = "Aula B"

	tests := []httpTest{
		{name: "list keeps insertion order", method: http.MethodGet, path: "/aule", wantCode: http.StatusOK, wantData: marchallList(t, labA, labB)},
		{name: "trailing slash", method: http.MethodGet, path: "/aule/", wantCode: http.StatusOK, wantData: marchallList(t, labA, labB)},
		{name: "empty list", method: http.MethodGet, path: "/docenti", wantCode: http.StatusOK, wantData: marchallList(t)},
		{name: "retrieve", method: http.MethodGet, path: "/aule/" + labA.ID, wantCode: http.StatusOK, wantData: marchallObj(t, labA)},
		{name: "retrieve unknown", method: http.MethodGet, path: "/aule/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{
			name: "patch", method: http.MethodPatch, path: "/aule/" + labB.ID, body: []byte(`{"name":"Aula B"}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, renamed),
		},
		{name: "list after patch", method: http.MethodGet, path: "/aule", wantCode: http.StatusOK, wantData: marchallList(t, labA, renamed)},
		{
			name: "patch unknown", method: http.MethodPatch, path: "/aule/nope", body: []byte(`{"name":"x"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{name: "delete", method: http.MethodDelete, path: "/aule/" + labA.ID, wantCode: http.StatusOK, wantData: []byte(`{}`)},
		{name: "delete again", method: http.MethodDelete, path: "/aule/" + labA.ID, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "list after delete", method: http.MethodGet, path: "/aule", wantCode: http.StatusOK, wantData: marchallList(t, renamed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_recordApi_validation(t *testing.T) {
	app := setup(t)

	var s1 school.Student
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/studenti",
		school.NewStudent{FirstName: "Giulia", LastName: "Rossi", Matricola: "M001"}, &s1))

	tests := []httpTest{
		{
			name: "required fields", method: http.MethodPost, path: "/aule", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required", "numero_posti": "this field is required"}),
		},
		{
			name: "seats >= 1", method: http.MethodPost, path: "/aule", body: []byte(`{"name":"Lab","numero_posti":-3}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"numero_posti": "numero_posti must be at least 1"}),
		},
		{
			name: "course date", method: http.MethodPost, path: "/corsi",
			body:     []byte(`{"name":"Algebra","date":"tomorrow","docente_id":"t1","aula_id":"r1"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"date": "date must be a date formatted as YYYY-MM-DD"}),
		},
		{
			name: "duplicate matricola", method: http.MethodPost, path: "/studenti",
			body:     []byte(`{"firstname":"Anna","lastname":"Verdi","matricola":"M001"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"matricola": school.ErrMatricolaExists.Error()}),
		},
		{
			name: "invalid JSON", method: http.MethodPost, path: "/docenti", body: []byte(`{"firstname":`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid JSON body"}),
		},
		{
			name: "blank patch", method: http.MethodPatch, path: "/studenti/" + s1.ID, body: []byte(`{"lastname":"  "}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"lastname": "lastname must be at least 1"}),
		},
		{
			name: "unknown collection", method: http.MethodGet, path: "/classi",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_recordApi_enrollments(t *testing.T) {
	app := setup(t)

	var e school.Enrollment
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/corso_studente",
		school.NewEnrollment{CourseID: "c1", StudentID: "s1"}, &e))
	assert.Equal(t, "c1", e.CourseID)
	assert.Equal(t, "s1", e.StudentID)

	var list []school.Enrollment
	require.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/corso_studente", nil, &list))
	assert.Equal(t, []school.Enrollment{e}, list)
}

func Test_recordApi_query(t *testing.T) {
	app := setup(t)

	var small, big, mid school.Room
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/aule", school.NewRoom{Name: "Lab B", Seats: 10}, &small))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/aule", school.NewRoom{Name: "Aula Magna", Seats: 200}, &big))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/aule", school.NewRoom{Name: "Lab A", Seats: 10}, &mid))

	tests := []httpTest{
		{name: "sort by name", method: http.MethodGet, path: "/aule?_sort=name", wantCode: http.StatusOK, wantData: marchallList(t, big, mid, small)},
		{name: "sort descending", method: http.MethodGet, path: "/aule?_sort=-numero_posti", wantCode: http.StatusOK, wantData: marchallList(t, big, small, mid)},
		{name: "sort on two fields", method: http.MethodGet, path: "/aule?_sort=numero_posti,name", wantCode: http.StatusOK, wantData: marchallList(t, mid, small, big)},
		{name: "filter", method: http.MethodGet, path: "/aule?numero_posti=10", wantCode: http.StatusOK, wantData: marchallList(t, small, mid)},
		{name: "filter and sort", method: http.MethodGet, path: "/aule?numero_posti=10&_sort=name", wantCode: http.StatusOK, wantData: marchallList(t, mid, small)},
		{name: "no match", method: http.MethodGet, path: "/aule?name=Palestra", wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
