package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	echoapi "github.com/trezcool/scuola/apps/api/echo"
	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/guard"
	"github.com/trezcool/scuola/core/notify"
	"github.com/trezcool/scuola/core/records"
	"github.com/trezcool/scuola/core/school"
	restsvc "github.com/trezcool/scuola/services/rest"
	inmemdb "github.com/trezcool/scuola/storage/database/inmem"
	testutil "github.com/trezcool/scuola/tests"
)

// testEnv is a front-end talking to a real API backed by a fresh in-memory store.
type testEnv struct {
	srv        *httptest.Server
	conf       *core.Config
	caches     *school.Caches
	validate   *validator.Validate
	translator ut.Translator
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	validate, translator := testutil.NewValidator()

	apiConf := &core.Config{AppName: "Scuola", TestMode: true, Server: core.ServerConfig{DisableReqLogs: true}}
	svc := records.NewService(inmemdb.NewRecordRepository(inmemdb.Open()), validate)
	srv := httptest.NewServer(echoapi.NewServer(apiConf, testutil.NopLogger{}, svc, translator))
	t.Cleanup(srv.Close)

	conf := &core.Config{Client: core.ClientConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, Interactive: true}}
	return &testEnv{
		srv:        srv,
		conf:       conf,
		caches:     school.NewCaches(restsvc.NewClient(conf, testutil.NopLogger{}), testutil.NopLogger{}),
		validate:   validate,
		translator: translator,
	}
}

// cli returns a command line reading its answers from input.
func (e *testEnv) cli(input string, interactive bool) (*commandLine, *bytes.Buffer) {
	isTerminalFunc = func(int) bool { return interactive }
	out := new(bytes.Buffer)
	toasts := notify.NewChannel(time.Minute)
	return newCommandLine(e.conf, testutil.NopLogger{}, e.caches, toasts, e.validate, e.translator, strings.NewReader(input), out), out
}

func (e *testEnv) seed(t *testing.T) (school.Teacher, school.Room, school.Course, school.Student) {
	t.Helper()
	ctx := context.Background()

	teacher, err := e.caches.Teachers.Create(ctx, school.NewTeacher{FirstName: "Mario", LastName: "Rossi"})
	require.NoError(t, err)
	room, err := e.caches.Rooms.Create(ctx, school.NewRoom{Name: "Lab A", Seats: 30})
	require.NoError(t, err)
	course, err := e.caches.Courses.Create(ctx, school.NewCourse{Name: "Storia", Date: "2024-01-15", TeacherID: teacher.ID, RoomID: room.ID})
	require.NoError(t, err)
	student, err := e.caches.Students.Create(ctx, school.NewStudent{FirstName: "Anna", LastName: "Bianchi", Matricola: "M-001"})
	require.NoError(t, err)
	return teacher, room, course, student
}

type cliTest struct {
	name       string
	args       []string // without program name
	input      string
	wantErr    error
	wantOutput []string
}

func runCLITests(t *testing.T, e *testEnv, interactive bool, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out := e.cli(tt.input, interactive)
			err := cli.run(context.Background(), append([]string{"scuola"}, tt.args...))
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	e := setup(t)
	_, room, _, _ := e.seed(t)

	runCLITests(t, e, false, []cliTest{
		{name: "no page", wantOutput: []string{"Corsi", "Storia"}},
		{name: "unknown page", args: []string{"lol"}, wantErr: errHelp, wantOutput: []string{"Usage:"}},
		{name: "enrollments cannot be edited", args: []string{"iscrizioni", "abc"}, wantErr: errHelp},
		{name: "delete: no id", args: []string{"aule", "delete"}, wantErr: errHelp},
		{name: "export: no file", args: []string{"aule", "export"}, wantErr: errHelp},
		{name: "import: not students", args: []string{"corsi", "import", "-i", "x.xlsx"}, wantErr: errHelp},
		{name: "import: no file", args: []string{"studenti", "import"}, wantErr: errHelp},
		{name: "form help", args: []string{"aule", "new", "-h"}, wantErr: errHelp},
		{name: "edit help", args: []string{"aule", room.ID, "-h"}, wantErr: errHelp},
		{name: "stray flag", args: []string{"aule", "-x"}, wantErr: errHelp},
	})
}

func Test_commandLine_lists(t *testing.T) {
	e := setup(t)
	teacher, _, course, student := e.seed(t)

	ctx := context.Background()
	_, err := e.caches.Enrollments.Create(ctx, school.NewEnrollment{CourseID: course.ID, StudentID: student.ID})
	require.NoError(t, err)
	_, err = e.caches.Enrollments.Create(ctx, school.NewEnrollment{CourseID: course.ID, StudentID: "ghost"})
	require.NoError(t, err)

	runCLITests(t, e, false, []cliTest{
		{
			name:       "courses",
			args:       []string{"corsi"},
			wantOutput: []string{loadingText, "Totale corsi:", "Capacità totale:", "Storia", "2024-01-15", teacher.FullName(), "Lab A"},
		},
		{
			name:       "rooms",
			args:       []string{"aule"},
			wantOutput: []string{"Aula più grande:", "Lab A (30)", "Aule libere:"},
		},
		{
			name:       "teachers",
			args:       []string{"docenti"},
			wantOutput: []string{"Docente più attivo:", "Mario Rossi (1)"},
		},
		{
			name:       "students",
			args:       []string{"studenti"},
			wantOutput: []string{"Prima matricola:", "M-001", "Iniziale più comune:", "B (1)"},
		},
		{
			name:       "enrollments",
			args:       []string{"iscrizioni"},
			wantOutput: []string{"Corso più popolare:", "Storia (2)", "Anna Bianchi (M-001)", core.NotAvailable},
		},
	})
}

func Test_commandLine_listsWithoutBackend(t *testing.T) {
	e := setup(t)
	e.srv.Close()

	t.Run("room list cannot be entered", func(t *testing.T) {
		cli, _ := e.cli("", false)
		err := cli.run(context.Background(), []string{"scuola", "aule"})
		assert.Error(t, err)
		assert.Zero(t, core.StatusCode(err))
	})

	for _, page := range []string{teachersPage, coursesPage, studentsPage, enrollmentsPage} {
		t.Run(page+" renders what it has", func(t *testing.T) {
			cli, out := e.cli("", false)
			err := cli.run(context.Background(), []string{"scuola", page})
			assert.NoError(t, err)
			assert.Equal(t, 1, strings.Count(out.String(), "✗ "+errLoadListText), "one notification per view")
			assert.Contains(t, out.String(), "Nessun elemento.")
		})
	}
}

func Test_commandLine_forms(t *testing.T) {
	e := setup(t)
	_, room, _, _ := e.seed(t)

	runCLITests(t, e, false, []cliTest{
		{
			name:       "create room",
			args:       []string{"aule", "new", "-name", "Lab B", "-numero_posti", "12"},
			wantOutput: []string{"✓ Aula creata con successo!", "Lab B"},
		},
		{
			name:       "edit room",
			args:       []string{"aule", room.ID, "-numero_posti", "40"},
			wantOutput: []string{"✓ Aula aggiornata con successo!", "Lab A (40)"},
		},
		{
			name:       "edit unknown room",
			args:       []string{"aule", "ghost", "-numero_posti", "40"},
			wantOutput: []string{"✗ Errore durante il caricamento dell'aula. Torna alla lista.", "Aule"},
		},
	})

	t.Run("invalid seats", func(t *testing.T) {
		cli, out := e.cli("", false)
		err := cli.run(context.Background(), []string{"scuola", "aule", "new", "-name", "Lab C", "-numero_posti", "abc"})
		require.Error(t, err)
		assert.Equal(t, map[string]string{"numero_posti": "numero_posti must be a number"}, core.FieldErrors(err, e.translator))
		assert.NotContains(t, out.String(), "✗", "local validation does not post a toast")
	})

	t.Run("missing fields", func(t *testing.T) {
		cli, out := e.cli("", false)
		err := cli.run(context.Background(), []string{"scuola", "docenti", "new", "-firstname", "Luca"})
		require.Error(t, err)
		assert.Contains(t, out.String(), "lastname: this field is required")
	})

	t.Run("duplicate matricola", func(t *testing.T) {
		cli, out := e.cli("", false)
		err := cli.run(context.Background(), []string{"scuola", "studenti", "new", "-firstname", "Luca", "-lastname", "Verdi", "-matricola", "M-001"})
		require.Error(t, err)
		assert.Equal(t, 400, core.StatusCode(err))
		assert.Contains(t, out.String(), "✗ "+pageTexts[studentsPage].errCreate)
		assert.Contains(t, out.String(), "matricola: "+school.ErrMatricolaExists.Error())
		assert.Len(t, e.caches.Students.List(), 1)
	})
}

func Test_commandLine_interactiveForms(t *testing.T) {
	e := setup(t)
	teacher, room, _, _ := e.seed(t)

	runCLITests(t, e, true, []cliTest{
		{
			name:       "create teacher",
			args:       []string{"docenti", "new"},
			input:      "Luca\nVerdi\n\n",
			wantOutput: []string{"Nome: ", "Cognome: ", "✓ Docente creato con successo!", "Luca"},
		},
		{
			name:       "cancel pristine form",
			args:       []string{"docenti", "new"},
			input:      "\n\na\n",
			wantOutput: []string{cancelledText},
		},
		{
			name:       "cancel dirty form",
			args:       []string{"docenti", "new"},
			input:      "Paolo\n\na\ns\n",
			wantOutput: []string{guard.UnsavedChangesPrompt, cancelledText},
		},
		{
			name:       "stay on dirty form",
			args:       []string{"docenti", "new"},
			input:      "Giulia\n\na\nn\n\nNeri\n\n",
			wantOutput: []string{guard.UnsavedChangesPrompt, "Nome [Giulia]: ", "✓ Docente creato con successo!"},
		},
		{
			name:       "course choices",
			args:       []string{"corsi", "new"},
			input:      "Latino\n2024-02-01\nghost\n" + teacher.ID + "\n" + room.ID + "\n\n",
			wantOutput: []string{"[" + teacher.ID + "] Mario Rossi", "Scelta non valida.", "✓ Corso creato con successo!", "Latino"},
		},
		{
			name:       "fix invalid seats",
			args:       []string{"aule", room.ID},
			input:      "\nabc\n\n\n25\n\n",
			wantOutput: []string{"Nome [Lab A]: ", "numero_posti: numero_posti must be a number", "✓ Aula aggiornata con successo!", "Lab A (25)"},
		},
	})

	t.Run("pristine cancel does not ask", func(t *testing.T) {
		cli, out := e.cli("\n\na\n", true)
		require.NoError(t, cli.run(context.Background(), []string{"scuola", "docenti", "new"}))
		assert.NotContains(t, out.String(), guard.UnsavedChangesPrompt)
	})

	t.Run("input ends", func(t *testing.T) {
		cli, _ := e.cli("Luca\n", true)
		assert.Error(t, cli.run(context.Background(), []string{"scuola", "docenti", "new"}))
	})

	names := make([]string, 0)
	for _, tc := range e.caches.Teachers.List() {
		names = append(names, tc.FullName())
	}
	assert.ElementsMatch(t, []string{"Mario Rossi", "Luca Verdi", "Giulia Neri"}, names)
}

func Test_commandLine_delete(t *testing.T) {
	e := setup(t)
	teacher, room, _, _ := e.seed(t)

	runCLITests(t, e, false, []cliTest{
		{
			name:       "declined",
			args:       []string{"aule", "delete", room.ID},
			input:      "n\n",
			wantOutput: []string{"Sei sicuro di voler eliminare quest'aula? [s/N] ", cancelledText},
		},
		{
			name:       "confirmed",
			args:       []string{"aule", "delete", room.ID},
			input:      "s\n",
			wantOutput: []string{"✓ Aula eliminata con successo!", "Nessun elemento."},
		},
		{
			name:       "teacher without asking",
			args:       []string{"docenti", "delete", teacher.ID, "-y"},
			wantOutput: []string{"✓ Docente eliminato con successo!", "Nessun elemento."},
		},
	})
	assert.Empty(t, e.caches.Rooms.List())

	t.Run("unknown record", func(t *testing.T) {
		cli, out := e.cli("", false)
		err := cli.run(context.Background(), []string{"scuola", "corsi", "delete", "ghost", "-y"})
		require.Error(t, err)
		assert.True(t, core.IsNotFound(err))
		assert.Contains(t, out.String(), "✗ Errore durante l'eliminazione del corso.")
	})
}

func Test_commandLine_exportImport(t *testing.T) {
	e := setup(t)
	e.seed(t)
	dir := t.TempDir()

	t.Run("export", func(t *testing.T) {
		file := filepath.Join(dir, "aule.xlsx")
		cli, out := e.cli("", false)
		require.NoError(t, cli.run(context.Background(), []string{"scuola", "aule", "export", "-o", file}))
		assert.Contains(t, out.String(), "ℹ Esportazione completata: "+file)

		f, err := excelize.OpenFile(file)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Aule", statsSheet}, f.GetSheetList())
		rows, err := f.GetRows("Aule")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"ID", "Nome", "Posti"}, rows[0])
		assert.Equal(t, []string{"Lab A", "30"}, rows[1][1:])

		stats, err := f.GetRows(statsSheet)
		require.NoError(t, err)
		assert.Equal(t, []string{"Totale aule", "1"}, stats[1])
	})

	t.Run("import", func(t *testing.T) {
		file := filepath.Join(dir, "studenti.xlsx")
		f := excelize.NewFile()
		for i, row := range [][]interface{}{
			{"firstname", "lastname", "matricola"},
			{"Luca", "Verdi", "M-010"},
			{"Sara", "Neri", "M-011"},
			{"Solo"},
			{"Paolo", "Gialli", "M-001"},
		} {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		require.NoError(t, f.SaveAs(file))
		require.NoError(t, f.Close())

		cli, out := e.cli("", false)
		require.NoError(t, cli.run(context.Background(), []string{"scuola", "studenti", "import", "-i", file}))
		assert.Contains(t, out.String(), "⚠ Riga 4 incompleta, ignorata.")
		assert.Contains(t, out.String(), "ℹ Importati 2 studenti su 3.")
		assert.Len(t, e.caches.Students.List(), 3)
	})
}
