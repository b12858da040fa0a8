package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/guard"
	"github.com/trezcool/scuola/core/notify"
	"github.com/trezcool/scuola/core/school"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

var toastIcons = map[notify.Severity]string{
	notify.Success: "✓",
	notify.Error:   "✗",
	notify.Info:    "ℹ",
	notify.Warning: "⚠",
}

type commandLine struct {
	log        core.Logger
	caches     *school.Caches
	toasts     *notify.Channel
	validate   *validator.Validate
	translator ut.Translator
	prompt     *prompter
	out        io.Writer

	// interactive forms prompt every field; otherwise they are submitted straight from the flags.
	interactive bool
}

func newCommandLine(
	conf *core.Config,
	logger core.Logger,
	caches *school.Caches,
	toasts *notify.Channel,
	validate *validator.Validate,
	translator ut.Translator,
	in io.Reader,
	out io.Writer,
) *commandLine {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}

	cli := &commandLine{
		log:         logger,
		caches:      caches,
		toasts:      toasts,
		validate:    validate,
		translator:  translator,
		prompt:      newPrompter(in, out),
		out:         out,
		interactive: conf.Client.Interactive && isTerminalFunc(fd),
	}
	toasts.OnPost(func(n notify.Notification) {
		fmt.Fprintf(out, "%s %s\n", toastIcons[n.Severity], n.Message)
	})
	return cli
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  scuola [PAGE]                          - show a list (default: corsi)")
	fmt.Fprintln(cli.out, "  scuola PAGE new [-FIELD VALUE ...]     - create a record")
	fmt.Fprintln(cli.out, "  scuola PAGE ID [-FIELD VALUE ...]      - edit a record (not for iscrizioni)")
	fmt.Fprintln(cli.out, "  scuola PAGE delete ID [-y]             - delete a record")
	fmt.Fprintln(cli.out, "  scuola PAGE export -o FILE.xlsx        - export a list with its statistics")
	fmt.Fprintln(cli.out, "  scuola studenti import -i FILE.xlsx    - create students from a spreadsheet")
	fmt.Fprintf(cli.out, "PAGE is one of: %s\n", strings.Join(pages, ", "))
}

func isPage(s string) bool {
	for _, p := range pages {
		if p == s {
			return true
		}
	}
	return false
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	return err
}

// run dispatches args (program name first) to the view they navigate to.
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return cli.showList(ctx, defaultPage)
	}

	page := args[1]
	if !isPage(page) {
		cli.printUsage()
		return errHelp
	}
	if len(args) == 2 {
		return cli.showList(ctx, page)
	}

	switch cmd, rest := args[2], args[3:]; cmd {
	case "new":
		return cli.form(ctx, page, "", rest)

	case "delete":
		if len(rest) == 0 {
			cli.printUsage()
			return errHelp
		}
		deleteCmd := cli.newFlagSet("delete")
		yes := deleteCmd.Bool("y", false, "Do not ask for confirmation.")
		if err := deleteCmd.Parse(rest[1:]); err != nil {
			return flagError(err)
		}
		return cli.delete(ctx, page, rest[0], *yes)

	case "export":
		exportCmd := cli.newFlagSet("export")
		file := exportCmd.String("o", "", "The .xlsx file to write.")
		if err := exportCmd.Parse(rest); err != nil {
			return flagError(err)
		}
		if *file == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, page, *file)

	case "import":
		if page != studentsPage {
			cli.printUsage()
			return errHelp
		}
		importCmd := cli.newFlagSet("import")
		file := importCmd.String("i", "", "The .xlsx file to read (firstname, lastname, matricola).")
		if err := importCmd.Parse(rest); err != nil {
			return flagError(err)
		}
		if *file == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(ctx, *file)

	default:
		if page == enrollmentsPage || strings.HasPrefix(cmd, "-") {
			cli.printUsage()
			return errHelp
		}
		return cli.form(ctx, page, cmd, rest)
	}
}

// form runs the create (id == "") or edit form of page.
func (cli *commandLine) form(ctx context.Context, page, id string, args []string) error {
	def := cli.formDefs()[page]
	tx := pageTexts[page]

	formCmd := cli.newFlagSet(page)
	for _, f := range def.fields {
		formCmd.String(f.name, "", f.label)
	}
	if err := formCmd.Parse(args); err != nil {
		return flagError(err)
	}

	def.prepare(ctx)
	form := guard.NewForm()

	submit, success, failure := def.create, tx.created, tx.errCreate
	if id != "" {
		values, err := def.load(ctx, id)
		if err != nil {
			cli.toasts.Error(tx.errLoad)
			cli.log.Error(err.Error(), err)
			form.MarkSubmitted()
			return cli.showList(ctx, page)
		}
		form.Patch(values)
		form.MarkPristine()

		update := def.update
		submit = func(ctx context.Context, v map[string]string) error { return update(ctx, id, v) }
		success, failure = tx.updated, tx.errUpdate
	}
	formCmd.Visit(func(f *flag.Flag) { form.Set(f.Name, f.Value.String()) })

	for {
		if cli.interactive {
			if err := cli.fill(def, form); err != nil {
				return err
			}
			save, err := cli.askSave()
			if err != nil {
				return err
			}
			if !save {
				if guard.CanDeactivate(guard.ViewOf(form), cli.prompt) {
					fmt.Fprintln(cli.out, cancelledText)
					return cli.showList(ctx, page)
				}
				continue
			}
		}

		err := submit(ctx, form.Values())
		if err == nil {
			form.MarkSubmitted()
			cli.toasts.Success(success)
			return cli.showList(ctx, page)
		}
		cli.reportSubmitError(err, failure)
		if !cli.interactive {
			return err
		}
	}
}

// fill prompts every field of def. An empty answer keeps the current value.
func (cli *commandLine) fill(def formDef, form *guard.Form) error {
	for _, f := range def.fields {
		var choices []choice
		if f.choices != nil {
			choices = f.choices()
			for _, ch := range choices {
				fmt.Fprintf(cli.out, "  [%s] %s\n", ch.id, ch.label)
			}
		}

		question := f.label
		if current := form.Value(f.name); current != "" {
			question += " [" + current + "]"
		}
		question += ": "

		for {
			answer, err := cli.prompt.Ask(question)
			if err != nil {
				return pkgerrors.Wrapf(err, "reading %s", f.name)
			}
			if answer != "" && choices != nil && !validChoice(choices, answer) {
				fmt.Fprintln(cli.out, "Scelta non valida.")
				continue
			}
			if answer != "" {
				form.Set(f.name, answer)
			}
			break
		}
	}
	return nil
}

func validChoice(choices []choice, id string) bool {
	for _, ch := range choices {
		if ch.id == id {
			return true
		}
	}
	return false
}

// askSave asks whether to save the form. Anything but an explicit cancel saves.
func (cli *commandLine) askSave() (bool, error) {
	answer, err := cli.prompt.Ask("[s]alva / [a]nnulla: ")
	if err != nil {
		return false, pkgerrors.Wrap(err, "reading action")
	}
	switch strings.ToLower(answer) {
	case "a", "annulla":
		return false, nil
	}
	return true, nil
}

// reportSubmitError shows why a submission failed.
// Field errors found before sending are printed without a toast.
func (cli *commandLine) reportSubmitError(err error, failure string) {
	fields := core.FieldErrors(err, cli.translator)
	if fields == nil || core.StatusCode(err) != 0 {
		cli.toasts.Error(failure)
		cli.log.Error(err.Error(), err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cli.out, "  %s: %s\n", name, fields[name])
	}
}

func (cli *commandLine) delete(ctx context.Context, page, id string, yes bool) error {
	tx := pageTexts[page]

	var confirmer guard.Confirmer = cli.prompt
	if yes {
		confirmer = guard.ConfirmFunc(func(string) bool { return true })
	}
	if !confirmer.Confirm(tx.deleteConfirm) {
		fmt.Fprintln(cli.out, cancelledText)
		return nil
	}

	c := cli.caches
	var err error
	switch page {
	case coursesPage:
		err = c.Courses.Delete(ctx, id)
	case studentsPage:
		err = c.Students.Delete(ctx, id)
	case teachersPage:
		err = c.Teachers.Delete(ctx, id)
	case roomsPage:
		err = c.Rooms.Delete(ctx, id)
	case enrollmentsPage:
		err = c.Enrollments.Delete(ctx, id)
	}
	if err != nil {
		cli.toasts.Error(tx.errDelete)
		cli.log.Error(err.Error(), err)
		return err
	}
	cli.toasts.Success(tx.deleted)
	return cli.showList(ctx, page)
}

func (cli *commandLine) export(ctx context.Context, page, file string) error {
	t, err := cli.list(ctx, page)
	if err != nil {
		return err
	}
	if err = exportTable(t, file); err != nil {
		return err
	}
	cli.toasts.Info("Esportazione completata: " + file)
	return nil
}

func (cli *commandLine) importStudents(ctx context.Context, file string) error {
	rows, skipped, err := readStudentRows(file)
	if err != nil {
		return err
	}
	for _, line := range skipped {
		cli.toasts.Warning(fmt.Sprintf("Riga %d incompleta, ignorata.", line))
	}

	var created int
	for _, r := range rows {
		ns := school.NewStudent{FirstName: r[0], LastName: r[1], Matricola: r[2]}
		if err = cli.check(&ns); err == nil {
			_, err = cli.caches.Students.Create(ctx, ns)
		}
		if err != nil {
			cli.reportSubmitError(err, fmt.Sprintf("%s: %s", r[2], pageTexts[studentsPage].errCreate))
			continue
		}
		created++
	}
	cli.toasts.Info(fmt.Sprintf("Importati %d studenti su %d.", created, len(rows)))
	return cli.showList(ctx, studentsPage)
}
