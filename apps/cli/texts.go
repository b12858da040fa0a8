package main

// Navigation paths. They differ from the REST resources only for enrollments.
const (
	coursesPage     = "corsi"
	studentsPage    = "studenti"
	teachersPage    = "docenti"
	roomsPage       = "aule"
	enrollmentsPage = "iscrizioni"

	defaultPage = coursesPage
)

var pages = []string{coursesPage, studentsPage, teachersPage, roomsPage, enrollmentsPage}

// texts holds what the user reads about one kind of record.
type texts struct {
	title         string
	deleteConfirm string

	created, updated, deleted string

	errLoad, errCreate, errUpdate, errDelete string
}

var pageTexts = map[string]texts{
	coursesPage: {
		title:         "Corsi",
		deleteConfirm: "Sei sicuro di voler eliminare questo corso?",
		created:       "Corso creato con successo!",
		updated:       "Corso aggiornato con successo!",
		deleted:       "Corso eliminato con successo!",
		errLoad:       "Errore durante il caricamento del corso.",
		errCreate:     "Errore durante la creazione del corso.",
		errUpdate:     "Errore durante l'aggiornamento del corso.",
		errDelete:     "Errore durante l'eliminazione del corso.",
	},
	studentsPage: {
		title:         "Studenti",
		deleteConfirm: "Sei sicuro di voler eliminare questo studente?",
		created:       "Studente creato con successo!",
		updated:       "Studente aggiornato con successo!",
		deleted:       "Studente eliminato con successo!",
		errLoad:       "Errore durante il caricamento dello studente.",
		errCreate:     "Errore durante la creazione dello studente. Riprova.",
		errUpdate:     "Errore durante l'aggiornamento dello studente. Riprova.",
		errDelete:     "Errore durante l'eliminazione dello studente.",
	},
	teachersPage: {
		title:         "Docenti",
		deleteConfirm: "Sei sicuro di voler eliminare questo docente?",
		created:       "Docente creato con successo!",
		updated:       "Docente aggiornato con successo!",
		deleted:       "Docente eliminato con successo!",
		errLoad:       "Errore durante il caricamento del docente. Torna alla lista.",
		errCreate:     "Errore durante la creazione del docente. Riprova.",
		errUpdate:     "Errore durante l'aggiornamento del docente. Riprova.",
		errDelete:     "Errore durante l'eliminazione del docente.",
	},
	roomsPage: {
		title:         "Aule",
		deleteConfirm: "Sei sicuro di voler eliminare quest'aula?",
		created:       "Aula creata con successo!",
		updated:       "Aula aggiornata con successo!",
		deleted:       "Aula eliminata con successo!",
		errLoad:       "Errore durante il caricamento dell'aula. Torna alla lista.",
		errCreate:     "Errore durante la creazione dell'aula. Riprova.",
		errUpdate:     "Errore durante l'aggiornamento dell'aula. Riprova.",
		errDelete:     "Errore durante l'eliminazione dell'aula.",
	},
	enrollmentsPage: {
		title:         "Iscrizioni",
		deleteConfirm: "Sei sicuro di voler eliminare questa iscrizione?",
		created:       "Iscrizione creata con successo!",
		deleted:       "Iscrizione eliminata con successo!",
		errCreate:     "Errore durante la creazione dell'iscrizione. Riprova.",
		errDelete:     "Errore durante l'eliminazione dell'iscrizione.",
	},
}

const (
	loadingText     = "Caricamento in corso..."
	errLoadListText = "Errore durante il caricamento dei dati. Riprova più tardi."
	cancelledText   = "Operazione annullata."
)
