// Package guard decides whether a view may be left while it holds unsaved edits.
package guard

// UnsavedChangesPrompt is shown before discarding unsaved edits.
const UnsavedChangesPrompt = "Hai delle modifiche non salvate. Sei sicuro di voler uscire?"

// View is the view being left: either NoForm or FormView.
type View interface {
	view()
}

// NoForm is any view without editable state.
type NoForm struct{}

// FormView is a view exposing a form.
type FormView struct {
	Dirty     bool // the user changed at least one field
	Submitted bool // the form was successfully submitted (or abandoned after a load failure)
}

func (NoForm) view()   {}
func (FormView) view() {}

// HasUnsavedChanges is implemented by components that own a form.
type HasUnsavedChanges interface {
	FormState() FormView
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// CanDeactivate reports whether navigation away from v may proceed.
// The user is only asked when the form is dirty and was not submitted.
func CanDeactivate(v View, c Confirmer) bool {
	fv, ok := v.(FormView)
	if !ok || fv.Submitted || !fv.Dirty {
		return true
	}
	return c.Confirm(UnsavedChangesPrompt)
}

// ViewOf returns the guard input for a component, NoForm when it has no form.
func ViewOf(component interface{}) View {
	if f, ok := component.(HasUnsavedChanges); ok {
		return f.FormState()
	}
	return NoForm{}
}
