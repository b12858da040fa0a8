package guard

import "sync"

// Form tracks the values of an edit form and whether the user touched them.
type Form struct {
	mu        sync.Mutex
	values    map[string]string
	dirty     bool
	submitted bool
}

func NewForm() *Form {
	return &Form{values: make(map[string]string)}
}

// Set records a user edit. The form becomes dirty only when the value actually changes.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if old, ok := f.values[field]; ok && old == value {
		return
	}
	if _, ok := f.values[field]; !ok && value == "" {
		f.values[field] = value
		return
	}
	f.values[field] = value
	f.dirty = true
}

// Patch loads values programmatically without dirtying the form.
func (f *Form) Patch(values map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range values {
		f.values[k] = v
	}
}

func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every field.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals := make(map[string]string, len(f.values))
	for k, v := range f.values {
		vals[k] = v
	}
	return vals
}

func (f *Form) MarkPristine() {
	f.mu.Lock()
	f.dirty = false
	f.mu.Unlock()
}

func (f *Form) MarkSubmitted() {
	f.mu.Lock()
	f.submitted = true
	f.mu.Unlock()
}

// FormState implements HasUnsavedChanges.
func (f *Form) FormState() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView{Dirty: f.dirty, Submitted: f.submitted}
}
