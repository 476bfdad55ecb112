package caravansite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DocAdder is the single write operation a lead form needs from the store.
type DocAdder interface {
	Add(ctx context.Context, collection string, doc map[string]any) (string, error)
}

// FormState is the lead form's lifecycle state.
type FormState int

const (
	// FormEditing is the initial state: fields are mutable.
	FormEditing FormState = iota
	// FormSubmitting means the single write is in flight.
	FormSubmitting
	// FormSubmitted means the write succeeded and fields were reset.
	FormSubmitted
	// FormFailed means the write failed; fields are preserved for retry.
	FormFailed
)

// ErrSubmitInFlight is returned when Submit is triggered while an earlier
// submit on the same form has not completed.
var ErrSubmitInFlight = errors.New("caravansite: submit already in flight")

// ValidationError reports the required fields that were empty, plus
// whether the terms-consent flag was missing. No write is attempted.
type ValidationError struct {
	Missing        []string
	ConsentMissing bool
}

func (e *ValidationError) Error() string {
	if e.ConsentMissing && len(e.Missing) == 0 {
		return "terms must be agreed to"
	}
	return "required fields missing: " + strings.Join(e.Missing, ", ")
}

// LeadStatusNew is the status every lead document carries at creation.
const LeadStatusNew = "new"

// defaultSubmitTimeout bounds the store write so a stalled network cannot
// leave the form in Submitting forever.
const defaultSubmitTimeout = 15 * time.Second

// LeadForm owns one form's field state and performs exactly one
// collection write per successful user-initiated submit. A boolean
// in-flight flag makes the submit single-flight per form instance; each
// attempt additionally carries a generated idempotency key so a retried
// request can be deduplicated downstream.
type LeadForm struct {
	collection string
	required   []string
	consent    bool
	timeout    time.Duration
	store      DocAdder

	mu       sync.Mutex
	fields   map[string]string
	agreed   bool
	state    FormState
	inFlight bool

	// now and newID are injection points for tests; nil means the real clock
	// and a fresh UUID per attempt.
	now   func() time.Time
	newID func() string
}

// NewLeadForm creates a form that writes to collection and requires the
// named fields to be non-empty on submit.
func NewLeadForm(store DocAdder, collection string, required []string) *LeadForm {
	return &LeadForm{
		collection: collection,
		required:   required,
		timeout:    defaultSubmitTimeout,
		store:      store,
		fields:     make(map[string]string),
	}
}

// RequireConsent makes submission fail validation unless SetConsent(true)
// was called. Used by forms that carry an "agree to terms" checkbox.
func (f *LeadForm) RequireConsent() {
	f.consent = true
}

// SetTimeout overrides the write timeout.
func (f *LeadForm) SetTimeout(d time.Duration) {
	f.timeout = d
}

// SetField sets one form field value.
func (f *LeadForm) SetField(name, value string) {
	f.mu.Lock()
	f.fields[name] = value
	f.mu.Unlock()
}

// SetFields sets many form field values at once.
func (f *LeadForm) SetFields(values map[string]string) {
	f.mu.Lock()
	for k, v := range values {
		f.fields[k] = v
	}
	f.mu.Unlock()
}

// SetConsent records the terms-agreement flag.
func (f *LeadForm) SetConsent(agreed bool) {
	f.mu.Lock()
	f.agreed = agreed
	f.mu.Unlock()
}

// Field returns the current value of one field.
func (f *LeadForm) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

// State returns the form's lifecycle state.
func (f *LeadForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates the form and, on success, issues exactly one write to
// the target collection. Validation failure returns a *ValidationError
// and leaves the form editable with no write attempted. A concurrent
// submit on the same instance returns ErrSubmitInFlight without writing.
// On write failure the fields are preserved so the user can retry; on
// success they reset to empty.
func (f *LeadForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}

	if verr := f.validateLocked(); verr != nil {
		f.state = FormEditing
		f.mu.Unlock()
		return verr
	}

	doc := f.buildDocumentLocked()
	f.inFlight = true
	f.state = FormSubmitting
	f.mu.Unlock()

	writeCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	_, err := f.store.Add(writeCtx, f.collection, doc)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		f.state = FormFailed
		return fmt.Errorf("caravansite: submit %s: %w", f.collection, err)
	}
	f.fields = make(map[string]string)
	f.agreed = false
	f.state = FormSubmitted
	return nil
}

func (f *LeadForm) validateLocked() *ValidationError {
	verr := &ValidationError{}
	for _, name := range f.required {
		if strings.TrimSpace(f.fields[name]) == "" {
			verr.Missing = append(verr.Missing, name)
		}
	}
	if f.consent && !f.agreed {
		verr.ConsentMissing = true
	}
	if len(verr.Missing) > 0 || verr.ConsentMissing {
		return verr
	}
	return nil
}

// buildDocumentLocked snapshots the fields into the document to write,
// joining the phone country code onto the local number and stamping the
// system fields.
func (f *LeadForm) buildDocumentLocked() map[string]any {
	doc := make(map[string]any, len(f.fields)+4)
	for k, v := range f.fields {
		doc[k] = v
	}
	if _, ok := f.fields["phone"]; ok {
		code := strings.TrimSpace(f.fields["phoneCode"])
		number := strings.TrimSpace(f.fields["phone"])
		if code != "" && number != "" {
			doc["phone"] = code + " " + number
		} else {
			doc["phone"] = number
		}
	}

	now := time.Now()
	if f.now != nil {
		now = f.now()
	}
	stamp := now.UTC().Format(time.RFC3339)
	doc["status"] = LeadStatusNew
	doc["createdAt"] = stamp
	doc["lastUpdated"] = stamp
	if f.newID != nil {
		doc["idempotencyKey"] = f.newID()
	} else {
		doc["idempotencyKey"] = uuid.NewString()
	}
	return doc
}
