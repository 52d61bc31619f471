// Package forms implements the multi-step application wizards. A wizard
// walks steps 0 through 3; Next validates the current step before
// advancing, Previous never validates, and Submit refuses to touch the
// network until every mandatory document is attached.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FormState is the submission lifecycle of a wizard.
type FormState int

const (
	// StateEditing means the wizard accepts input.
	StateEditing FormState = iota
	// StateSubmitting means a submission is in flight.
	StateSubmitting
	// StateSucceeded is terminal; the wizard refuses further
	// submissions.
	StateSucceeded
)

// LastStep is the final wizard step index.
const LastStep = 3

// ErrAlreadySubmitted is returned when Submit is called on a wizard in
// its terminal success state.
var ErrAlreadySubmitted = errors.New("application already submitted")

// ErrNotOnFinalStep is returned when Submit is called before the wizard
// reaches its last step.
var ErrNotOnFinalStep = errors.New("wizard is not on the final step")

// MissingDocumentsError names every mandatory document that is still
// unattached. It is produced without any network traffic.
type MissingDocumentsError struct {
	Missing []string
}

func (e *MissingDocumentsError) Error() string {
	return "Missing required documents: " + strings.Join(e.Missing, ", ")
}

// wizard carries the step cursor and submission state shared by every
// form.
type wizard struct {
	step  int
	state FormState
}

// Step returns the current step index.
func (w *wizard) Step() int { return w.step }

// State returns the submission lifecycle state.
func (w *wizard) State() FormState { return w.state }

// Previous moves one step back without re-validating anything.
func (w *wizard) Previous() {
	if w.step > 0 {
		w.step--
	}
}

// advance validates the payload for the current step and moves forward
// on success.
func (w *wizard) advance(stepPayload interface{}) error {
	if err := validate.Struct(stepPayload); err != nil {
		return stepError(w.step, err)
	}
	if w.step < LastStep {
		w.step++
	}
	return nil
}

// checkSubmittable enforces the shared submission preconditions.
func (w *wizard) checkSubmittable() error {
	switch w.state {
	case StateSucceeded:
		return ErrAlreadySubmitted
	case StateSubmitting:
		return errors.New("submission already in flight")
	}
	if w.step != LastStep {
		return ErrNotOnFinalStep
	}
	return nil
}

// missingFrom reports which required document fields have no upload
// attached, in stable order.
func missingFrom(required []string, attached map[string]bool) []string {
	var missing []string
	for _, field := range required {
		if !attached[field] {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

func stepError(step int, err error) error {
	return fmt.Errorf("step %d: %w", step, err)
}
