// Package stepform drives a multi-step form: it partitions a schema into
// per-step sub-schemas, gates navigation on completion, accumulates values
// across steps and runs a final full-schema validation pass. The controller
// is a small explicit state machine over (current step, completed steps,
// accumulated values); it has no terminal state other than a successful final
// submit and restarts by resetting those three pieces of state.
package stepform

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formschema/pkg/converter"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/vschema"
)

// Option configures a controller.
type Option func(*Controller)

// WithInitialValues seeds the accumulated value set, for example when editing
// an existing record.
func WithInitialValues(values map[string]any) Option {
	return func(c *Controller) {
		for key, value := range values {
			c.values[key] = value
		}
	}
}

// Controller tracks one form session.
type Controller struct {
	doc         formschema.Document
	full        *vschema.Schema
	steps       []formschema.Step
	assignments map[string]int
	stepDocs    []formschema.Document
	stepSchemas []*vschema.Schema

	current      int
	completed    map[int]struct{}
	values       map[string]any
	schemaErrors vschema.Issues
}

// Submission reports the outcome of a step submit.
type Submission struct {
	// Done is true only after the final full-schema validation passed.
	Done bool
	// Values is the complete accumulated payload when Done.
	Values map[string]any
	// Issues holds the validation failures that blocked this submit.
	Issues vschema.Issues
}

// New derives the controller state from a document. With zero or one step the
// controller degrades to a single-pass form: no stepper, one submit running
// full-schema validation directly.
func New(doc formschema.Document, opts ...Option) (*Controller, error) {
	if err := doc.CheckStepReferences(); err != nil {
		return nil, err
	}
	full, err := converter.FromFormSchema(doc)
	if err != nil {
		return nil, fmt.Errorf("stepform: import schema: %w", err)
	}

	ctrl := &Controller{
		doc:       doc,
		full:      full,
		completed: make(map[int]struct{}),
		values:    make(map[string]any),
	}

	if doc.Stepped() {
		ctrl.steps = append([]formschema.Step(nil), doc.Steps...)
		ctrl.assignments = doc.StepAssignments()
		if ctrl.assignments == nil {
			ctrl.assignments = make(map[string]int)
		}
		// An index outside the step range folds into the first step, the same
		// resolution renderers use when partitioning fields. Clamping here
		// keeps every field reachable and every step jump in range.
		for key, step := range ctrl.assignments {
			if step < 0 || step >= len(ctrl.steps) {
				ctrl.assignments[key] = 0
			}
		}
		for idx := range ctrl.steps {
			sub := doc.Pick(ctrl.fieldsForStep(idx)...)
			schema, err := converter.FromFormSchema(sub)
			if err != nil {
				return nil, fmt.Errorf("stepform: import step %d: %w", idx, err)
			}
			ctrl.stepDocs = append(ctrl.stepDocs, sub)
			ctrl.stepSchemas = append(ctrl.stepSchemas, schema)
		}
	}

	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl, nil
}

// fieldsForStep lists the top-level keys assigned to a step. Fields with no
// assignment belong to the first step.
func (c *Controller) fieldsForStep(step int) []string {
	var keys []string
	for _, key := range c.doc.PropertyKeys() {
		assigned, ok := c.assignments[key]
		if !ok {
			assigned = 0
		}
		if assigned == step {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Steps returns the step descriptors; empty for single-pass forms.
func (c *Controller) Steps() []formschema.Step {
	return append([]formschema.Step(nil), c.steps...)
}

// Stepped reports whether the controller renders stepper chrome.
func (c *Controller) Stepped() bool { return len(c.steps) > 1 }

// CurrentStep returns the 0-indexed active step.
func (c *Controller) CurrentStep() int { return c.current }

// StepCompleted reports whether a step's local validation has passed at least
// once.
func (c *Controller) StepCompleted(step int) bool {
	_, ok := c.completed[step]
	return ok
}

// StepDocument returns the sub-schema for one step, for rendering.
func (c *Controller) StepDocument(step int) (formschema.Document, bool) {
	if step < 0 || step >= len(c.stepDocs) {
		return formschema.Document{}, false
	}
	return c.stepDocs[step], true
}

// Values returns a copy of the accumulated values.
func (c *Controller) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for key, value := range c.values {
		out[key] = value
	}
	return out
}

// Errors returns the pending full-schema validation failures, if any.
func (c *Controller) Errors() vschema.Issues {
	return append(vschema.Issues(nil), c.schemaErrors...)
}

// SubmitStep validates the submitted values against the active step's
// sub-schema, accumulates them and advances. On the last step it first
// verifies every other step completed (jumping to the first incomplete one
// otherwise), then runs full-schema validation over the accumulated set.
func (c *Controller) SubmitStep(values map[string]any) Submission {
	if !c.Stepped() {
		return c.submitSinglePass(values)
	}

	if issues := c.stepSchemas[c.current].Validate(c.withStepValues(values, c.current)); len(issues) > 0 {
		return Submission{Issues: issues}
	}

	c.mergeValues(values)
	c.completed[c.current] = struct{}{}

	last := len(c.steps) - 1
	if c.current < last {
		c.current++
		return Submission{}
	}

	for idx := 0; idx <= last; idx++ {
		if idx == c.current {
			continue
		}
		if _, done := c.completed[idx]; !done {
			c.current = idx
			return Submission{}
		}
	}

	issues := c.full.Validate(c.values)
	if len(issues) > 0 {
		c.schemaErrors = issues
		if step, ok := c.stepForIssue(issues[0]); ok && step != c.current {
			c.current = step
		}
		return Submission{Issues: issues}
	}
	c.schemaErrors = nil
	return Submission{Done: true, Values: c.Values()}
}

func (c *Controller) submitSinglePass(values map[string]any) Submission {
	c.mergeValues(values)
	issues := c.full.Validate(c.values)
	if len(issues) > 0 {
		c.schemaErrors = issues
		return Submission{Issues: issues}
	}
	c.schemaErrors = nil
	return Submission{Done: true, Values: c.Values()}
}

// withStepValues overlays the submitted values onto the already accumulated
// entries for the step, so partially prefilled steps validate as a whole.
func (c *Controller) withStepValues(values map[string]any, step int) map[string]any {
	merged := make(map[string]any)
	for _, key := range c.fieldsForStep(step) {
		if value, ok := c.values[key]; ok {
			merged[key] = value
		}
	}
	for key, value := range values {
		merged[key] = preserveDateRepresentation(merged[key], value)
	}
	return merged
}

// NavigateTo handles a step-indicator click. Navigable targets are the
// current step, any completed step, and the single step immediately after a
// completed current step; everything else is a no-op so users cannot skip
// ahead past incomplete work. Successful navigation clears pending schema
// errors so stale failures never bleed into another step's view.
func (c *Controller) NavigateTo(step int) bool {
	if step < 0 || step >= len(c.steps) || !c.Stepped() {
		return false
	}
	switch {
	case step == c.current,
		c.StepCompleted(step),
		step == c.current+1 && c.StepCompleted(c.current):
		c.current = step
		c.schemaErrors = nil
		return true
	default:
		return false
	}
}

// Back moves one step backwards and clears pending schema errors.
func (c *Controller) Back() {
	if c.current > 0 {
		c.current--
	}
	c.schemaErrors = nil
}

// Reset restores the controller to its initial state.
func (c *Controller) Reset() {
	c.current = 0
	c.completed = make(map[int]struct{})
	c.values = make(map[string]any)
	c.schemaErrors = nil
}

// mergeValues folds submitted values into the accumulated set. Values only
// ever gain entries; date values keep whichever representation (string or
// native time) the session already used.
func (c *Controller) mergeValues(values map[string]any) {
	for key, value := range values {
		c.values[key] = preserveDateRepresentation(c.values[key], value)
	}
}

// stepForIssue maps a validation issue to the step owning its field.
func (c *Controller) stepForIssue(issue vschema.Issue) (int, bool) {
	field := issue.FieldPath()
	if field == "" {
		return 0, false
	}
	top := field
	if idx := strings.IndexByte(field, '.'); idx >= 0 {
		top = field[:idx]
	}
	if step, ok := c.assignments[top]; ok {
		return step, true
	}
	if _, ok := c.doc.Properties[top]; ok {
		return 0, true
	}
	return 0, false
}

// preserveDateRepresentation keeps a date field's representation stable
// across changes: a string-backed value stays a string, a time-backed value
// stays a time, no matter which form the new value arrives in.
func preserveDateRepresentation(existing, incoming any) any {
	switch existing.(type) {
	case string:
		if when, ok := incoming.(time.Time); ok {
			return when.Format(time.RFC3339)
		}
	case time.Time:
		if str, ok := incoming.(string); ok {
			if when, ok := vschema.ParseDateValue(str); ok {
				return when
			}
		}
	}
	return incoming
}
