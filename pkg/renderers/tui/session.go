// Package tui runs a form as an interactive terminal session. A prompt driver
// abstracts the terminal; the default driver uses survey. The session walks
// the form step by step through the same controller browsers use, so step
// gating and final validation behave identically across surfaces.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/components"
	"github.com/goliatone/go-formschema/pkg/formschema"
	"github.com/goliatone/go-formschema/pkg/model"
	"github.com/goliatone/go-formschema/pkg/stepform"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDriver swaps the prompt driver, typically for tests.
func WithDriver(driver PromptDriver) SessionOption {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithComponents overrides the registry used to classify fields.
func WithComponents(registry components.Registry) SessionOption {
	return func(s *Session) {
		s.registry = registry
	}
}

// WithInitialValues seeds the controller's accumulated values.
func WithInitialValues(values map[string]any) SessionOption {
	return func(s *Session) {
		s.initial = values
	}
}

// Session drives one interactive run of a form document.
type Session struct {
	doc      formschema.Document
	driver   PromptDriver
	registry components.Registry
	initial  map[string]any
}

// NewSession validates the document and prepares a session.
func NewSession(doc formschema.Document, opts ...SessionOption) (*Session, error) {
	if err := doc.CheckStepReferences(); err != nil {
		return nil, err
	}
	session := &Session{
		doc:      doc,
		driver:   NewSurveyDriver(),
		registry: components.Builtin(),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session, nil
}

// Run prompts until the form validates or the user aborts, returning the
// accumulated values.
func (s *Session) Run(ctx context.Context) (map[string]any, error) {
	var ctrlOpts []stepform.Option
	if len(s.initial) > 0 {
		ctrlOpts = append(ctrlOpts, stepform.WithInitialValues(s.initial))
	}
	controller, err := stepform.New(s.doc, ctrlOpts...)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stepDoc := s.doc
		if controller.Stepped() {
			current := controller.CurrentStep()
			if sub, ok := controller.StepDocument(current); ok {
				stepDoc = sub
			}
			title := controller.Steps()[current].Title
			if title != "" {
				s.driver.Info(ctx, fmt.Sprintf("-- %s (%d/%d) --", title, current+1, len(controller.Steps())))
			}
		}

		values, err := s.promptDocument(ctx, stepDoc, controller.Values())
		if err != nil {
			return nil, err
		}

		submission := controller.SubmitStep(values)
		if submission.Done {
			return submission.Values, nil
		}
		for _, issue := range submission.Issues {
			s.driver.Info(ctx, fmt.Sprintf("! %s: %s", issue.FieldPath(), issue.Message))
		}
	}
}

func (s *Session) promptDocument(ctx context.Context, doc formschema.Document, current map[string]any) (map[string]any, error) {
	values := make(map[string]any)
	for _, key := range doc.PropertyKeys() {
		value, ok, err := s.promptField(ctx, key, doc.Properties[key], doc.IsRequired(key), current[key])
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = value
		}
	}
	return values, nil
}

// promptField asks for one field. It reports ok=false when an optional field
// was left blank, so absent stays distinct from empty.
func (s *Session) promptField(ctx context.Context, key string, prop formschema.Property, required bool, current any) (any, bool, error) {
	field, ok := s.registry.Match(prop, key, required)
	if !ok {
		field = components.Fallback(prop, key, required)
	}
	label := field.Props.Label
	if label == "" {
		label = model.HumanizeKey(key)
	}
	help := field.Props.Description

	switch field.Type {
	case components.TypeCheckbox, components.TypeSwitch:
		value, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: boolOr(current, field.Props.DefaultValue),
			Help:    help,
		})
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case components.TypeSelect, components.TypeRadio:
		options := model.SplitOptions(field.Props.Options)
		if len(options) == 0 {
			return nil, false, nil
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, stringOr(current, field.Props.DefaultValue)),
			Help:         help,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 {
			return nil, false, nil
		}
		return options[idx], true, nil

	case components.TypeTextarea:
		value, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: stringOr(current, field.Props.DefaultValue),
			Help:    help,
		})
		if err != nil {
			return nil, false, err
		}
		if value == "" && !required {
			return nil, false, nil
		}
		return value, true, nil

	case components.TypePassword:
		value, err := s.driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return nil, false, err
		}
		if value == "" && !required {
			return nil, false, nil
		}
		return value, true, nil

	case components.TypeNumber:
		raw, err := s.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   stringOr(current, field.Props.DefaultValue),
			Help:      help,
			Validator: numberValidator(required),
		})
		if err != nil {
			return nil, false, err
		}
		if raw == "" {
			return nil, false, nil
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, false, fmt.Errorf("tui: parse number for %q: %w", key, err)
		}
		return value, true, nil

	case components.TypeObject:
		nested := make(map[string]any)
		currentNested, _ := current.(map[string]any)
		requiredChildren := make(map[string]struct{}, len(prop.Required))
		for _, childKey := range prop.Required {
			requiredChildren[childKey] = struct{}{}
		}
		for _, childKey := range sortedKeys(prop.Properties) {
			_, childRequired := requiredChildren[childKey]
			value, ok, err := s.promptField(ctx, childKey, prop.Properties[childKey], childRequired, currentNested[childKey])
			if err != nil {
				return nil, false, err
			}
			if ok {
				nested[childKey] = value
			}
		}
		if len(nested) == 0 && !required {
			return nil, false, nil
		}
		return nested, true, nil

	case components.TypeArray:
		raw, err := s.driver.Input(ctx, InputConfig{
			Message: label + " (comma separated)",
			Help:    help,
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(raw) == "" {
			return nil, false, nil
		}
		var items []any
		for _, item := range strings.Split(raw, ",") {
			items = append(items, strings.TrimSpace(item))
		}
		return items, true, nil

	default:
		value, err := s.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   stringOr(current, field.Props.DefaultValue),
			Help:      help,
			Validator: requiredValidator(required),
		})
		if err != nil {
			return nil, false, err
		}
		if value == "" && !required {
			return nil, false, nil
		}
		return value, true, nil
	}
}

func requiredValidator(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New("a value is required")
		}
		return nil
	}
}

func numberValidator(required bool) func(string) error {
	return func(value string) error {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			if required {
				return errors.New("a value is required")
			}
			return nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return errors.New("enter a number")
		}
		return nil
	}
}

func stringOr(current, fallback any) string {
	for _, candidate := range []any{current, fallback} {
		if str, ok := candidate.(string); ok && str != "" {
			return str
		}
		if num, ok := candidate.(float64); ok {
			return strconv.FormatFloat(num, 'f', -1, 64)
		}
	}
	return ""
}

func boolOr(current, fallback any) bool {
	if value, ok := current.(bool); ok {
		return value
	}
	value, _ := fallback.(bool)
	return value
}

func sortedKeys(props map[string]formschema.Property) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
