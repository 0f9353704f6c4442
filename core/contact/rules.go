// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package contact

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"codeberg.org/folio/folio/i18n"
)

// FieldKind selects the rules applied to a field.
type FieldKind string

const (
	// KindText fields need at least two characters.
	KindText FieldKind = "text"
	// KindEmail fields need an address shaped like local@domain.tld.
	KindEmail FieldKind = "email"
	// KindTextarea fields are only required.
	KindTextarea FieldKind = "textarea"
)

// Field is a contact form input.
type Field struct {
	Name  string
	Kind  FieldKind
	Label i18n.MsgKey
}

// Fields lists the inputs of the contact form in display order.
var Fields = []Field{
	{Name: "name", Kind: KindText, Label: LabelName},
	{Name: "email", Kind: KindEmail, Label: LabelEmail},
	{Name: "subject", Kind: KindText, Label: LabelSubject},
	{Name: "message", Kind: KindTextarea, Label: LabelMessage},
}

// FieldByName returns the field called name.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

const emailTag = "portfolio_email"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// rules returns the validator tag for kind.
func rules(kind FieldKind) string {
	switch kind {
	case KindEmail:
		return "required," + emailTag
	case KindText:
		return "required,min=2"
	}

	return "required"
}

// ValidateField checks the trimmed value of f. It returns the message to
// show, or "" when the value is valid.
func ValidateField(f Field, value string) i18n.MsgKey {
	err := validatorInstance().Var(strings.TrimSpace(value), rules(f.Kind))
	if err == nil {
		return ""
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return MsgFieldRequired
	}

	switch ves[0].Tag() {
	case "required":
		if f.Kind == KindEmail {
			return MsgEmailRequired
		}

		return MsgFieldRequired
	case emailTag:
		return MsgInvalidEmail
	case "min":
		return MsgTooShort
	}

	return MsgFieldRequired
}

// FieldError is a failed field.
type FieldError struct {
	Field   string
	Message i18n.MsgKey
}

func (e FieldError) Error() string {
	return e.Field + ": " + string(e.Message)
}

// Errors lists failed fields in form order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}

	return strings.Join(parts, "; ")
}

// Of returns the message for field, or "".
func (e Errors) Of(field string) i18n.MsgKey {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}

	return ""
}

// ValidateForm checks every field. Missing values count as empty.
// It returns nil when the form is valid.
func ValidateForm(values map[string]string) Errors {
	var errs Errors

	for _, f := range Fields {
		if msg := ValidateField(f, values[f.Name]); msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
		}
	}

	return errs
}
