package authflow

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Flow selects which form a controller drives.
type Flow string

const (
	FlowLogin    Flow = "login"
	FlowRegister Flow = "register"
)

// Field names one settable form input. Values match the HTML input names.
type Field string

const (
	FieldFirstName Field = "firstname"
	FieldLastName  Field = "lastname"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
)

// MinPasswordLength is the longest password that is still rejected locally.
const MinPasswordLength = 6

var (
	loginFields    = []Field{FieldEmail, FieldPassword}
	registerFields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPassword}
)

// Valid reports whether f is a known flow.
func (f Flow) Valid() bool {
	return f == FlowLogin || f == FlowRegister
}

// Fields returns the declared inputs of the flow in render order.
func (f Flow) Fields() []Field {
	switch f {
	case FlowLogin:
		return append([]Field(nil), loginFields...)
	case FlowRegister:
		return append([]Field(nil), registerFields...)
	default:
		return nil
	}
}

// Declares reports whether field is settable in this flow.
func (f Flow) Declares(field Field) bool {
	for _, declared := range f.Fields() {
		if declared == field {
			return true
		}
	}
	return false
}

// ParseFlow resolves a flow name.
func ParseFlow(raw string) (Flow, bool) {
	flow := Flow(strings.ToLower(strings.TrimSpace(raw)))
	return flow, flow.Valid()
}

// Form is the in-memory record behind the rendered inputs. Login only uses
// Email and Password.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// FieldEdit is one input change.
type FieldEdit struct {
	Field Field
	Value string
}

// Reduce applies one edit to form. Only fields declared by flow are
// settable; every other field keeps its value.
func Reduce(flow Flow, form Form, edit FieldEdit) (Form, error) {
	if !flow.Declares(edit.Field) {
		return form, fmt.Errorf("%w: %q in %s form", ErrUnknownField, edit.Field, flow)
	}
	switch edit.Field {
	case FieldFirstName:
		form.FirstName = edit.Value
	case FieldLastName:
		form.LastName = edit.Value
	case FieldEmail:
		form.Email = edit.Value
	case FieldPassword:
		form.Password = edit.Value
	}
	return form, nil
}

// Value returns the current value of field.
func (f Form) Value(field Field) string {
	switch field {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	default:
		return ""
	}
}

// Credentials projects the login payload.
func (f Form) Credentials() Credentials {
	return Credentials{Email: f.Email, Password: f.Password}
}

// Profile projects the registration payload.
func (f Form) Profile() Profile {
	return Profile{FirstName: f.FirstName, LastName: f.LastName, Email: f.Email, Password: f.Password}
}

// PasswordLength counts UTF-16 code units, the length browsers report for
// an input value. Characters outside the Basic Multilingual Plane count
// twice.
func PasswordLength(password string) int {
	n := 0
	for _, r := range password {
		n += utf16.RuneLen(r)
	}
	return n
}

// Submittable reports whether form may be sent to the network for flow.
func Submittable(flow Flow, form Form) bool {
	if !strings.Contains(form.Email, "@") {
		return false
	}
	if PasswordLength(form.Password) <= MinPasswordLength {
		return false
	}
	if flow == FlowRegister {
		if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
			return false
		}
	}
	return true
}
