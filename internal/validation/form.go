package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Values is a snapshot of every field's current value, keyed by field name.
// Custom rules receive it so cross-field checks (confirm password) need no
// special casing inside the form itself.
type Values map[string]string

// Rule is the declarative validation rule set for a single field.
// Checks run in order: required, min length, max length, pattern, custom;
// the first failing check supplies the error message.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Custom returns a non-empty message when the value is invalid.
	Custom func(value string, values Values) string
}

// Field is the value/error/touched triplet tracked per form field.
type Field struct {
	Value   string `json:"value"`
	Error   string `json:"error,omitempty"`
	Touched bool   `json:"touched"`
}

// Form evaluates a rule set over a mutable set of field values.
type Form struct {
	fields  map[string]*Field
	rules   map[string]Rule
	initial map[string]string
}

// New creates a form from initial field values and their rules. Fields
// without a matching rule are always valid.
func New(initial map[string]string, rules map[string]Rule) *Form {
	f := &Form{
		fields:  make(map[string]*Field, len(initial)),
		rules:   rules,
		initial: initial,
	}
	for name, value := range initial {
		f.fields[name] = &Field{Value: value}
	}
	return f
}

// SetValue updates a field, marks it touched and revalidates it.
func (f *Form) SetValue(name, value string) {
	field, ok := f.fields[name]
	if !ok {
		field = &Field{}
		f.fields[name] = field
	}
	field.Value = value
	field.Touched = true
	field.Error = f.validateField(name, value)
}

// Validate revalidates every field, marks them all touched and reports
// whether the whole form passes.
func (f *Form) Validate() bool {
	valid := true
	for name, field := range f.fields {
		field.Touched = true
		field.Error = f.validateField(name, field.Value)
		if field.Error != "" {
			valid = false
		}
	}
	return valid
}

// HasErrors reports whether any field currently carries an error.
func (f *Form) HasErrors() bool {
	for _, field := range f.fields {
		if field.Error != "" {
			return true
		}
	}
	return false
}

// Touched reports whether any field has been touched.
func (f *Form) Touched() bool {
	for _, field := range f.fields {
		if field.Touched {
			return true
		}
	}
	return false
}

// Field returns a copy of the named field's current state.
func (f *Form) Field(name string) (Field, bool) {
	field, ok := f.fields[name]
	if !ok {
		return Field{}, false
	}
	return *field, true
}

// Values returns a snapshot of all current field values.
func (f *Form) Values() Values {
	values := make(Values, len(f.fields))
	for name, field := range f.fields {
		values[name] = field.Value
	}
	return values
}

// Reset restores every field to its initial value, untouched and error-free.
func (f *Form) Reset() {
	f.fields = make(map[string]*Field, len(f.initial))
	for name, value := range f.initial {
		f.fields[name] = &Field{Value: value}
	}
}

func (f *Form) validateField(name, value string) string {
	rule, ok := f.rules[name]
	if !ok {
		return ""
	}

	if rule.Required && strings.TrimSpace(value) == "" {
		return "This field is required"
	}
	if rule.MinLength > 0 && len(value) < rule.MinLength {
		return fmt.Sprintf("Must be at least %d characters", rule.MinLength)
	}
	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		return fmt.Sprintf("Must be at most %d characters", rule.MaxLength)
	}
	if rule.Pattern != nil && value != "" && !rule.Pattern.MatchString(value) {
		return "Invalid format"
	}
	if rule.Custom != nil {
		return rule.Custom(value, f.Values())
	}
	return ""
}
