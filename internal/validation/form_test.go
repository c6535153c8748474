package validation

import (
	"regexp"
	"testing"
)

func TestValidateField_RuleOrder(t *testing.T) {
	rules := map[string]Rule{
		"code": {
			Required:  true,
			MinLength: 3,
			MaxLength: 5,
			Pattern:   regexp.MustCompile(`^[A-Z]+$`),
			Custom: func(value string, _ Values) string {
				if value == "NOPE" {
					return "custom says no"
				}
				return ""
			},
		},
	}

	tests := []struct {
		name      string
		value     string
		wantError string
	}{
		{
			name:      "empty fails required first",
			value:     "",
			wantError: "This field is required",
		},
		{
			name:      "whitespace only fails required",
			value:     "   ",
			wantError: "This field is required",
		},
		{
			name:      "too short fails min length before pattern",
			value:     "ab",
			wantError: "Must be at least 3 characters",
		},
		{
			name:      "too long fails max length",
			value:     "ABCDEF",
			wantError: "Must be at most 5 characters",
		},
		{
			name:      "pattern mismatch",
			value:     "abc",
			wantError: "Invalid format",
		},
		{
			name:      "custom runs last",
			value:     "NOPE",
			wantError: "custom says no",
		},
		{
			name:      "all rules satisfied",
			value:     "OKAY",
			wantError: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(map[string]string{"code": ""}, rules)
			f.SetValue("code", tt.value)

			field, ok := f.Field("code")
			if !ok {
				t.Fatal("field code missing")
			}
			if field.Error != tt.wantError {
				t.Errorf("error = %q, want %q", field.Error, tt.wantError)
			}
			if !field.Touched {
				t.Error("SetValue must mark the field touched")
			}
		})
	}
}

func TestForm_FieldWithoutRuleIsAlwaysValid(t *testing.T) {
	f := New(map[string]string{"notes": ""}, nil)
	f.SetValue("notes", "anything at all")

	if f.HasErrors() {
		t.Error("field without a rule must never error")
	}
	if !f.Validate() {
		t.Error("Validate() must pass with no rules")
	}
}

func TestForm_CrossFieldConfirmPassword(t *testing.T) {
	rules := map[string]Rule{
		"password":        PasswordRule(),
		"confirmPassword": ConfirmPasswordRule("password"),
	}

	f := New(map[string]string{"password": "", "confirmPassword": ""}, rules)
	f.SetValue("password", "secret1")
	f.SetValue("confirmPassword", "secret2")

	if f.Validate() {
		t.Error("mismatched passwords must fail validation")
	}
	field, _ := f.Field("confirmPassword")
	if field.Error != "Passwords do not match" {
		t.Errorf("error = %q, want mismatch message", field.Error)
	}

	f.SetValue("confirmPassword", "secret1")
	if !f.Validate() {
		t.Error("matching passwords must pass validation")
	}
	if f.HasErrors() {
		t.Error("HasErrors() must be false after a passing Validate()")
	}
}

func TestForm_ValidateTouchesAllFields(t *testing.T) {
	rules := map[string]Rule{
		"email":    EmailRule(),
		"password": PasswordRule(),
	}
	f := New(map[string]string{"email": "", "password": ""}, rules)

	if f.Touched() {
		t.Error("fresh form must be untouched")
	}
	if f.Validate() {
		t.Error("empty required fields must fail validation")
	}

	for _, name := range []string{"email", "password"} {
		field, _ := f.Field(name)
		if !field.Touched {
			t.Errorf("field %s not touched after Validate()", name)
		}
		if field.Error == "" {
			t.Errorf("field %s expected an error", name)
		}
	}
}

func TestForm_RegisterFormScenario(t *testing.T) {
	rules := map[string]Rule{
		"name":            NameRule(),
		"email":           EmailRule(),
		"password":        PasswordRule(),
		"confirmPassword": ConfirmPasswordRule("password"),
	}
	f := New(map[string]string{
		"name": "", "email": "", "password": "", "confirmPassword": "",
	}, rules)

	f.SetValue("name", "Maria")
	f.SetValue("email", "maria@example.com")
	f.SetValue("password", "short")

	field, _ := f.Field("password")
	if field.Error != "Must be at least 6 characters" {
		t.Errorf("short password error = %q", field.Error)
	}

	f.SetValue("password", "longenough")
	f.SetValue("confirmPassword", "longenough")

	if !f.Validate() {
		t.Fatal("fully valid form must pass")
	}
	if f.HasErrors() {
		t.Error("no errors expected on a valid form")
	}

	values := f.Values()
	if values["email"] != "maria@example.com" {
		t.Errorf("values snapshot wrong: %v", values)
	}
}

func TestForm_Reset(t *testing.T) {
	f := New(map[string]string{"email": "seed@example.com"}, map[string]Rule{"email": EmailRule()})
	f.SetValue("email", "not-an-email")

	if !f.HasErrors() {
		t.Fatal("expected an error before reset")
	}

	f.Reset()

	field, _ := f.Field("email")
	if field.Value != "seed@example.com" || field.Error != "" || field.Touched {
		t.Errorf("reset field = %+v, want pristine initial state", field)
	}
}

func TestEmailRule(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"spaces in@mail.com", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		f := New(map[string]string{"email": ""}, map[string]Rule{"email": EmailRule()})
		f.SetValue("email", tt.email)
		field, _ := f.Field("email")
		if (field.Error == "") != tt.valid {
			t.Errorf("email %q: error = %q, want valid=%v", tt.email, field.Error, tt.valid)
		}
	}
}
