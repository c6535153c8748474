package validation

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailRule validates a required, well-formed email address.
func EmailRule() Rule {
	return Rule{
		Required: true,
		Pattern:  emailPattern,
		Custom: func(value string, _ Values) string {
			if value != "" && !emailPattern.MatchString(value) {
				return "Enter a valid email address"
			}
			return ""
		},
	}
}

// PasswordRule validates a required password of at least six characters.
func PasswordRule() Rule {
	return Rule{
		Required:  true,
		MinLength: 6,
		Custom: func(value string, _ Values) string {
			if value != "" && len(value) < 6 {
				return "Password must be at least 6 characters"
			}
			return ""
		},
	}
}

// ConfirmPasswordRule validates that the field matches the named password
// field's current value.
func ConfirmPasswordRule(passwordField string) Rule {
	return Rule{
		Required: true,
		Custom: func(value string, values Values) string {
			if value != values[passwordField] {
				return "Passwords do not match"
			}
			return ""
		},
	}
}

// NameRule validates a required display name with sane length bounds.
func NameRule() Rule {
	return Rule{
		Required:  true,
		MinLength: 2,
		MaxLength: 100,
	}
}
