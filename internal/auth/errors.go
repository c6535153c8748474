package auth

import "strings"

// SignInMessage maps a sign-in failure to a stable user-facing string.
// Matching is by message substring; anything unrecognized falls through
// to a generic notice.
func SignInMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return "Incorrect email or password"
	case strings.Contains(msg, "Email not confirmed"):
		return "Confirm your email before signing in"
	case strings.Contains(msg, "Too many requests"):
		return "Too many attempts. Try again in a few minutes"
	default:
		return "Sign-in failed. Check your credentials"
	}
}

// SignUpMessage maps a registration failure to a stable user-facing string.
func SignUpMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already registered"):
		return "This email is already registered"
	case strings.Contains(msg, "Password should be at least"):
		return "Password too weak. Use at least 6 characters"
	case strings.Contains(msg, "Invalid email"):
		return "Invalid email format"
	case strings.Contains(msg, "Name is required"):
		return "Name is required"
	case strings.Contains(msg, "Signup is disabled"):
		return "Registrations temporarily disabled"
	default:
		return "Sign-up failed. Check the data and try again"
	}
}
