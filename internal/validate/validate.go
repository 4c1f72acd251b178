// Package validate provides request field validation as an ordered list
// of independent rules. Every rule runs and every violation is reported,
// instead of stopping at the first failing field.
package validate

import "fmt"

// Violation names one offending field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule checks one field and yields at most one violation.
type Rule func() *Violation

// Apply runs rules in order and collects all violations.
func Apply(rules ...Rule) []Violation {
	var out []Violation
	for _, r := range rules {
		if v := r(); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// NonEmpty yields a violation when value is the empty string.
func NonEmpty(field, value, message string) Rule {
	return func() *Violation {
		if value == "" {
			return &Violation{Field: field, Message: message}
		}
		return nil
	}
}

// LengthBetween yields a violation when len(value) is outside [min, max].
func LengthBetween(field, value string, min, max int, message string) Rule {
	return func() *Violation {
		if len(value) < min || len(value) > max {
			return &Violation{Field: field, Message: message}
		}
		return nil
	}
}

// Error carries the full violation list through ordinary error returns.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Violations))
}

// Check returns an *Error when any rule is violated, nil otherwise.
func Check(rules ...Rule) error {
	if vs := Apply(rules...); len(vs) > 0 {
		return &Error{Violations: vs}
	}
	return nil
}
