package task

import (
	"fmt"
	"strings"
	"time"
)

// Status is the closed set of task states. The zero value is not a member.
type Status uint8

// Status values.
const (
	StatusActive Status = iota + 1
	StatusCompleted
	StatusCancelled
)

// Statuses lists every member in display order.
var Statuses = []Status{StatusActive, StatusCompleted, StatusCancelled}

var statusTokens = map[Status]string{
	StatusActive:    "active",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

// Valid reports whether s is a member of the closed set.
func (s Status) Valid() bool {
	_, ok := statusTokens[s]

	return ok
}

// String returns the wire token.
func (s Status) String() string {
	if token, ok := statusTokens[s]; ok {
		return token
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// MarshalText encodes the wire token. Non-members fail.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &InvalidEnumError{Value: s.String()}
	}

	return []byte(s.String()), nil
}

// UnmarshalText accepts anything [ParseStatus] accepts.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseStatus maps a wire token or any localized label to a Status.
// Matching ignores case and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))

	for _, status := range Statuses {
		if needle == statusTokens[status] {
			return status, nil
		}

		for _, labels := range statusLabels {
			if needle == strings.ToLower(labels[status]) {
				return status, nil
			}
		}
	}

	return 0, &InvalidEnumError{Value: s}
}

// Locale selects display labels and date layout.
type Locale string

// Supported locales.
const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

// ParseLocale validates a locale name.
func ParseLocale(s string) (Locale, error) {
	switch Locale(s) {
	case LocaleEN, LocaleRU:
		return Locale(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want en|ru)", ErrUnknownLocale, s)
	}
}

var statusLabels = map[Locale]map[Status]string{
	LocaleEN: {
		StatusActive:    "Active task",
		StatusCompleted: "Task completed",
		StatusCancelled: "Task cancelled",
	},
	LocaleRU: {
		StatusActive:    "Активная задача",
		StatusCompleted: "Задача выполнена",
		StatusCancelled: "Задача отменена",
	},
}

var dateLayouts = map[Locale]string{
	LocaleEN: "Jan 2, 2006",
	LocaleRU: "02.01.2006",
}

// Label returns the human-readable label for s. Unknown locales use English.
func Label(s Status, locale Locale) string {
	labels, ok := statusLabels[locale]
	if !ok {
		labels = statusLabels[LocaleEN]
	}

	if label, ok := labels[s]; ok {
		return label
	}

	return s.String()
}

// DeadlineLabel renders a deadline for display. Empty deadlines render as
// "-"; values that are not calendar dates are shown verbatim.
func DeadlineLabel(deadline string, locale Locale) string {
	if strings.TrimSpace(deadline) == "" {
		return "-"
	}

	date, err := time.Parse(DateLayout, deadline)
	if err != nil {
		return deadline
	}

	layout, ok := dateLayouts[locale]
	if !ok {
		layout = dateLayouts[LocaleEN]
	}

	return date.Format(layout)
}
