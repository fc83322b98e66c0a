package signal

import (
	"fmt"
	"strings"
)

// Selector is either a weekday tag or All.
type Selector string

const (
	All Selector = "ALL"
	Mon Selector = "MON"
	Tue Selector = "TUE"
	Wed Selector = "WED"
	Thu Selector = "THU"
	Fri Selector = "FRI"
	Sat Selector = "SAT"
	Sun Selector = "SUN"
)

// Weekdays lists the day tags in display order.
var Weekdays = []Selector{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

// ParseSelector accepts ALL or a weekday tag, case-insensitively. Empty input means All.
func ParseSelector(raw string) (Selector, error) {
	tag := Selector(strings.ToUpper(strings.TrimSpace(raw)))
	if tag == "" || tag == All {
		return All, nil
	}
	if tag.IsWeekday() {
		return tag, nil
	}
	return "", fmt.Errorf("unknown day selector %q", raw)
}

// IsWeekday reports whether s names a single day.
func (s Selector) IsWeekday() bool {
	for _, d := range Weekdays {
		if s == d {
			return true
		}
	}
	return false
}

func (s Selector) String() string { return string(s) }
