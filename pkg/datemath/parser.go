package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts natural-language due-date phrases to calendar dates.
//
// The contract is deliberately forgiving: due dates are advisory, so a phrase
// the parser does not understand yields (zero, false) rather than an error,
// and a successful parse keeps only the date component.
type Parser struct {
	location *time.Location
}

// NewParser creates a date parser for the given IANA timezone string,
// e.g. "Europe/Amsterdam".
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

var inDurationRe = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseDate resolves a due-date phrase against a reference instant.
// It returns the calendar date (midnight in the parser's timezone) and
// whether the phrase was understood. Empty input is not an error: it simply
// reports false.
func (p *Parser) ParseDate(phrase string, now time.Time) (time.Time, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return time.Time{}, false
	}

	// Exact calendar forms first.
	if t, err := time.ParseInLocation("2006-01-02", phrase, p.location); err == nil {
		return p.startOfDay(t), true
	}
	if t, err := time.Parse(time.RFC3339, phrase); err == nil {
		return p.startOfDay(t), true
	}

	switch phrase {
	case "today", "tonight":
		return p.startOfDay(now), true
	case "tomorrow":
		return p.startOfDay(now.AddDate(0, 0, 1)), true
	}

	if strings.HasPrefix(phrase, "in ") {
		return p.parseInDuration(phrase, now)
	}

	// Both "friday" and "next friday" mean the next time that weekday comes
	// around, matching how people phrase due dates.
	dayName := strings.TrimPrefix(strings.TrimPrefix(phrase, "next "), "this ")
	if wd, ok := weekdays[dayName]; ok {
		return p.nextWeekday(wd, now), true
	}

	return time.Time{}, false
}

// parseInDuration handles "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(phrase string, now time.Time) (time.Time, bool) {
	matches := inDurationRe.FindStringSubmatch(phrase)
	if len(matches) != 3 {
		return time.Time{}, false
	}

	amount, _ := strconv.Atoi(matches[1])

	switch {
	case strings.HasPrefix(matches[2], "day"):
		return p.startOfDay(now.AddDate(0, 0, amount)), true
	case strings.HasPrefix(matches[2], "week"):
		return p.startOfDay(now.AddDate(0, 0, amount*7)), true
	case strings.HasPrefix(matches[2], "month"):
		return p.startOfDay(now.AddDate(0, amount, 0)), true
	}

	return time.Time{}, false
}

// nextWeekday returns the next occurrence of the target weekday strictly
// after the reference day.
func (p *Parser) nextWeekday(target time.Weekday, now time.Time) time.Time {
	daysUntil := int(target - now.In(p.location).Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return p.startOfDay(now.AddDate(0, 0, daysUntil))
}

// startOfDay truncates to midnight in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}
