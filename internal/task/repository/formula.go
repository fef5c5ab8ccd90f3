package repository

import (
	"fmt"
	"strings"
	"time"
)

// The filter formulas below are built by plain string interpolation. The only
// values ever embedded are time.Format output and escaped string literals, so
// no user-controlled text reaches the query language.

// OpenFormula matches records that are not done.
func OpenFormula() string {
	return "NOT({Done})"
}

// DueOnFormula matches open records due on the given calendar date.
func DueOnFormula(date time.Time) string {
	return fmt.Sprintf(
		"AND(NOT({Done}), DATETIME_FORMAT({DueDate}, 'YYYY-MM-DD')='%s')",
		date.Format("2006-01-02"),
	)
}

// EscapeFormulaString escapes a value for use inside a single-quoted formula
// string literal.
func EscapeFormulaString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
