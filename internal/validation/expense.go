// Package validation checks the shape of incoming expense payloads.
package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PratikDhanave/expense-tracker-service/internal/models"
	"github.com/PratikDhanave/expense-tracker-service/internal/money"
)

const (
	descriptionMin = 3
	descriptionMax = 200

	dateLayout = "2006-01-02"
)

// ValidateCreate checks every rule on a create-expense payload and returns
// the normalized expense plus all violations in rule order. The first
// violation is the primary error shown to the client; the full list is
// returned for diagnostics. The payload is valid iff the list is empty.
func ValidateCreate(req models.CreateExpenseRequest, now time.Time) (models.NewExpense, []string) {
	var violations []string
	var ne models.NewExpense

	amount, err := money.Normalize(req.Amount)
	if err != nil {
		violations = append(violations, err.Error())
	} else {
		ne.Amount = amount
	}

	category := strings.TrimSpace(req.Category)
	switch {
	case category == "":
		violations = append(violations, "Category is required")
	case !models.ValidCategory(category):
		violations = append(violations, "Category must be one of: "+strings.Join(models.Categories, ", "))
	default:
		ne.Category = category
	}

	description := strings.TrimSpace(req.Description)
	// Length is measured in characters, not bytes, so multibyte text is not
	// cut short.
	descLen := utf8.RuneCountInString(description)
	switch {
	case description == "":
		violations = append(violations, "Description is required")
	case descLen < descriptionMin || descLen > descriptionMax:
		violations = append(violations, "Description must be between 3 and 200 characters")
	default:
		ne.Description = description
	}

	date, derr := parseDate(strings.TrimSpace(req.Date))
	switch {
	case strings.TrimSpace(req.Date) == "":
		violations = append(violations, "Date is required")
	case derr != nil:
		violations = append(violations, "Date must be a valid date")
	case afterToday(date, now):
		violations = append(violations, "Date cannot be in the future")
	default:
		ne.Date = date
	}

	if len(violations) > 0 {
		return models.NewExpense{}, violations
	}
	return ne, nil
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp,
// normalized to UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// afterToday reports whether t falls after the end of "today" in UTC.
// All of today is acceptable; tomorrow onwards is not.
func afterToday(t, now time.Time) bool {
	y, m, d := now.UTC().Date()
	endOfToday := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return t.After(endOfToday)
}
