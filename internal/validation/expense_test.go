package validation

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/expense-tracker-service/internal/models"
)

var now = time.Date(2026, 2, 18, 15, 4, 5, 0, time.UTC)

func validRequest() models.CreateExpenseRequest {
	return models.CreateExpenseRequest{
		Amount:      json.RawMessage(`5050`),
		Category:    "Food",
		Description: "Lunch",
		Date:        "2026-02-18",
	}
}

func TestValidateCreate_Valid(t *testing.T) {
	ne, violations := ValidateCreate(validRequest(), now)

	require.Empty(t, violations)
	assert.Equal(t, int64(5050), ne.Amount)
	assert.Equal(t, "Food", ne.Category)
	assert.Equal(t, "Lunch", ne.Description)
	assert.Equal(t, time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC), ne.Date)
}

func TestValidateCreate_DescriptionBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		desc   string
		wantOK bool
	}{
		{"two chars rejected", "ab", false},
		{"three chars accepted", "abc", true},
		{"two hundred chars accepted", strings.Repeat("a", 200), true},
		{"two hundred one chars rejected", strings.Repeat("a", 201), false},
		{"trimmed before measuring", "  ab  ", false},
		{"multibyte counted as characters", strings.Repeat("é", 200), true},
		{"two multibyte chars rejected", "éé", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			req.Description = tc.desc
			_, violations := ValidateCreate(req, now)
			if tc.wantOK {
				assert.Empty(t, violations)
			} else {
				require.NotEmpty(t, violations)
				assert.Equal(t, "Description must be between 3 and 200 characters", violations[0])
			}
		})
	}
}

func TestValidateCreate_DateBoundaries(t *testing.T) {
	req := validRequest()

	// All of today is acceptable.
	req.Date = "2026-02-18"
	_, violations := ValidateCreate(req, now)
	assert.Empty(t, violations)

	// Tomorrow is not.
	req.Date = "2026-02-19"
	_, violations = ValidateCreate(req, now)
	require.NotEmpty(t, violations)
	assert.Equal(t, "Date cannot be in the future", violations[0])

	// RFC3339 timestamps are accepted too.
	req.Date = "2026-02-17T09:30:00Z"
	_, violations = ValidateCreate(req, now)
	assert.Empty(t, violations)

	req.Date = "not-a-date"
	_, violations = ValidateCreate(req, now)
	require.NotEmpty(t, violations)
	assert.Equal(t, "Date must be a valid date", violations[0])

	req.Date = ""
	_, violations = ValidateCreate(req, now)
	require.NotEmpty(t, violations)
	assert.Equal(t, "Date is required", violations[0])
}

func TestValidateCreate_Category(t *testing.T) {
	req := validRequest()

	for _, cat := range models.Categories {
		req.Category = cat
		_, violations := ValidateCreate(req, now)
		assert.Empty(t, violations, "category %q should be accepted", cat)
	}

	req.Category = "Gambling"
	_, violations := ValidateCreate(req, now)
	require.NotEmpty(t, violations)
	assert.Contains(t, violations[0], "Category must be one of:")
	assert.Contains(t, violations[0], "Food")

	req.Category = ""
	_, violations = ValidateCreate(req, now)
	require.NotEmpty(t, violations)
	assert.Equal(t, "Category is required", violations[0])
}

// The first violated rule is the primary error; the rest follow in rule
// order for diagnostics.
func TestValidateCreate_CollectsAllViolations(t *testing.T) {
	req := models.CreateExpenseRequest{
		Amount:      json.RawMessage(`50.5`),
		Category:    "Gambling",
		Description: "ab",
		Date:        "2099-01-01",
	}

	_, violations := ValidateCreate(req, now)
	require.Len(t, violations, 4)
	assert.Contains(t, violations[0], "paise (integer)")
	assert.Contains(t, violations[1], "Category must be one of:")
	assert.Equal(t, "Description must be between 3 and 200 characters", violations[2])
	assert.Equal(t, "Date cannot be in the future", violations[3])
}
