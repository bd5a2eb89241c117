package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    int64
		wantErr error
	}{
		{"integer", `5050`, 5050, nil},
		{"zero", `0`, 0, nil},
		{"integer-valued float", `50.0`, 50, nil},
		{"numeric string", `"5050"`, 5050, nil},
		{"missing", ``, 0, ErrRequired},
		{"null", `null`, 0, ErrRequired},
		{"empty string", `""`, 0, ErrRequired},
		{"blank string", `"   "`, 0, ErrRequired},
		{"fractional", `50.5`, 0, ErrFractional},
		{"fractional string", `"50.5"`, 0, ErrFractional},
		{"negative", `-5`, 0, ErrNegative},
		{"negative fraction", `-0.5`, 0, ErrNegative},
		{"word", `"abc"`, 0, ErrNotANumber},
		{"boolean", `true`, 0, ErrNotANumber},
		{"object", `{}`, 0, ErrNotANumber},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw json.RawMessage
			if tc.raw != "" {
				raw = json.RawMessage(tc.raw)
			}

			got, err := Normalize(raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// The exact wording matters: the client is told to send minor units, never
// that the server will convert for it.
func TestNormalize_FractionalMessageMentionsMinorUnit(t *testing.T) {
	_, err := Normalize(json.RawMessage(`50.5`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paise (integer)")
	assert.Contains(t, err.Error(), "5050")
}
