package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeJSONResponse(t *testing.T) {
	t.Run("strips json code fence", func(t *testing.T) {
		in := "```json\n{\"relevant\": true}\n```"
		assert.Equal(t, `{"relevant": true}`, sanitizeJSONResponse(in))
	})

	t.Run("strips bare code fence", func(t *testing.T) {
		in := "```\n{\"flagged\": false}\n```"
		assert.Equal(t, `{"flagged": false}`, sanitizeJSONResponse(in))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, sanitizeJSONResponse("  {\"a\": 1}\n"))
	})

	t.Run("passes clean JSON through", func(t *testing.T) {
		in := `{"relevant": true, "extra": "value"}`
		assert.Equal(t, in, sanitizeJSONResponse(in))
	})
}

func TestRepairMissingKeyQuotes(t *testing.T) {
	t.Run("repairs key after opening brace", func(t *testing.T) {
		out := repairMissingKeyQuotes(`{relevant": true}`)
		assert.Equal(t, `{"relevant": true}`, out)

		var parsed map[string]bool
		require.NoError(t, json.Unmarshal([]byte(out), &parsed))
		assert.True(t, parsed["relevant"])
	})

	t.Run("repairs key after comma", func(t *testing.T) {
		out := repairMissingKeyQuotes(`{"a": 1, flagged": false}`)
		assert.Equal(t, `{"a": 1, "flagged": false}`, out)
	})

	t.Run("leaves properly quoted keys alone", func(t *testing.T) {
		in := `{"a": 1, "b": {"c": [1, 2]}}`
		assert.Equal(t, in, repairMissingKeyQuotes(in))
	})

	t.Run("leaves non-key tokens alone", func(t *testing.T) {
		in := `{"values": [1, 2, true]}`
		assert.Equal(t, in, repairMissingKeyQuotes(in))
	})
}
